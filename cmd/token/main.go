// Dev utility: mints an access token for connecting a board client.
//
//	JWT_SECRET=... go run ./cmd/token -user u1 -nickname Alice
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"collabboard-backend/internal/auth"
)

func main() {
	user := flag.String("user", "dev", "user id claim")
	nickname := flag.String("nickname", "Dev", "nickname claim")
	expiry := flag.Duration("expiry", 12*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	manager := auth.NewJWTManager(secret, *expiry)
	token, err := manager.GenerateAccessToken(*user, *nickname)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
