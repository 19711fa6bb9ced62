package main

import (
	"log"

	"collabboard-backend/internal/cache"
	"collabboard-backend/internal/config"
	"collabboard-backend/internal/server"
)

func main() {
	cfg := config.Load()

	// Chat history cache is optional; the board runs without it.
	var redisClient *cache.RedisClient
	if cfg.Redis.Addr != "" {
		var err error
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("[Main] Redis unavailable, chat history disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	} else {
		log.Println("[Main] Redis not configured, chat history disabled")
	}

	srv := server.New(cfg, redisClient)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
