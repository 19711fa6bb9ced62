package auth

import (
	"github.com/gofiber/fiber/v2"
)

// WebSocketAuth is the once-per-connection authorization check performed
// before the coordinator accepts any event. The token comes from the
// access_token cookie or, for clients that cannot set cookies on the
// upgrade request, the token query parameter. With allowAnonymous the
// check is skipped and connections carry no identity claims.
func WebSocketAuth(jwtManager *JWTManager, allowAnonymous bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if allowAnonymous {
			return c.Next()
		}

		token := c.Cookies("access_token")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals("userId", claims.UserID)
		c.Locals("nickname", claims.Nickname)

		return c.Next()
	}
}
