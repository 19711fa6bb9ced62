package server

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"collabboard-backend/internal/auth"
	"collabboard-backend/internal/board"
	"collabboard-backend/internal/cache"
	"collabboard-backend/internal/config"
	"collabboard-backend/internal/handler"
)

// Server wraps the Fiber app and the collaboration hub.
type Server struct {
	app           *fiber.App
	cfg           *config.Config
	hub           *handler.BoardHub
	boardHandler  *handler.BoardHandler
	healthHandler *handler.HealthHandler
	jwtManager    *auth.JWTManager
}

// New creates a server instance around one collaboration session.
func New(cfg *config.Config, redisClient *cache.RedisClient) *Server {
	app := fiber.New(fiber.Config{
		AppName:         "Collab Board Gateway",
		ServerHeader:    "Fiber",
		StrictRouting:   true,
		CaseSensitive:   true,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		Prefork:         false, // incompatible with websocket connections
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	hub := handler.NewBoardHub(board.NewSession(), redisClient)

	return &Server{
		app:           app,
		cfg:           cfg,
		hub:           hub,
		boardHandler:  handler.NewBoardHandler(hub, redisClient),
		healthHandler: handler.NewHealthHandler(hub, redisClient),
		jwtManager:    jwtManager,
	}
}

// SetupMiddleware installs the middleware stack.
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// Fiber refuses to start with credentials enabled on a wildcard
	// origin, so the cookie-carrying mode is opt-in via a concrete origin
	// list.
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     s.cfg.CORS.AllowHeaders,
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: s.cfg.CORS.AllowOrigins != "*",
	}))

	// Client bundle (canvas page, board scripts).
	s.app.Static("/", s.cfg.Server.StaticDir)
}

// SetupRoutes installs the HTTP and websocket routes.
func (s *Server) SetupRoutes() {
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	s.app.Get("/api/board", s.boardHandler.GetBoard)
	s.app.Get("/api/board/chat/recent", s.boardHandler.GetRecentChat)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws/board",
		auth.WebSocketAuth(s.jwtManager, s.cfg.Auth.AllowAnonymous),
		websocket.New(s.hub.HandleWebSocket, websocket.Config{
			ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
		}))
}

// Start runs the listener with graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("[Server] Shutting down...")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("[Server] Shutdown error: %v", err)
		}
	}()

	log.Printf("[Server] Collab Board Gateway starting on %s", s.cfg.Server.Port)
	log.Printf("[Server] WebSocket endpoint: ws://localhost%s/ws/board", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
