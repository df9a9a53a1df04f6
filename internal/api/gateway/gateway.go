package gateway

import (
	"context"
	"fmt"
	"time"

	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/internal/middleware"
	"mystical-alchemist/backend-api/internal/services/account"
	accHandlers "mystical-alchemist/backend-api/internal/services/account/handlers"
	"mystical-alchemist/backend-api/internal/services/auth"
	authHandlers "mystical-alchemist/backend-api/internal/services/auth/handlers"
	"mystical-alchemist/backend-api/internal/services/leaderboard"
	lbHandlers "mystical-alchemist/backend-api/internal/services/leaderboard/handlers"
	"mystical-alchemist/backend-api/internal/services/puzzle"
	puzzleHandlers "mystical-alchemist/backend-api/internal/services/puzzle/handlers"
	"mystical-alchemist/backend-api/internal/services/session"
	sessHandlers "mystical-alchemist/backend-api/internal/services/session/handlers"
	"mystical-alchemist/backend-api/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// APIGateway handles the central routing and global middleware for the
// modular monolith.
type APIGateway struct {
	router *fiber.App
	logger *zap.Logger
	cfg    config.Config
	db     db.DBTX
}

// NewAPIGateway creates a new instance of APIGateway with a configured Fiber
// router.
func NewAPIGateway(cfg config.Config, logger *zap.Logger, dbConn db.DBTX) *APIGateway {
	app := fiber.New(fiber.Config{
		AppName: "Mystical Alchemist's World API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("gateway error", zap.Error(err))
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	gw := &APIGateway{
		router: app,
		logger: logger,
		cfg:    cfg,
		db:     dbConn,
	}

	gw.applyMiddleware()
	gw.setupHealthCheck()

	if dbConn != nil {
		authSvc := auth.NewAuthService(cfg, logger, dbConn)
		accSvc := account.NewAccountService(cfg, logger, dbConn)
		sessSvc := session.NewSessionService(cfg, logger, dbConn)
		lbSvc := leaderboard.NewLeaderboardService(cfg, logger, dbConn)
		puzzleSvc := puzzle.NewPuzzleService(cfg, logger)

		gw.registerRoutes(authSvc, accSvc, sessSvc, lbSvc, puzzleSvc)
	}

	gw.setupNotFound()

	return gw
}

func (g *APIGateway) registerRoutes(
	authSvc auth.Service,
	accSvc account.Service,
	sessSvc session.Service,
	lbSvc leaderboard.Service,
	puzzleSvc puzzle.Service,
) {
	authMiddleware := middleware.AuthMiddleware(authSvc, g.logger)

	// Auth routes
	authH := authHandlers.NewAuthHandlers(authSvc, g.logger)
	authGroup := g.MountGroup("/api/auth")
	authGroup.Post("/register", authH.Register)
	authGroup.Post("/login", authH.Login)

	// Account routes, all behind bearer auth
	accountH := accHandlers.NewAccountHandlers(accSvc, g.logger)
	authGroup.Get("/profile", authMiddleware, accountH.GetProfile)
	authGroup.Put("/profile", authMiddleware, accountH.UpdateProfile)
	authGroup.Put("/change-password", authMiddleware, accountH.ChangePassword)
	authGroup.Delete("/account", authMiddleware, accountH.DeleteAccount)

	// Session routes
	sessionH := sessHandlers.NewSessionHandlers(sessSvc, g.logger)
	g.router.Post("/api/sessions", authMiddleware, sessionH.RecordSession)

	// Leaderboard routes
	leaderboardH := lbHandlers.NewLeaderboardHandlers(lbSvc, g.logger)
	g.router.Get("/api/leaderboard", leaderboardH.GetLeaderboard)

	// Puzzle proxy, unauthenticated
	puzzleH := puzzleHandlers.NewPuzzleHandlers(puzzleSvc, g.logger)
	g.router.Get("/api/puzzle", puzzleH.GetPuzzle)
}

// applyMiddleware sets up global middleware for the gateway.
func (g *APIGateway) applyMiddleware() {
	g.router.Use(cors.New(cors.Config{
		AllowOrigins: g.cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	g.router.Use(fiberLogger.New())
	g.router.Use(recover.New())
	g.router.Use(limiter.New(limiter.Config{
		Max:        g.cfg.Server.RateLimitMax,
		Expiration: g.cfg.Server.RateLimitDuration,
	}))
}

// setupHealthCheck adds the root landing endpoint and the health check.
func (g *APIGateway) setupHealthCheck() {
	g.router.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Mystical Alchemist's World API",
			"endpoints": fiber.Map{
				"auth":        "/api/auth",
				"sessions":    "/api/sessions",
				"leaderboard": "/api/leaderboard",
				"puzzle":      "/api/puzzle",
				"health":      "/api/health",
			},
		})
	})

	g.router.Get("/api/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":   true,
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// setupNotFound registers the JSON 404 fallback. Must run after every route
// is mounted.
func (g *APIGateway) setupNotFound() {
	g.router.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
			"path":    c.Path(),
		})
	})
}

// MountGroup allows services to mount their own route groups on the gateway.
func (g *APIGateway) MountGroup(prefix string, handlers ...fiber.Handler) fiber.Router {
	return g.router.Group(prefix, handlers...)
}

// Router returns the underlying Fiber app (useful for testing).
func (g *APIGateway) Router() *fiber.App {
	return g.router
}

// Start begins listening on the configured host and port.
func (g *APIGateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.cfg.Server.Host, g.cfg.Server.Port)
	g.logger.Info("Starting API Gateway", zap.String("address", addr))
	return g.router.Listen(addr)
}

// Shutdown gracefully stops the gateway.
func (g *APIGateway) Shutdown(ctx context.Context) error {
	g.logger.Info("Shutting down API Gateway...")
	return g.router.ShutdownWithContext(ctx)
}
