package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/serviclean/booking-platform/internal/api/handler"
	"github.com/serviclean/booking-platform/internal/api/middleware"
	"github.com/serviclean/booking-platform/internal/core/domain"
	"github.com/serviclean/booking-platform/internal/core/ports"
	"github.com/serviclean/booking-platform/internal/core/service"
	"github.com/serviclean/booking-platform/internal/infrastructure/config"
	mongodb "github.com/serviclean/booking-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/serviclean/booking-platform/internal/infrastructure/db/redis"
	"github.com/serviclean/booking-platform/internal/pkg/token"
)

// Deps bundles the shared infrastructure the router wires together.
type Deps struct {
	Mongo *mongo.Database
	Redis *redis.Client
	Audit ports.AuditRecorder
	Log   zerolog.Logger
}

// The /auth group is capped at 10 req/s with a burst of 20 per process. The
// per-account throttle in Redis is the targeted defence; this is a backstop.
const (
	authRateLimit = rate.Limit(10)
	authRateBurst = 20
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Dependencies ---
	tokens := token.NewJWTMaker(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	throttle := redisdb.NewLoginThrottle(deps.Redis, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	authService := service.NewAuthService(userRepo, tokens, throttle, deps.Log)
	authHandler := handler.NewAuthHandler(authService, deps.Audit)
	adminHandler := handler.NewAdminHandler(authService)
	requireAuth := middleware.Auth(tokens)

	// --- Auth routes ---
	auth := e.Group("/auth", middleware.RateLimit(authRateLimit, authRateBurst))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.PUT("/change-password", authHandler.ChangePassword, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)

	// --- Admin routes (role-gated) ---
	admin := e.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
