package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userstore/user-service/internal/api/handler"
	"github.com/userstore/user-service/internal/api/middleware"
	"github.com/userstore/user-service/internal/auth/integrity"
	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// RouterConfig bundles the dependencies the HTTP layer is built from.
type RouterConfig struct {
	Log       zerolog.Logger
	Users     ports.UserService
	Audit     ports.AuditService
	AuditSink ports.AuditSink
	Codec     *token.Codec
	Hasher    *integrity.Hasher

	// MinAge is the inclusive lower bound enforced by body validation.
	MinAge int

	// Mongo and Redis back the readiness probe only.
	Mongo *mongo.Database
	Redis *redis.Client

	// Metrics overrides the Prometheus registry; nil uses the default one.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator(cfg.MinAge)
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if cfg.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "users",
			Registerer: cfg.Metrics,
		}))
	} else {
		e.Use(echoprometheus.NewMiddleware("users"))
	}

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	if cfg.Metrics != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Metrics}))
	} else {
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	userHandler := handler.NewUserHandler(cfg.Users, cfg.Hasher, cfg.AuditSink, cfg.Log)
	auditHandler := handler.NewAuditHandler(cfg.Audit)

	auth := middleware.Auth(cfg.Codec, cfg.Log)
	adminOnly := middleware.RequireRole(domain.RoleAdmin, cfg.AuditSink, cfg.Log)
	userOnly := middleware.RequireRole(domain.RoleUser, cfg.AuditSink, cfg.Log)

	v1 := e.Group("/api/v1", auth)
	v1.GET("/user/:id", userHandler.Get, adminOnly)
	v1.POST("/user", userHandler.Save, userOnly)
	v1.PUT("/user", userHandler.Update, adminOnly)
	v1.POST("/user/search", userHandler.Search, adminOnly)
	v1.GET("/user/counts", userHandler.Counts) // any verified claims
	v1.GET("/user/download", userHandler.Download, adminOnly)
	v1.DELETE("/user/:id", userHandler.Remove, adminOnly)
	v1.GET("/audit", auditHandler.List, adminOnly)

	return e
}
