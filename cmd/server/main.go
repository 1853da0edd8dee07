package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/userstore/user-service/docs"
	"github.com/userstore/user-service/internal/api"
	"github.com/userstore/user-service/internal/auth/integrity"
	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/service"
	"github.com/userstore/user-service/internal/infrastructure/config"
	mongodb "github.com/userstore/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userstore/user-service/internal/infrastructure/db/redis"
	"github.com/userstore/user-service/internal/infrastructure/queue"
	"github.com/userstore/user-service/pkg/logger"
)

// @title        User Service API
// @version      1.0
// @description  Role-gated CRUD service for user records with integrity-hash protected updates.
//
// @BasePath  /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Env: cfg.Env})
	log.Info().Str("env", cfg.Env).Msg("starting user service")

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	userRepo := mongodb.NewUserRepository(db, log)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("audit index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// --- Core wiring ---
	countsCache := redisdb.NewCountsCache(rdb, cfg.Cache.CountsTTL)
	userService := service.NewUserService(userRepo, countsCache, log)
	auditService := service.NewAuditService(auditRepo, log)

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.RouterConfig{
		Log:       log,
		Users:     userService,
		Audit:     auditService,
		AuditSink: dispatcher,
		Codec:     token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Hasher:    integrity.NewHasher(cfg.Auth.HashPrefix),
		MinAge:    cfg.Validation.MinAge,
		Mongo:     db,
		Redis:     rdb,
	})

	// --- Serve with graceful shutdown ---
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("user service listening")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}

	log.Info().Msg("server stopped")
}
