package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/jobs"
	"folio/internal/log"
	"folio/internal/queue"
	"folio/internal/repository"
	"folio/internal/security"
	"folio/internal/server"
	"folio/internal/service"
	"folio/internal/storage"
)

// infra holds the long-lived connections shared by every component.
type infra struct {
	db    *pgxpool.Pool
	redis *redis.Client
	blobs storage.Store
}

func (i infra) close(logger zerolog.Logger) {
	i.db.Close()
	if err := i.redis.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	handlerSet, pending, producer, err := buildHandlers(cfg, logger, deps)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handlers")
	}
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(cfg.Uploads.SweepSchedule, cfg.Uploads.PendingTTL, pending, producer, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	scheduler.Stop()
	deps.close(logger)

	logger.Info().Msg("server exited cleanly")
}

func connect(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (infra, error) {
	db, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return infra{}, err
	}
	if cfg.Postgres.AutoMigrate {
		if err := database.ApplySchema(ctx, db); err != nil {
			db.Close()
			return infra{}, err
		}
		logger.Info().Msg("schema up to date")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return infra{}, err
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		_ = redisClient.Close()
		return infra{}, err
	}
	return infra{db: db, redis: redisClient, blobs: blobs}, nil
}

func buildHandlers(cfg *config.AppConfig, logger zerolog.Logger, deps infra) (handlers.HandlerSet, *cache.PendingUploads, *queue.Producer, error) {
	hasher, err := security.NewHasher(security.DefaultParams, cfg.Security.HashConcurrency)
	if err != nil {
		return handlers.HandlerSet{}, nil, nil, err
	}
	tokens, err := security.NewTokenService(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	if err != nil {
		return handlers.HandlerSet{}, nil, nil, err
	}

	users := repository.NewUserRepository(deps.db)
	portfolios := repository.NewPortfolioRepository(deps.db)
	sections := repository.NewSectionRepository(deps.db)
	projects := repository.NewProjectRepository(deps.db)

	throttle := cache.NewLoginThrottle(deps.redis, cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)
	pending := cache.NewPendingUploads(deps.redis)
	producer := queue.NewProducer(deps.redis, cfg.Worker.Stream)

	assets := service.NewAssets(deps.blobs, pending, producer, portfolios, sections, projects, logger)

	handlerSet := handlers.NewHandlerSet(handlers.Deps{
		Log:         logger,
		Environment: cfg.Environment,
		Tokens:      tokens,
		Principals:  users,
		Accounts:    service.NewAccountService(users, hasher, tokens, throttle, assets, logger),
		Portfolios:  service.NewPortfolioService(portfolios, sections, projects, assets),
		Sections:    service.NewSectionService(portfolios, sections, assets),
		Projects:    service.NewProjectService(portfolios, projects, assets),
		Uploads:     service.NewUploadService(deps.blobs, pending, cfg.Storage.MaxUploadBytes, cfg.Storage.PresignTTL, logger),
		Checks: map[string]handlers.HealthCheck{
			"database": deps.db.Ping,
			"cache": func(ctx context.Context) error {
				return deps.redis.Ping(ctx).Err()
			},
		},
	})
	return handlerSet, pending, producer, nil
}
