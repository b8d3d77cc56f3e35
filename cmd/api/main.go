package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/token-service/internal/api/http"
	"github.com/spec-kit/token-service/internal/api/http/handlers"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/directory"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/observability"
	"github.com/spec-kit/token-service/internal/persistence"
	"github.com/spec-kit/token-service/internal/service"
	"github.com/spec-kit/token-service/internal/store"
	"github.com/spec-kit/token-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.Secret == "" {
		logger.Warn("AUTH_JWT_SECRET not set; every token operation will be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var tracking store.TrackingStore
	switch cfg.Tracking.Backend {
	case "postgres":
		tracking = store.NewPostgresStore(pg.PoolHandle())
	case "memory":
		tracking = store.NewMemoryStore()
	default:
		tracking = store.NewRedisStore(redis.Client)
	}
	logger.Info("tracking store configured",
		zap.String("backend", cfg.Tracking.Backend),
		zap.Bool("enabled", cfg.Tracking.Enabled))

	dispatcher := events.NewInMemoryDispatcher()
	worker.NewAuditWorker(dispatcher, logger).Start()

	tokenService := service.NewTokenService(*cfg, service.TokenDependencies{
		Directory:  directory.NewPostgresDirectory(pg.PoolHandle()),
		Tracking:   tracking,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tokens:  handlers.NewTokensHandler(tokenService),
		Bearer:  httptransport.NewBearerMiddleware(tokenService),
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
