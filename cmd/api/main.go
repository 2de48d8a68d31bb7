package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/trend-blog/internal/api/http"
	"github.com/spec-kit/trend-blog/internal/api/http/handlers"
	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/config"
	"github.com/spec-kit/trend-blog/internal/events"
	"github.com/spec-kit/trend-blog/internal/observability"
	"github.com/spec-kit/trend-blog/internal/persistence"
	"github.com/spec-kit/trend-blog/internal/repository"
	"github.com/spec-kit/trend-blog/internal/service"
	"github.com/spec-kit/trend-blog/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	metrics.Serve(cfg.Metrics.Addr, logger)

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

	if err := persistence.EnsureAdminUser(ctx, pg.PoolHandle(), *cfg, logger); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	denylist := auth.NewRedisDenylist(redis.Client)
	freshness := auth.NewFreshnessGuard(cfg.Auth.FreshnessWindow())

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:   userRepo,
		TokenMgr:   tokenMgr,
		Denylist:   denylist,
		Dispatcher: dispatcher,
	})
	postService := service.NewPostService(postRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(tokenMgr, userRepo, denylist)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(userService, freshness)
	adminHandler := handlers.NewAdminHandler(userService)
	postsHandler := handlers.NewPostsHandler(postService)
	managementHandler := handlers.NewManagementHandler(usersHandler, adminHandler, authMiddleware, freshness)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Admin:          adminHandler,
		Posts:          postsHandler,
		Management:     managementHandler,
		AuthMiddleware: authMiddleware,
		Freshness:      freshness,
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
