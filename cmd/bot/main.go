package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vilyx-net/vector/internal/api/http"
	"github.com/vilyx-net/vector/internal/api/http/handlers"
	"github.com/vilyx-net/vector/internal/auth"
	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/events"
	"github.com/vilyx-net/vector/internal/gateway/discord"
	"github.com/vilyx-net/vector/internal/observability"
	"github.com/vilyx-net/vector/internal/persistence"
	"github.com/vilyx-net/vector/internal/repository"
	"github.com/vilyx-net/vector/internal/service"
)

const version = "dev"

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

	var store repository.TicketStore
	if pool := pg.PoolHandle(); pool != nil {
		store = repository.NewPostgresTicketStore(pool)
	} else {
		store = repository.NewMemoryTicketStore()
	}

	session, err := discord.NewSession(cfg.Bot.Token)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	adapter := discord.NewAdapter(session, cfg.Bot.GuildID)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	roleChecker := auth.NewRoleChecker(cfg.Roles, adapter)

	lifecycle := service.NewLifecycle(service.LifecycleDeps{
		Channels:      cfg.Channels,
		Roles:         cfg.Roles,
		Tickets:       cfg.Tickets,
		DefaultRoleID: cfg.Bot.GuildID,
		Store:         store,
		Gateway:       adapter,
		RoleChecker:   roleChecker,
		Dispatcher:    dispatcher,
		Logger:        logger,
		Metrics:       metrics,
	})
	moderation := service.NewModeration(cfg.Roles, adapter, dispatcher, logger)

	audit := service.NewAudit(cfg.Channels, adapter, logger)
	audit.RegisterHandlers(dispatcher)

	bot := discord.NewBot(discord.BotDeps{
		Config:     cfg,
		Session:    session,
		Lifecycle:  lifecycle,
		Moderation: moderation,
		PanelCache: repository.NewPanelCache(redis),
		Logger:     logger,
	})
	if err := bot.Start(); err != nil {
		logger.Fatal("failed to open discord session", zap.Error(err))
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics)

	tokenManager := auth.NewTokenManager(cfg.Ops.JWTSecret, cfg.Ops.TokenTTL)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler("vector", version, pg, redis, lifecycle),
		Tickets:       handlers.NewTicketsHandler(store, lifecycle),
		OpsMiddleware: auth.NewOpsMiddleware(tokenManager),
	})

	go func() {
		if err := app.Listen(cfg.Ops.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := bot.Stop(); err != nil {
		logger.Warn("discord session close failed", zap.Error(err))
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
