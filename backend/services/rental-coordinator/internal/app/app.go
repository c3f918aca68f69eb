package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "playpoint/backend/libs/db"
	libredis "playpoint/backend/libs/redis"
	"playpoint/backend/services/rental-coordinator/internal/cache"
	"playpoint/backend/services/rental-coordinator/internal/clients"
	"playpoint/backend/services/rental-coordinator/internal/config"
	httpserver "playpoint/backend/services/rental-coordinator/internal/http"
	"playpoint/backend/services/rental-coordinator/internal/http/handlers"
	"playpoint/backend/services/rental-coordinator/internal/identity"
	"playpoint/backend/services/rental-coordinator/internal/redisfeed"
	"playpoint/backend/services/rental-coordinator/internal/repository"
	"playpoint/backend/services/rental-coordinator/internal/service"
)

// App wires rental coordinator dependencies.
type App struct {
	server      *httpserver.Server
	coordinator *service.Coordinator
	pool        *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := libdb.NewPostgresPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	consoleRepo := repository.NewConsoleRepository(pool)
	ledgerRepo := repository.NewLedgerRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	deviceIdentity := identity.NewProvider(cfg.Device.IDFile)
	arbiter := service.NewArbiter(deviceIdentity, settingsRepo)

	consoleClient := clients.NewConsoleClient(clients.NewDefaultHTTPClient(cfg.Hardware.CommandTimeout), logger)

	sessionCache := cache.NewActiveSessions(sessionRepo, logger)
	publisher := redisfeed.NewPublisher(redisClient, cfg.Redis.Channel)
	listener := redisfeed.NewListener(redisClient, cfg.Redis.Channel, sessionCache.Refresh, logger)

	finalizer := service.NewFinalizer(sessionRepo, consoleRepo, itemRepo, ledgerRepo, consoleClient, publisher, logger)
	billing := service.NewBillingPoller(arbiter, sessionCache, sessionRepo, memberRepo, consoleRepo, ledgerRepo, finalizer, logger)
	timeout := service.NewTimeoutMonitor(sessionCache, finalizer, logger)
	idle := service.NewIdleMonitor(consoleRepo, consoleClient, &service.LogAlerter{Logger: logger}, logger)

	coordinator := service.NewCoordinator(
		billing,
		timeout,
		idle,
		finalizer,
		sessionRepo,
		sessionCache,
		listener,
		service.Intervals{
			Billing: cfg.Billing.Interval,
			Timeout: cfg.Timeout.Interval,
			Idle:    cfg.Idle.Interval,
		},
		logger,
	)

	routes := httpserver.Routes{
		ActiveSessions:      handlers.NewActiveSessionsHandler(coordinator),
		CacheRefresh:        handlers.NewCacheRefreshHandler(coordinator, logger),
		IdleSweep:           handlers.NewIdleSweepHandler(coordinator, logger),
		SessionEnd:          handlers.NewSessionEndHandler(coordinator, logger),
		AuthorizedDeviceGet: handlers.NewAuthorizedDeviceGetHandler(arbiter, deviceIdentity),
		AuthorizedDeviceSet: handlers.NewAuthorizedDeviceSetHandler(arbiter, logger),
		Health:              handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		coordinator: coordinator,
		pool:        pool,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the coordinator loops and the HTTP server; it blocks until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.coordinator.Start(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
