package app

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/sca-inventory-backend/internal/data/db"
	"github.com/yungbote/sca-inventory-backend/internal/http"
	"github.com/yungbote/sca-inventory-backend/internal/observability"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	metrics := observability.Init(log)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(clients.DB); err != nil {
		clients.Close()
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	reposet := wireRepos(log, cfg, clients)
	serviceset, err := wireServices(log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, clients.SSEHub)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the expiry monitor, metrics collectors and
// the optional first-boot seed.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Cfg.SeedOnStart {
		res, err := a.Services.Seed.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
		a.Log.Info("Seed on start", "seeded", res.Seeded, "users", res.Users, "products", res.Products, "batches", res.Batches)
	}

	a.Metrics.StartPostgresCollector(ctx, a.Log, a.Clients.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	a.Services.Monitor.Start(ctx)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, a.Cfg.Addr())
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Monitor != nil {
		a.Services.Monitor.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
