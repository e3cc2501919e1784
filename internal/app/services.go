package app

import (
	"fmt"

	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Product   services.ProductService
	Batch     services.BatchService
	Dashboard services.DashboardService
	Report    services.ReportService
	Seed      services.SeedService

	Notifier services.InventoryNotifier
	Monitor  *services.ExpiryMonitor
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	// Events go through the bus so every instance's hub sees them.
	emitter := &services.BusEmitter{Bus: clients.SSEBus, Log: log}
	notifier := services.NewInventoryNotifier(emitter)

	authService, err := services.NewAuthService(log, repos.User, repos.Session, cfg.Auth)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	monitor := services.NewExpiryMonitor(log, repos.Batch, notifier, cfg.Inventory, cfg.MonitorInterval)
	if clients.Mail != nil {
		monitor.SetDigest(services.NewExpiryDigest(log, clients.Mail, repos.User, repos.DigestMark, cfg.Inventory, cfg.DigestRecipients))
	}

	return Services{
		Auth:      authService,
		User:      services.NewUserService(log, repos.User, repos.Session),
		Product:   services.NewProductService(clients.DB, log, repos.Product, repos.Batch, repos.Movement, notifier),
		Batch:     services.NewBatchService(clients.DB, log, repos.Product, repos.Batch, repos.Movement, notifier, cfg.Inventory),
		Dashboard: services.NewDashboardService(log, repos.Product, repos.Batch, cfg.Inventory),
		Report:    services.NewReportService(log, repos.Batch, cfg.Inventory),
		Seed: services.NewSeedService(
			clients.DB, log,
			repos.User, repos.Product, repos.Batch, repos.Movement,
			cfg.Seed, cfg.Inventory, cfg.ProductStore,
		),
		Notifier: notifier,
		Monitor:  monitor,
	}, nil
}
