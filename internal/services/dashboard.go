package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type DashboardService interface {
	Summary(ctx context.Context) (*inventory.Summary, error)
	// Notifications lists active batches expiring within the widest window.
	Notifications(ctx context.Context) ([]inventory.ExpiryStatus, error)
}

type dashboardService struct {
	log         *logger.Logger
	productRepo repos.ProductRepo
	batchRepo   repos.BatchRepo
	cfg         InventoryConfig
}

func NewDashboardService(log *logger.Logger, productRepo repos.ProductRepo, batchRepo repos.BatchRepo, cfg InventoryConfig) DashboardService {
	return &dashboardService{
		log:         log.With("service", "DashboardService"),
		productRepo: productRepo,
		batchRepo:   batchRepo,
		cfg:         cfg,
	}
}

func (ds *dashboardService) load(ctx context.Context) ([]types.Product, []types.Batch, error) {
	var products []*types.Product
	var batches []*types.Batch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = ds.productRepo.List(dbcOf(gctx), "")
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = ds.batchRepo.List(dbcOf(gctx))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return productValues(products), values(batches), nil
}

func (ds *dashboardService) Summary(ctx context.Context) (*inventory.Summary, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	products, batches, err := ds.load(ctx)
	if err != nil {
		return nil, err
	}
	s := inventory.Summarize(products, batches, ds.cfg.now(), ds.cfg.windows())
	return &s, nil
}

func (ds *dashboardService) Notifications(ctx context.Context) ([]inventory.ExpiryStatus, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	rows, err := ds.batchRepo.List(dbcOf(ctx))
	if err != nil {
		return nil, err
	}
	w := ds.cfg.windows()
	return inventory.ExpiringWithin(values(rows), w.Expiring, ds.cfg.now(), w), nil
}
