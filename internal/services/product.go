package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type ProductInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

type ProductPatch struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Unit     *string `json:"unit"`
}

type ProductStats struct {
	Product       *types.Product  `json:"product"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	BatchCount    int             `json:"batch_count"`
	ActiveBatches int             `json:"active_batches"`
}

type ProductService interface {
	List(ctx context.Context, search string) ([]*types.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Product, error)
	Stats(ctx context.Context, id uuid.UUID) (*ProductStats, error)
	Create(ctx context.Context, in ProductInput) (*types.Product, error)
	Update(ctx context.Context, id uuid.UUID, in ProductPatch) (*types.Product, error)
	// Delete refuses products that still have batches unless cascade is set.
	// It returns how many batches were removed alongside the product.
	Delete(ctx context.Context, id uuid.UUID, cascade bool) (int64, error)
}

type productService struct {
	db           *gorm.DB
	log          *logger.Logger
	productRepo  repos.ProductRepo
	batchRepo    repos.BatchRepo
	movementRepo repos.MovementRepo
	notify       InventoryNotifier
}

func NewProductService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo repos.ProductRepo,
	batchRepo repos.BatchRepo,
	movementRepo repos.MovementRepo,
	notify InventoryNotifier,
) ProductService {
	if notify == nil {
		notify = NewInventoryNotifier(nil)
	}
	return &productService{
		db:           db,
		log:          log.With("service", "ProductService"),
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		notify:       notify,
	}
}

func (ps *productService) List(ctx context.Context, search string) ([]*types.Product, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	return ps.productRepo.List(dbcOf(ctx), search)
}

func (ps *productService) Get(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	return ps.mustProduct(ctx, id)
}

func (ps *productService) mustProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	p, err := ps.productRepo.GetByID(dbcOf(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product_not_found", "product %s", id)
	}
	return p, nil
}

func (ps *productService) Stats(ctx context.Context, id uuid.UUID) (*ProductStats, error) {
	p, err := ps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := ps.batchRepo.ListByProduct(dbcOf(ctx), id)
	if err != nil {
		return nil, err
	}
	batches := values(rows)
	return &ProductStats{
		Product:       p,
		TotalQuantity: inventory.TotalQuantity(batches),
		BatchCount:    len(batches),
		ActiveBatches: len(inventory.Active(batches)),
	}, nil
}

func (in ProductInput) validate() error {
	if clean(in.Name) == "" || clean(in.Category) == "" || clean(in.Unit) == "" {
		return apierr.Invalid("product_fields_required", "name, category and unit are required")
	}
	return nil
}

func (ps *productService) Create(ctx context.Context, in ProductInput) (*types.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := ps.productRepo.Create(dbcOf(ctx), &types.Product{
		Name:     clean(in.Name),
		Category: clean(in.Category),
		Unit:     clean(in.Unit),
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	ps.log.Info("Product created", "product_id", p.ID, "name", p.Name)
	ps.notify.ProductChanged(ctx, p, "created")
	return p, nil
}

func (ps *productService) Update(ctx context.Context, id uuid.UUID, in ProductPatch) (*types.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	existing, err := ps.mustProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	for col, v := range map[string]*string{"name": in.Name, "category": in.Category, "unit": in.Unit} {
		if v == nil {
			continue
		}
		if clean(*v) == "" {
			return nil, apierr.Invalid("product_fields_required", "%s cannot be empty", col)
		}
		updates[col] = clean(*v)
	}

	p, err := ps.productRepo.UpdateFields(dbcOf(ctx), id, updates)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product_not_found", "product %s", id)
	}
	if p.Name != existing.Name {
		if err := ps.batchRepo.RenameProduct(dbcOf(ctx), id, p.Name); err != nil {
			return nil, fmt.Errorf("rename product batches: %w", err)
		}
	}
	ps.notify.ProductChanged(ctx, p, "updated")
	return p, nil
}

func (ps *productService) Delete(ctx context.Context, id uuid.UUID, cascade bool) (int64, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	p, err := ps.mustProduct(ctx, id)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		batches, err := ps.batchRepo.LockByProduct(dbc, id)
		if err != nil {
			return err
		}
		if len(batches) > 0 && !cascade {
			return apierr.Conflict("product_has_batches", "product %s still has %d batches", p.Name, len(batches))
		}
		if len(batches) > 0 {
			ledger := make([]*types.Movement, 0, len(batches))
			for _, b := range batches {
				ledger = append(ledger, &types.Movement{
					Kind:        types.MovementDelete,
					BatchID:     b.ID,
					BatchNumber: b.BatchNumber,
					ProductID:   b.ProductID,
					ProductName: b.ProductName,
					Quantity:    b.Quantity,
					UserID:      actorPtr(ctx),
				})
			}
			if _, err := ps.movementRepo.Create(dbc, ledger); err != nil {
				return fmt.Errorf("record movements: %w", err)
			}
			if removed, err = ps.batchRepo.DeleteByProduct(dbc, id); err != nil {
				return fmt.Errorf("delete batches: %w", err)
			}
		}
		return ps.productRepo.Delete(dbc, id)
	})
	if err != nil {
		return 0, err
	}
	ps.log.Info("Product deleted", "product_id", id, "batches_removed", removed)
	ps.notify.ProductChanged(ctx, p, "deleted")
	return removed, nil
}
