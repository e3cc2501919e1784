package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/observability"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type EntryInput struct {
	ProductID      uuid.UUID       `json:"product_id"`
	BatchNumber    string          `json:"batch_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	EntryDate      types.Date      `json:"entry_date"`
	ExpirationDate types.Date      `json:"expiration_date"`
}

type EntryResult struct {
	Batch inventory.ExpiryStatus `json:"batch"`
	// PlacedBehind is the newest batch the product already had; the new
	// entry queues after it.
	PlacedBehind *types.Batch `json:"placed_behind,omitempty"`
}

type BatchPatch struct {
	BatchNumber    *string          `json:"batch_number"`
	Quantity       *decimal.Decimal `json:"quantity"`
	EntryDate      *types.Date      `json:"entry_date"`
	ExpirationDate *types.Date      `json:"expiration_date"`
}

type BatchQuery struct {
	ProductID  uuid.UUID
	ActiveOnly bool
}

type Suggestion struct {
	Product   *types.Product           `json:"product"`
	Batch     *inventory.ExpiryStatus  `json:"batch"`
	Available decimal.Decimal          `json:"available"`
	Queue     []inventory.ExpiryStatus `json:"queue"`
}

type DispatchInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Split     bool            `json:"split"`
}

type DispatchResult struct {
	Plan      inventory.DispatchPlan `json:"plan"`
	Movements []*types.Movement      `json:"movements"`
	Remaining decimal.Decimal        `json:"remaining"`
}

type BatchService interface {
	List(ctx context.Context, q BatchQuery) ([]inventory.ExpiryStatus, error)
	Get(ctx context.Context, id uuid.UUID) (*inventory.ExpiryStatus, error)
	Entry(ctx context.Context, in EntryInput) (*EntryResult, error)
	Update(ctx context.Context, id uuid.UUID, in BatchPatch) (*inventory.ExpiryStatus, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Suggest(ctx context.Context, productID uuid.UUID) (*Suggestion, error)
	Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error)
	Movements(ctx context.Context, f repos.MovementFilter) ([]*types.Movement, error)
}

type batchService struct {
	db           *gorm.DB
	log          *logger.Logger
	productRepo  repos.ProductRepo
	batchRepo    repos.BatchRepo
	movementRepo repos.MovementRepo
	notify       InventoryNotifier
	cfg          InventoryConfig
}

func NewBatchService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo repos.ProductRepo,
	batchRepo repos.BatchRepo,
	movementRepo repos.MovementRepo,
	notify InventoryNotifier,
	cfg InventoryConfig,
) BatchService {
	if notify == nil {
		notify = NewInventoryNotifier(nil)
	}
	return &batchService{
		db:           db,
		log:          log.With("service", "BatchService"),
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		notify:       notify,
		cfg:          cfg,
	}
}

func (bs *batchService) status(b *types.Batch) inventory.ExpiryStatus {
	return inventory.StatusOf(*b, bs.cfg.now(), bs.cfg.windows())
}

func (bs *batchService) product(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, apierr.Invalid("product_required", "product_id is required")
	}
	p, err := bs.productRepo.GetByID(dbcOf(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product_not_found", "product %s", id)
	}
	return p, nil
}

func (bs *batchService) List(ctx context.Context, q BatchQuery) ([]inventory.ExpiryStatus, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	var rows []*types.Batch
	var err error
	if q.ProductID != uuid.Nil {
		rows, err = bs.batchRepo.ListByProduct(dbcOf(ctx), q.ProductID)
	} else {
		rows, err = bs.batchRepo.List(dbcOf(ctx))
	}
	if err != nil {
		return nil, err
	}
	out := make([]inventory.ExpiryStatus, 0, len(rows))
	for _, b := range rows {
		if q.ActiveOnly && !b.IsActive() {
			continue
		}
		out = append(out, bs.status(b))
	}
	return out, nil
}

func (bs *batchService) Get(ctx context.Context, id uuid.UUID) (*inventory.ExpiryStatus, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	b, err := bs.batchRepo.GetByID(dbcOf(ctx), id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apierr.NotFound("batch_not_found", "batch %s", id)
	}
	st := bs.status(b)
	return &st, nil
}

func validateDates(entry, exp types.Date) error {
	if exp.IsZero() {
		return apierr.Invalid("expiration_required", "expiration_date is required")
	}
	if exp.Before(entry) {
		return apierr.Invalid("expiration_before_entry", "expiration_date %s is before entry_date %s", exp, entry)
	}
	return nil
}

func movementDetails(v map[string]any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// Entry records incoming stock as a new batch.
func (bs *batchService) Entry(ctx context.Context, in EntryInput) (*EntryResult, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	p, err := bs.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	in.BatchNumber = clean(in.BatchNumber)
	if in.BatchNumber == "" {
		return nil, apierr.Invalid("batch_number_required", "batch_number is required")
	}
	if !in.Quantity.IsPositive() {
		return nil, apierr.Invalid("quantity_invalid", "quantity must be greater than zero")
	}
	if err := storableQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.EntryDate.IsZero() {
		in.EntryDate = inventory.Today(bs.cfg.now())
	}
	if err := validateDates(in.EntryDate, in.ExpirationDate); err != nil {
		return nil, err
	}

	var created *types.Batch
	var behind *types.Batch
	err = bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := bs.batchRepo.LockByProduct(dbc, p.ID)
		if err != nil {
			return err
		}
		if latest, ok := inventory.LatestBatch(values(existing), p.ID); ok {
			behind = &latest
		}
		created, err = bs.batchRepo.Create(dbc, &types.Batch{
			ProductID:      p.ID,
			ProductName:    p.Name,
			BatchNumber:    in.BatchNumber,
			Quantity:       in.Quantity,
			EntryDate:      in.EntryDate,
			ExpirationDate: in.ExpirationDate,
		})
		if err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		_, err = bs.movementRepo.Create(dbc, []*types.Movement{{
			Kind:        types.MovementEntry,
			BatchID:     created.ID,
			BatchNumber: created.BatchNumber,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    created.Quantity,
			UserID:      actorPtr(ctx),
			Details:     movementDetails(map[string]any{"entry_date": created.EntryDate, "expiration_date": created.ExpirationDate}),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	qty, _ := created.Quantity.Float64()
	observability.Current().ObserveMovement(types.MovementEntry, p.Unit, qty)
	bs.log.Info("Inventory entry recorded", "batch_id", created.ID, "product_id", p.ID, "batch_number", created.BatchNumber, "quantity", created.Quantity.String())
	bs.notify.EntryRecorded(ctx, created, actorID(ctx))
	return &EntryResult{Batch: bs.status(created), PlacedBehind: behind}, nil
}

func (bs *batchService) Update(ctx context.Context, id uuid.UUID, in BatchPatch) (*inventory.ExpiryStatus, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	var updated *types.Batch
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := bs.batchRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apierr.NotFound("batch_not_found", "batch %s", id)
		}

		updates := map[string]interface{}{}
		if in.BatchNumber != nil {
			n := clean(*in.BatchNumber)
			if n == "" {
				return apierr.Invalid("batch_number_required", "batch_number cannot be empty")
			}
			updates["batch_number"] = n
		}
		if in.Quantity != nil {
			if in.Quantity.IsNegative() {
				return apierr.Invalid("quantity_invalid", "quantity cannot be negative")
			}
			if err := storableQuantity(*in.Quantity); err != nil {
				return err
			}
			updates["quantity"] = *in.Quantity
		}
		entry, exp := existing.EntryDate, existing.ExpirationDate
		if in.EntryDate != nil && !in.EntryDate.IsZero() {
			entry = *in.EntryDate
			updates["entry_date"] = entry
		}
		if in.ExpirationDate != nil && !in.ExpirationDate.IsZero() {
			exp = *in.ExpirationDate
			updates["expiration_date"] = exp
		}
		if err := validateDates(entry, exp); err != nil {
			return err
		}

		if updated, err = bs.batchRepo.UpdateFields(dbc, id, updates); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if in.Quantity != nil && !in.Quantity.Equal(existing.Quantity) {
			delta := in.Quantity.Sub(existing.Quantity)
			_, err = bs.movementRepo.Create(dbc, []*types.Movement{{
				Kind:        types.MovementAdjust,
				BatchID:     existing.ID,
				BatchNumber: updated.BatchNumber,
				ProductID:   existing.ProductID,
				ProductName: existing.ProductName,
				Quantity:    delta,
				UserID:      actorPtr(ctx),
				Details:     movementDetails(map[string]any{"from": existing.Quantity, "to": *in.Quantity}),
			}})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	bs.notify.BatchUpdated(ctx, updated)
	st := bs.status(updated)
	return &st, nil
}

func (bs *batchService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	var removed *types.Batch
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		b, err := bs.batchRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if b == nil {
			return apierr.NotFound("batch_not_found", "batch %s", id)
		}
		removed = b
		if _, err := bs.movementRepo.Create(dbc, []*types.Movement{{
			Kind:        types.MovementDelete,
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			ProductID:   b.ProductID,
			ProductName: b.ProductName,
			Quantity:    b.Quantity,
			UserID:      actorPtr(ctx),
		}}); err != nil {
			return err
		}
		return bs.batchRepo.Delete(dbc, id)
	})
	if err != nil {
		return err
	}
	bs.log.Info("Batch deleted", "batch_id", id, "batch_number", removed.BatchNumber)
	bs.notify.BatchDeleted(ctx, removed)
	return nil
}

// Suggest returns the batch FIFO says to dispatch next. Batch is nil when the
// product has no stock.
func (bs *batchService) Suggest(ctx context.Context, productID uuid.UUID) (*Suggestion, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	p, err := bs.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	rows, err := bs.batchRepo.ListByProduct(dbcOf(ctx), productID)
	if err != nil {
		return nil, err
	}
	batches := values(rows)
	out := &Suggestion{Product: p, Available: inventory.TotalQuantity(batches), Queue: []inventory.ExpiryStatus{}}
	for i, b := range inventory.FIFOOrder(batches, productID) {
		st := bs.status(&b)
		if i == 0 {
			out.Batch = &st
		}
		out.Queue = append(out.Queue, st)
	}
	return out, nil
}

func dispatchError(err error) (string, error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		return "invalid_quantity", apierr.Invalid("quantity_invalid", "quantity must be greater than zero")
	case errors.Is(err, inventory.ErrNoStock):
		return "no_stock", apierr.Conflict("no_stock", "no batches with stock for this product")
	case errors.Is(err, inventory.ErrExceedsBatch):
		return "exceeds_batch", apierr.Conflict("exceeds_batch", "%s", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient_stock", apierr.Conflict("insufficient_stock", "%s", err.Error())
	default:
		return "", err
	}
}

// Dispatch removes stock following FIFO. The plan is computed from rows
// locked inside the transaction; drained batches are deleted and every
// allocation is written to the movement ledger.
func (bs *batchService) Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	p, err := bs.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity.IsPositive() {
		if err := storableQuantity(in.Quantity); err != nil {
			return nil, err
		}
	}

	res := &DispatchResult{}
	err = bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		rows, err := bs.batchRepo.LockByProduct(dbc, p.ID)
		if err != nil {
			return err
		}
		batches := values(rows)
		plan, err := inventory.PlanDispatch(batches, p.ID, in.Quantity, in.Split)
		if err != nil {
			return err
		}

		ledger := make([]*types.Movement, 0, len(plan.Allocations))
		for _, a := range plan.Allocations {
			if a.Drained() {
				err = bs.batchRepo.Delete(dbc, a.Batch.ID)
			} else {
				err = bs.batchRepo.SetQuantity(dbc, a.Batch.ID, a.Remaining)
			}
			if err != nil {
				return fmt.Errorf("apply allocation to %s: %w", a.Batch.BatchNumber, err)
			}
			ledger = append(ledger, &types.Movement{
				Kind:        types.MovementDispatch,
				BatchID:     a.Batch.ID,
				BatchNumber: a.Batch.BatchNumber,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    a.Take,
				UserID:      actorPtr(ctx),
				Details:     movementDetails(map[string]any{"remaining": a.Remaining, "drained": a.Drained(), "split": in.Split}),
			})
		}
		if res.Movements, err = bs.movementRepo.Create(dbc, ledger); err != nil {
			return fmt.Errorf("record movements: %w", err)
		}
		res.Plan = plan
		res.Remaining = inventory.TotalQuantity(batches).Sub(in.Quantity)
		return nil
	})
	if err != nil {
		reason, mapped := dispatchError(err)
		if reason != "" {
			observability.Current().IncDispatchRejected(reason)
			bs.log.Info("Dispatch rejected", "product_id", p.ID, "quantity", in.Quantity.String(), "reason", reason)
		}
		return nil, mapped
	}

	qty, _ := in.Quantity.Float64()
	observability.Current().ObserveMovement(types.MovementDispatch, p.Unit, qty)
	bs.log.Info("Dispatch applied", "product_id", p.ID, "quantity", in.Quantity.String(), "batches", len(res.Plan.Allocations))
	bs.notify.Dispatched(ctx, res.Plan, actorID(ctx))
	return res, nil
}

func (bs *batchService) Movements(ctx context.Context, f repos.MovementFilter) ([]*types.Movement, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	return bs.movementRepo.List(dbcOf(ctx), f)
}
