package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type BatchRepo interface {
	Create(dbc dbctx.Context, row *types.Batch) (*types.Batch, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Batch, error)
	List(dbc dbctx.Context) ([]*types.Batch, error)
	ListByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.Batch, error)
	// LockByProduct loads the product's batches with FOR UPDATE where the
	// driver supports it. Call it inside a transaction.
	LockByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.Batch, error)
	CountByProduct(dbc dbctx.Context, productID uuid.UUID) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.Batch, error)
	SetQuantity(dbc dbctx.Context, id uuid.UUID, qty decimal.Decimal) error
	RenameProduct(dbc dbctx.Context, productID uuid.UUID, name string) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	DeleteByProduct(dbc dbctx.Context, productID uuid.UUID) (int64, error)
}

type batchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return &batchRepo{db: db, log: baseLog.With("repo", "BatchRepo")}
}

const fifoOrder = "entry_date ASC, created_at ASC, batch_number ASC"

func (r *batchRepo) Create(dbc dbctx.Context, row *types.Batch) (*types.Batch, error) {
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *batchRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Batch, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Batch
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *batchRepo) List(dbc dbctx.Context) ([]*types.Batch, error) {
	var out []*types.Batch
	if err := dbc.Conn(r.db).Order(fifoOrder).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *batchRepo) ListByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.Batch, error) {
	var out []*types.Batch
	if productID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("product_id = ?", productID).Order(fifoOrder).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *batchRepo) LockByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.Batch, error) {
	var out []*types.Batch
	if productID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("product_id = ?", productID).Order(fifoOrder)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *batchRepo) CountByProduct(dbc dbctx.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.Batch{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *batchRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.Batch{}).Count(&n).Error
	return n, err
}

func (r *batchRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.Batch, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if len(updates) > 0 {
		if err := dbc.Conn(r.db).Model(&types.Batch{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}

func (r *batchRepo) SetQuantity(dbc dbctx.Context, id uuid.UUID, qty decimal.Decimal) error {
	return dbc.Conn(r.db).Model(&types.Batch{}).Where("id = ?", id).Update("quantity", qty).Error
}

// RenameProduct keeps the denormalized product name in sync.
func (r *batchRepo) RenameProduct(dbc dbctx.Context, productID uuid.UUID, name string) error {
	return dbc.Conn(r.db).Model(&types.Batch{}).Where("product_id = ?", productID).Update("product_name", name).Error
}

func (r *batchRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).Where("id = ?", id).Delete(&types.Batch{}).Error
}

func (r *batchRepo) DeleteByProduct(dbc dbctx.Context, productID uuid.UUID) (int64, error) {
	res := dbc.Conn(r.db).Where("product_id = ?", productID).Delete(&types.Batch{})
	return res.RowsAffected, res.Error
}
