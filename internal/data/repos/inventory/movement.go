package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type MovementFilter struct {
	ProductID uuid.UUID
	BatchID   uuid.UUID
	Kind      string
	Since     time.Time
	Limit     int
}

type MovementRepo interface {
	Create(dbc dbctx.Context, rows []*types.Movement) ([]*types.Movement, error)
	List(dbc dbctx.Context, f MovementFilter) ([]*types.Movement, error)
}

type movementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovementRepo(db *gorm.DB, baseLog *logger.Logger) MovementRepo {
	return &movementRepo{db: db, log: baseLog.With("repo", "MovementRepo")}
}

func (r *movementRepo) Create(dbc dbctx.Context, rows []*types.Movement) ([]*types.Movement, error) {
	if len(rows) == 0 {
		return []*types.Movement{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns movements newest first. Limit defaults to 100 and is capped
// at 1000.
func (r *movementRepo) List(dbc dbctx.Context, f MovementFilter) ([]*types.Movement, error) {
	q := dbc.Conn(r.db).Model(&types.Movement{})
	if f.ProductID != uuid.Nil {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.BatchID != uuid.Nil {
		q = q.Where("batch_id = ?", f.BatchID)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	var out []*types.Movement
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
