package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MovementEntry    = "entry"
	MovementDispatch = "dispatch"
	MovementAdjust   = "adjust"
	MovementDelete   = "delete"
)

// Movement is an append-only ledger row. Batch fields are copied so the row
// survives the batch being drained and removed.
type Movement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        string          `gorm:"not null;column:kind;index" json:"kind"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;column:batch_id;index" json:"batch_id"`
	BatchNumber string          `gorm:"not null;column:batch_number" json:"batch_number"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;column:product_id;index" json:"product_id"`
	ProductName string          `gorm:"not null;column:product_name" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3);not null;column:quantity" json:"quantity"`
	UserID      *uuid.UUID      `gorm:"type:uuid;column:user_id" json:"user_id,omitempty"`
	Details     datatypes.JSON  `gorm:"column:details" json:"details,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Movement) TableName() string { return "movement" }

func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
