package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Batch is a quantity of one product received on EntryDate. ProductName is
// denormalized so listings and reports do not need a join.
type Batch struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_product_entry,priority:1;column:product_id" json:"product_id"`
	ProductName    string          `gorm:"not null;column:product_name" json:"product_name"`
	BatchNumber    string          `gorm:"not null;column:batch_number;index" json:"batch_number"`
	Quantity       decimal.Decimal `gorm:"type:numeric(14,3);not null;column:quantity" json:"quantity"`
	EntryDate      Date            `gorm:"type:date;not null;index:idx_batch_product_entry,priority:2;column:entry_date" json:"entry_date"`
	ExpirationDate Date            `gorm:"type:date;not null;index;column:expiration_date" json:"expiration_date"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (Batch) TableName() string { return "batch" }

func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Batch) IsActive() bool { return b.Quantity.IsPositive() }

// Quantity columns are numeric(14,3).
const QuantityScale = 3

// MaxQuantity is the exclusive upper bound of a stored quantity.
var MaxQuantity = decimal.New(1, 11)

// QuantityFits reports whether q is stored without rounding or overflow.
func QuantityFits(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale)) && q.Abs().LessThan(MaxQuantity)
}
