package domain

import (
	"github.com/yungbote/sca-inventory-backend/internal/domain/auth"
	"github.com/yungbote/sca-inventory-backend/internal/domain/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/domain/user"
)

const (
	RoleAdmin = user.RoleAdmin
	RoleUser  = user.RoleUser

	StatusActive   = user.StatusActive
	StatusInactive = user.StatusInactive

	MovementEntry    = inventory.MovementEntry
	MovementDispatch = inventory.MovementDispatch
	MovementAdjust   = inventory.MovementAdjust
	MovementDelete   = inventory.MovementDelete

	QuantityScale = inventory.QuantityScale
)

type User = user.User
type Session = auth.Session

type Product = inventory.Product
type Batch = inventory.Batch
type Movement = inventory.Movement
type DigestMark = inventory.DigestMark
type Date = inventory.Date

var (
	NewDate   = inventory.NewDate
	DateOf    = inventory.DateOf
	ParseDate = inventory.ParseDate
	MustDate  = inventory.MustDate

	QuantityFits = inventory.QuantityFits
	MaxQuantity  = inventory.MaxQuantity
)

// Models lists every table, in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&Session{},
		&Product{},
		&Batch{},
		&Movement{},
		&DigestMark{},
	}
}
