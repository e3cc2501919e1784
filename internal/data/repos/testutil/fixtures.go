package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Operario " + email,
		Email:    email,
		Password: "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinvali",
		Role:     role,
		Status:   types.StatusActive,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name, category, unit string) *types.Product {
	tb.Helper()
	p := &types.Product{ID: uuid.New(), Name: name, Category: category, Unit: unit}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedBatch(tb testing.TB, ctx context.Context, tx *gorm.DB, p *types.Product, number string, qty int64, entry, exp string) *types.Batch {
	tb.Helper()
	b := &types.Batch{
		ID:             uuid.New(),
		ProductID:      p.ID,
		ProductName:    p.Name,
		BatchNumber:    number,
		Quantity:       decimal.NewFromInt(qty),
		EntryDate:      types.MustDate(entry),
		ExpirationDate: types.MustDate(exp),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return b
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
