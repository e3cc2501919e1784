package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

func Test_Summarize(t *testing.T) {
	// arrange
	now := at("2025-01-05")
	products := []types.Product{flour, sugar, cookie}
	batches := []types.Batch{
		batch(flour, "L001", 500, "2024-09-30", "2025-03-31"),
		batch(flour, "L002", 300, "2024-10-09", "2025-01-20"),
		batch(sugar, "L003", 1000, "2024-09-14", "2026-09-14"),
		batch(cookie, "L004", 200, "2024-10-11", "2025-01-11"),
		batch(cookie, "L005", 0, "2024-10-13", "2025-01-06"),
		batch(sugar, "L006", 5, "2024-08-01", "2025-01-01"),
	}

	// act
	s := Summarize(products, batches, now, DefaultWindows())

	// assert
	assert.Equal(t, 3, s.TotalProducts)
	assert.Equal(t, 5, s.ActiveBatches)

	require.Len(t, s.Critical, 1)
	assert.Equal(t, "L004", s.Critical[0].BatchNumber)
	assert.Equal(t, 6, s.Critical[0].DaysLeft)

	require.Len(t, s.Expiring, 1)
	assert.Equal(t, "L002", s.Expiring[0].BatchNumber)

	require.Len(t, s.Expired, 1)
	assert.Equal(t, "L006", s.Expired[0].BatchNumber)

	require.Len(t, s.ByProduct, 3)
	assert.Equal(t, "Azúcar Refinada", s.ByProduct[0].ProductName)
	assert.True(t, s.ByProduct[0].Total.Equal(decimal.NewFromInt(1005)))
	assert.Equal(t, "Harina de Trigo", s.ByProduct[1].ProductName)
	assert.True(t, s.ByProduct[1].Total.Equal(decimal.NewFromInt(800)))

	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Materia Prima", s.ByCategory[0].Category)
	assert.True(t, s.ByCategory[0].Total.Equal(decimal.NewFromInt(1805)))
	assert.Equal(t, "Producto Terminado", s.ByCategory[1].Category)
	assert.Equal(t, 1, s.ByCategory[1].Batches)

	require.Len(t, s.RecentEntries, 5)
	assert.Equal(t, "L004", s.RecentEntries[0].BatchNumber)
	assert.Equal(t, "L006", s.RecentEntries[4].BatchNumber)
}

func Test_Summarize_EmptyInventory(t *testing.T) {
	s := Summarize(nil, nil, at("2025-01-05"), DefaultWindows())

	assert.Equal(t, 0, s.ActiveBatches)
	assert.NotNil(t, s.Critical)
	assert.NotNil(t, s.RecentEntries)
	assert.Empty(t, s.ByProduct)
}

func Test_Summarize_UnknownProductFallsBackToBatchName(t *testing.T) {
	orphan := batch(types.Product{ID: flour.ID, Name: "Harina vieja"}, "X1", 3, "2024-10-01", "2026-01-01")

	s := Summarize(nil, []types.Batch{orphan}, at("2025-01-05"), DefaultWindows())

	require.Len(t, s.ByProduct, 1)
	assert.Equal(t, "Harina vieja", s.ByProduct[0].ProductName)
	assert.Equal(t, "Sin categoría", s.ByProduct[0].Category)
}
