package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

var (
	flour  = types.Product{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Name: "Harina de Trigo", Category: "Materia Prima", Unit: "kg"}
	sugar  = types.Product{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a2"), Name: "Azúcar Refinada", Category: "Materia Prima", Unit: "kg"}
	cookie = types.Product{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a4"), Name: "Galletas Chocolate", Category: "Producto Terminado", Unit: "cajas"}
)

func batch(p types.Product, number string, qty int64, entry, exp string) types.Batch {
	return types.Batch{
		ID:             uuid.New(),
		ProductID:      p.ID,
		ProductName:    p.Name,
		BatchNumber:    number,
		Quantity:       decimal.NewFromInt(qty),
		EntryDate:      types.MustDate(entry),
		ExpirationDate: types.MustDate(exp),
	}
}

// at returns noon on the given day so calendar-day math is unambiguous.
func at(day string) time.Time {
	d := types.MustDate(day).Time()
	return d.Add(12 * time.Hour)
}
