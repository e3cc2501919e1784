package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

const (
	recentEntriesLimit = 5
	uncategorized      = "Sin categoría"
)

type ProductTotal struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Total       decimal.Decimal `json:"total"`
	Batches     int             `json:"batches"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Batches  int             `json:"batches"`
}

type Summary struct {
	TotalProducts int             `json:"total_products"`
	ActiveBatches int             `json:"active_batches"`
	Windows       Windows         `json:"windows"`
	Critical      []ExpiryStatus  `json:"critical"`
	Expiring      []ExpiryStatus  `json:"expiring"`
	Expired       []ExpiryStatus  `json:"expired"`
	ByProduct     []ProductTotal  `json:"by_product"`
	ByCategory    []CategoryTotal `json:"by_category"`
	RecentEntries []types.Batch   `json:"recent_entries"`
}

// Summarize builds the dashboard view. Only batches with quantity > 0 count;
// products whose total is zero are left out of the per-product totals.
func Summarize(products []types.Product, batches []types.Batch, now time.Time, w Windows) Summary {
	s := Summary{
		TotalProducts: len(products),
		Windows:       w,
		Critical:      []ExpiryStatus{},
		Expiring:      []ExpiryStatus{},
		Expired:       []ExpiryStatus{},
		ByProduct:     []ProductTotal{},
		ByCategory:    []CategoryTotal{},
	}

	byID := make(map[uuid.UUID]types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	active := Active(batches)
	s.ActiveBatches = len(active)

	perProduct := map[uuid.UUID]*ProductTotal{}
	perCategory := map[string]*CategoryTotal{}
	for _, b := range active {
		st := StatusOf(b, now, w)
		switch st.Class {
		case ClassExpired:
			s.Expired = append(s.Expired, st)
		case ClassCritical:
			s.Critical = append(s.Critical, st)
		case ClassExpiring:
			s.Expiring = append(s.Expiring, st)
		}

		p, known := byID[b.ProductID]
		pt, ok := perProduct[b.ProductID]
		if !ok {
			pt = &ProductTotal{ProductID: b.ProductID, ProductName: b.ProductName, Category: uncategorized, Total: decimal.Zero}
			if known {
				pt.ProductName, pt.Category, pt.Unit = p.Name, p.Category, p.Unit
			}
			perProduct[b.ProductID] = pt
		}
		pt.Total = pt.Total.Add(b.Quantity)
		pt.Batches++

		ct, ok := perCategory[pt.Category]
		if !ok {
			ct = &CategoryTotal{Category: pt.Category, Total: decimal.Zero}
			perCategory[pt.Category] = ct
		}
		ct.Total = ct.Total.Add(b.Quantity)
		ct.Batches++
	}

	sortByExpiration(s.Critical)
	sortByExpiration(s.Expiring)
	sortByExpiration(s.Expired)

	for _, pt := range perProduct {
		if pt.Total.IsPositive() {
			s.ByProduct = append(s.ByProduct, *pt)
		}
	}
	sort.Slice(s.ByProduct, func(i, j int) bool {
		if !s.ByProduct[i].Total.Equal(s.ByProduct[j].Total) {
			return s.ByProduct[i].Total.GreaterThan(s.ByProduct[j].Total)
		}
		return s.ByProduct[i].ProductName < s.ByProduct[j].ProductName
	})
	for _, ct := range perCategory {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool { return s.ByCategory[i].Category < s.ByCategory[j].Category })

	s.RecentEntries = RecentEntries(active, recentEntriesLimit)
	return s
}

// RecentEntries returns up to limit batches, newest entry first.
func RecentEntries(batches []types.Batch, limit int) []types.Batch {
	out := append([]types.Batch(nil), batches...)
	sort.SliceStable(out, func(i, j int) bool { return fifoLess(out[j], out[i]) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []types.Batch{}
	}
	return out
}
