package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

var (
	ErrNoStock           = errors.New("no stock available for product")
	ErrExceedsBatch      = errors.New("quantity exceeds oldest batch")
	ErrInsufficientStock = errors.New("insufficient stock across batches")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)

// Allocation is the part of a dispatch taken from one batch.
type Allocation struct {
	Batch     types.Batch     `json:"batch"`
	Take      decimal.Decimal `json:"take"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Drained reports whether the allocation empties its batch.
func (a Allocation) Drained() bool { return !a.Remaining.IsPositive() }

type DispatchPlan struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Requested   decimal.Decimal `json:"requested"`
	Allocations []Allocation    `json:"allocations"`
}

// fifoLess orders by entry date, then creation time, then batch number.
func fifoLess(a, b types.Batch) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.BatchNumber < b.BatchNumber
}

// Active returns the batches with quantity > 0, preserving order.
func Active(batches []types.Batch) []types.Batch {
	out := make([]types.Batch, 0, len(batches))
	for _, b := range batches {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

// OldestBatch is the FIFO pick for a product: the active batch with the
// earliest entry date.
func OldestBatch(batches []types.Batch, productID uuid.UUID) (types.Batch, bool) {
	var (
		best  types.Batch
		found bool
	)
	for _, b := range batches {
		if b.ProductID != productID || !b.IsActive() {
			continue
		}
		if !found || fifoLess(b, best) {
			best, found = b, true
		}
	}
	return best, found
}

// FIFOOrder returns every active batch of the product, oldest first.
func FIFOOrder(batches []types.Batch, productID uuid.UUID) []types.Batch {
	out := make([]types.Batch, 0)
	for _, b := range batches {
		if b.ProductID == productID && b.IsActive() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return fifoLess(out[i], out[j]) })
	return out
}

// LatestBatch returns the most recently entered batch of the product,
// regardless of quantity. A new entry is queued behind it.
func LatestBatch(batches []types.Batch, productID uuid.UUID) (types.Batch, bool) {
	var (
		best  types.Batch
		found bool
	)
	for _, b := range batches {
		if b.ProductID != productID {
			continue
		}
		if !found || fifoLess(best, b) {
			best, found = b, true
		}
	}
	return best, found
}

// PlanDispatch decides which batches a dispatch of qty draws from.
//
// Business Rules:
//
//	GIVEN: the batches of a product and a requested quantity
//	WHEN: split is false
//	THEN: the whole quantity comes from the oldest active batch
//	ERROR: ErrNoStock when there is no active batch, ErrExceedsBatch when
//	       the oldest batch holds less than qty
//	WHEN: split is true
//	THEN: batches are drained oldest first until qty is covered
//	ERROR: ErrInsufficientStock when all active batches together hold less
//	       than qty
//
// qty <= 0 is always ErrInvalidQuantity. The input slice is not modified.
func PlanDispatch(batches []types.Batch, productID uuid.UUID, qty decimal.Decimal, split bool) (DispatchPlan, error) {
	plan := DispatchPlan{ProductID: productID, Requested: qty}
	if !qty.IsPositive() {
		return plan, ErrInvalidQuantity
	}

	if !split {
		oldest, ok := OldestBatch(batches, productID)
		if !ok {
			return plan, ErrNoStock
		}
		if qty.GreaterThan(oldest.Quantity) {
			return plan, fmt.Errorf("%w: batch %s has %s available", ErrExceedsBatch, oldest.BatchNumber, oldest.Quantity.String())
		}
		plan.Allocations = []Allocation{{Batch: oldest, Take: qty, Remaining: oldest.Quantity.Sub(qty)}}
		return plan, nil
	}

	ordered := FIFOOrder(batches, productID)
	if len(ordered) == 0 {
		return plan, ErrNoStock
	}
	need := qty
	for _, b := range ordered {
		if !need.IsPositive() {
			break
		}
		take := decimal.Min(need, b.Quantity)
		plan.Allocations = append(plan.Allocations, Allocation{Batch: b, Take: take, Remaining: b.Quantity.Sub(take)})
		need = need.Sub(take)
	}
	if need.IsPositive() {
		available := qty.Sub(need)
		plan.Allocations = nil
		return plan, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientStock, qty.String(), available.String())
	}
	return plan, nil
}

// TotalQuantity sums the quantity of the given batches.
func TotalQuantity(batches []types.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity)
	}
	return total
}
