package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestEntryValidation(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Harina de Trigo", "Materia Prima", "kg")

	cases := []struct {
		name string
		in   EntryInput
		code string
		st   int
	}{
		{"missing product", EntryInput{BatchNumber: "L1", Quantity: dec(1), ExpirationDate: types.MustDate("2025-02-01")}, "product_required", http.StatusBadRequest},
		{"unknown product", EntryInput{ProductID: uuid.New(), BatchNumber: "L1", Quantity: dec(1), ExpirationDate: types.MustDate("2025-02-01")}, "product_not_found", http.StatusNotFound},
		{"no batch number", EntryInput{ProductID: p.ID, Quantity: dec(1), ExpirationDate: types.MustDate("2025-02-01")}, "batch_number_required", http.StatusBadRequest},
		{"zero quantity", EntryInput{ProductID: p.ID, BatchNumber: "L1", ExpirationDate: types.MustDate("2025-02-01")}, "quantity_invalid", http.StatusBadRequest},
		{"no expiration", EntryInput{ProductID: p.ID, BatchNumber: "L1", Quantity: dec(1)}, "expiration_required", http.StatusBadRequest},
		{"expires before entry", EntryInput{ProductID: p.ID, BatchNumber: "L1", Quantity: dec(1), EntryDate: types.MustDate("2025-01-05"), ExpirationDate: types.MustDate("2025-01-04")}, "expiration_before_entry", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bs.Entry(ctx, tc.in)
			requireCode(t, err, tc.st, tc.code)
		})
	}
}

func TestEntryRecordsBatchAndMovement(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Harina de Trigo", "Materia Prima", "kg")
	prev := f.batch(t, p, "L001", 50, "2025-01-05", "2025-06-05")

	// Arrange: no entry date, so it defaults to the test day.
	in := EntryInput{ProductID: p.ID, BatchNumber: " L002 ", Quantity: decimal.RequireFromString("12.5"), ExpirationDate: types.MustDate("2025-01-15")}

	// Act
	res, err := bs.Entry(ctx, in)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "L002", res.Batch.BatchNumber)
	assert.Equal(t, "2025-01-10", res.Batch.EntryDate.String())
	assert.Equal(t, 5, res.Batch.DaysLeft)
	assert.Equal(t, inventory.ClassCritical, res.Batch.Class)
	require.NotNil(t, res.PlacedBehind)
	assert.Equal(t, prev.ID, res.PlacedBehind.ID)

	ledger, err := f.movements.List(dbcOf(ctx), repos.MovementFilter{BatchID: res.Batch.ID})
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, types.MovementEntry, ledger[0].Kind)
	assert.True(t, ledger[0].Quantity.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, []realtime.SSEEvent{realtime.SSEEventEntryRecorded}, f.emitter.events())
}

func TestSuggestFollowsFIFO(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Harina de Trigo", "Materia Prima", "kg")
	f.batch(t, p, "L002", 30, "2025-01-08", "2025-01-12")
	oldest := f.batch(t, p, "L001", 20, "2025-01-02", "2025-03-01")
	f.batch(t, p, "L000", 0, "2024-12-20", "2025-02-01")

	s, err := bs.Suggest(ctx, p.ID)

	require.NoError(t, err)
	require.NotNil(t, s.Batch)
	assert.Equal(t, oldest.ID, s.Batch.ID)
	assert.True(t, s.Available.Equal(dec(50)))
	require.Len(t, s.Queue, 2)
	assert.Equal(t, "L002", s.Queue[1].BatchNumber)

	empty := f.product(t, "Sal", "Materia Prima", "kg")
	s, err = bs.Suggest(ctx, empty.ID)
	require.NoError(t, err)
	assert.Nil(t, s.Batch)
}

func TestDispatchSingleBatch(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Galletas", "Producto Terminado", "cajas")
	oldest := f.batch(t, p, "G001", 10, "2025-01-01", "2025-02-01")
	newer := f.batch(t, p, "G002", 40, "2025-01-03", "2025-02-03")

	_, err := bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(15)})
	requireCode(t, err, http.StatusConflict, "exceeds_batch")

	res, err := bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(4)})
	require.NoError(t, err)
	require.Len(t, res.Plan.Allocations, 1)
	assert.Equal(t, oldest.ID, res.Plan.Allocations[0].Batch.ID)
	assert.True(t, res.Remaining.Equal(dec(46)))

	got, err := f.batches.GetByID(dbcOf(ctx), oldest.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec(6)))

	// Draining the oldest batch removes it; the next dispatch moves on.
	_, err = bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(6)})
	require.NoError(t, err)
	got, err = f.batches.GetByID(dbcOf(ctx), oldest.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	res, err = bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(1)})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, res.Plan.Allocations[0].Batch.ID)

	ledger, err := f.movements.List(dbcOf(ctx), repos.MovementFilter{ProductID: p.ID, Kind: types.MovementDispatch})
	require.NoError(t, err)
	assert.Len(t, ledger, 3)
}

func TestDispatchSplitAndRejections(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Aceite", "Materia Prima", "L")
	a := f.batch(t, p, "A1", 10, "2025-01-01", "2025-05-01")
	b := f.batch(t, p, "A2", 10, "2025-01-02", "2025-05-02")

	_, err := bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(0)})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")

	_, err = bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(25), Split: true})
	requireCode(t, err, http.StatusConflict, "insufficient_stock")

	res, err := bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: dec(15), Split: true})
	require.NoError(t, err)
	require.Len(t, res.Plan.Allocations, 2)
	assert.True(t, res.Plan.Allocations[0].Drained())
	assert.True(t, res.Plan.Allocations[1].Remaining.Equal(dec(5)))
	assert.Len(t, res.Movements, 2)

	gone, _ := f.batches.GetByID(dbcOf(ctx), a.ID)
	assert.Nil(t, gone)
	left, _ := f.batches.GetByID(dbcOf(ctx), b.ID)
	require.NotNil(t, left)
	assert.True(t, left.Quantity.Equal(dec(5)))

	other := f.product(t, "Sal", "Materia Prima", "kg")
	_, err = bs.Dispatch(ctx, DispatchInput{ProductID: other.ID, Quantity: dec(1)})
	requireCode(t, err, http.StatusConflict, "no_stock")
}

func TestBatchUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Pan", "Producto Terminado", "unidades")
	b := f.batch(t, p, "P1", 10, "2025-01-01", "2025-01-20")

	q := dec(7)
	exp := types.MustDate("2025-01-25")
	st, err := bs.Update(ctx, b.ID, BatchPatch{Quantity: &q, ExpirationDate: &exp})
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec(7)))
	assert.Equal(t, 15, st.DaysLeft)
	assert.Equal(t, inventory.LevelUrgent, st.Level)

	adjust, err := f.movements.List(dbcOf(ctx), repos.MovementFilter{BatchID: b.ID, Kind: types.MovementAdjust})
	require.NoError(t, err)
	require.Len(t, adjust, 1)
	assert.True(t, adjust[0].Quantity.Equal(dec(-3)))

	bad := types.MustDate("2024-12-01")
	_, err = bs.Update(ctx, b.ID, BatchPatch{ExpirationDate: &bad})
	requireCode(t, err, http.StatusBadRequest, "expiration_before_entry")

	neg := dec(-1)
	_, err = bs.Update(ctx, b.ID, BatchPatch{Quantity: &neg})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")

	require.NoError(t, bs.Delete(ctx, b.ID))
	requireCode(t, bs.Delete(ctx, b.ID), http.StatusNotFound, "batch_not_found")

	list, err := bs.List(ctx, BatchQuery{ProductID: p.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestQuantitiesMustFitStoredScale(t *testing.T) {
	f := newFixture(t)
	bs := f.batchService()
	ctx := asOperator()
	p := f.product(t, "Levadura", "Materia Prima", "kg")
	b := f.batch(t, p, "Y1", 1, "2025-01-01", "2025-03-01")

	tiny := decimal.RequireFromString("0.0004")
	huge := decimal.New(1, 11)

	_, err := bs.Entry(ctx, EntryInput{ProductID: p.ID, BatchNumber: "Y2", Quantity: tiny, ExpirationDate: types.MustDate("2025-03-01")})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")
	_, err = bs.Entry(ctx, EntryInput{ProductID: p.ID, BatchNumber: "Y2", Quantity: huge, ExpirationDate: types.MustDate("2025-03-01")})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")

	_, err = bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: tiny})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")

	precise := decimal.RequireFromString("1.2345")
	_, err = bs.Update(ctx, b.ID, BatchPatch{Quantity: &precise})
	requireCode(t, err, http.StatusBadRequest, "quantity_invalid")

	// Nothing was written: stock and ledger agree.
	left, err := f.batches.GetByID(dbcOf(ctx), b.ID)
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.True(t, left.Quantity.Equal(dec(1)))
	ledger, err := f.movements.List(dbcOf(ctx), repos.MovementFilter{ProductID: p.ID, Kind: types.MovementDispatch})
	require.NoError(t, err)
	assert.Empty(t, ledger)

	// Three decimals and trailing zeros are accepted.
	res, err := bs.Dispatch(ctx, DispatchInput{ProductID: p.ID, Quantity: decimal.RequireFromString("0.2500")})
	require.NoError(t, err)
	require.Len(t, res.Plan.Allocations, 1)
	assert.True(t, res.Plan.Allocations[0].Remaining.Equal(decimal.RequireFromString("0.75")))
}
