package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos/testutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
)

func TestBatchRepoFIFOOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewBatchRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	flour := testutil.SeedProduct(t, ctx, tx, "Harina de Trigo", "Materia Prima", "kg")
	sugar := testutil.SeedProduct(t, ctx, tx, "Azúcar", "Materia Prima", "kg")

	testutil.SeedBatch(t, ctx, tx, flour, "L002", 30, "2025-01-10", "2025-03-10")
	first := testutil.SeedBatch(t, ctx, tx, flour, "L001", 50, "2025-01-05", "2025-02-05")
	testutil.SeedBatch(t, ctx, tx, sugar, "A001", 10, "2025-01-01", "2025-06-01")

	rows, err := repo.ListByProduct(dbc, flour.ID)
	if err != nil {
		t.Fatalf("ListByProduct: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != first.ID {
		t.Fatalf("ListByProduct: expected oldest entry first, got %+v", rows)
	}
	if rows[0].EntryDate.String() != "2025-01-05" {
		t.Fatalf("ListByProduct: entry date round trip: %s", rows[0].EntryDate)
	}
	if !rows[0].Quantity.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("ListByProduct: quantity round trip: %s", rows[0].Quantity)
	}

	locked, err := repo.LockByProduct(dbc, flour.ID)
	if err != nil {
		t.Fatalf("LockByProduct: %v", err)
	}
	if len(locked) != 2 {
		t.Fatalf("LockByProduct: expected 2 rows, got %d", len(locked))
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].BatchNumber != "A001" {
		t.Fatalf("List: unexpected order: %+v", all)
	}

	if n, err := repo.CountByProduct(dbc, flour.ID); err != nil || n != 2 {
		t.Fatalf("CountByProduct: n=%d err=%v", n, err)
	}
}

func TestBatchRepoMutations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewBatchRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	flour := testutil.SeedProduct(t, ctx, tx, "Harina de Trigo", "Materia Prima", "kg")
	b := testutil.SeedBatch(t, ctx, tx, flour, "L001", 50, "2025-01-05", "2025-02-05")
	testutil.SeedBatch(t, ctx, tx, flour, "L002", 20, "2025-01-06", "2025-02-06")

	if err := repo.SetQuantity(dbc, b.ID, decimal.RequireFromString("12.5")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	got, err := repo.GetByID(dbc, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Quantity.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("SetQuantity: got %s", got.Quantity)
	}

	updated, err := repo.UpdateFields(dbc, b.ID, map[string]interface{}{"batch_number": "L001-A"})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if updated.BatchNumber != "L001-A" {
		t.Fatalf("UpdateFields: unexpected %+v", updated)
	}

	if err := repo.RenameProduct(dbc, flour.ID, "Harina Integral"); err != nil {
		t.Fatalf("RenameProduct: %v", err)
	}
	rows, err := repo.ListByProduct(dbc, flour.ID)
	if err != nil {
		t.Fatalf("ListByProduct: %v", err)
	}
	for _, r := range rows {
		if r.ProductName != "Harina Integral" {
			t.Fatalf("RenameProduct: batch %s still named %q", r.BatchNumber, r.ProductName)
		}
	}

	if err := repo.Delete(dbc, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.GetByID(dbc, b.ID); got != nil {
		t.Fatalf("Delete: batch still present")
	}

	n, err := repo.DeleteByProduct(dbc, flour.ID)
	if err != nil {
		t.Fatalf("DeleteByProduct: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteByProduct: expected 1 row, got %d", n)
	}
}
