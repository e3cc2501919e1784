package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/sca-inventory-backend/internal/data/db"
	"github.com/yungbote/sca-inventory-backend/internal/data/repos/testutil"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	repo := NewUserRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, &types.User{
		Name:     "Administrador",
		Email:    "  Admin@SCACompany.com ",
		Password: "hash",
		Role:     types.RoleAdmin,
		Status:   types.StatusActive,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("Create: expected id")
	}
	if created.Email != "admin@scacompany.com" {
		t.Fatalf("Create: email not normalized: %q", created.Email)
	}

	got, err := repo.GetByEmail(dbc, "ADMIN@scacompany.com")
	if err != nil || got == nil || got.ID != created.ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", got, err)
	}

	exists, err := repo.EmailExists(dbc, "admin@scacompany.com", uuid.Nil)
	if err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}
	exists, err = repo.EmailExists(dbc, "admin@scacompany.com", created.ID)
	if err != nil || exists {
		t.Fatalf("EmailExists(exclude self): exists=%v err=%v", exists, err)
	}

	_, err = repo.Create(dbc, &types.User{Name: "Dup", Email: "admin@scacompany.com", Password: "x", Role: types.RoleUser, Status: types.StatusActive})
	if err == nil || !db.IsUniqueViolation(err) {
		t.Fatalf("Create(duplicate): expected unique violation, got %v", err)
	}
}

func TestUserRepoUpdateAndDelete(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()

	repo := NewUserRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "operario@scacompany.com", types.RoleUser)

	updated, err := repo.UpdateFields(dbc, u.ID, map[string]interface{}{"status": types.StatusInactive, "email": "Nuevo@SCACompany.com"})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if updated.Status != types.StatusInactive || updated.Email != "nuevo@scacompany.com" {
		t.Fatalf("UpdateFields: unexpected %+v", updated)
	}

	if n, err := repo.Count(dbc); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
	list, err := repo.List(dbc)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: rows=%d err=%v", len(list), err)
	}

	if err := repo.Delete(dbc, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := repo.GetByID(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetByID after delete: got=%+v err=%v", got, err)
	}
}
