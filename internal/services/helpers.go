package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/sca-inventory-backend/internal/data/db"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
)

func requireUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthenticated", "no authenticated user in context")
	}
	return rd, nil
}

func requireAdmin(ctx context.Context) (*ctxutil.RequestData, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin() {
		return nil, apierr.Forbidden("admin_required", "administrator role required")
	}
	return rd, nil
}

// actorID is the authenticated user, or uuid.Nil for background callers.
func actorID(ctx context.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

func actorPtr(ctx context.Context) *uuid.UUID {
	id := actorID(ctx)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func dbcOf(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctxutil.Default(ctx)}
}

func values(rows []*types.Batch) []types.Batch {
	out := make([]types.Batch, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func productValues(rows []*types.Product) []types.Product {
	out := make([]types.Product, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func clean(s string) string { return strings.TrimSpace(s) }

// storableQuantity rejects quantities the numeric(14,3) column would round
// or overflow.
func storableQuantity(q decimal.Decimal) error {
	if !types.QuantityFits(q) {
		return apierr.Invalid("quantity_invalid", "quantity must have at most %d decimals and be below %s", types.QuantityScale, types.MaxQuantity.String())
	}
	return nil
}

// conflictOnDuplicate turns unique-index failures into a 409.
func conflictOnDuplicate(err error, code, format string, args ...any) error {
	if err != nil && db.IsUniqueViolation(err) {
		return apierr.Conflict(code, format, args...)
	}
	return err
}
