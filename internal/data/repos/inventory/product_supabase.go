package inventory

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/platform/supabase"
)

const supabaseProductTable = "productos"

type supabaseProductRepo struct {
	client *supabase.Client
	log    *logger.Logger
}

// NewSupabaseProductRepo stores the product catalogue in the Supabase
// "productos" table instead of the primary database. Transactions in dbctx
// are ignored; every call is its own REST request.
func NewSupabaseProductRepo(client *supabase.Client, baseLog *logger.Logger) ProductRepo {
	return &supabaseProductRepo{client: client, log: baseLog.With("repo", "SupabaseProductRepo")}
}

func (r *supabaseProductRepo) Create(dbc dbctx.Context, row *types.Product) (*types.Product, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.CreatedAt, row.UpdatedAt = now, now
	var out []*types.Product
	if err := r.client.Insert(dbc.Ctx, supabaseProductTable, row, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return row, nil
	}
	return out[0], nil
}

func (r *supabaseProductRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Product
	if err := r.client.Select(dbc.Ctx, supabaseProductTable, supabase.Eq("id", id.String()), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *supabaseProductRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error) {
	var out []*types.Product
	if len(ids) == 0 {
		return out, nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	q := url.Values{"id": []string{"in.(" + strings.Join(parts, ",") + ")"}}
	if err := r.client.Select(dbc.Ctx, supabaseProductTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *supabaseProductRepo) List(dbc dbctx.Context, search string) ([]*types.Product, error) {
	var all []*types.Product
	if err := r.client.Select(dbc.Ctx, supabaseProductTable, url.Values{"order": []string{"name.asc"}}, &all); err != nil {
		return nil, err
	}
	s := strings.ToLower(strings.TrimSpace(search))
	out := make([]*types.Product, 0, len(all))
	for _, p := range all {
		if s == "" || strings.Contains(strings.ToLower(p.Name), s) || strings.Contains(strings.ToLower(p.Category), s) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *supabaseProductRepo) Count(dbc dbctx.Context) (int64, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	if err := r.client.Select(dbc.Ctx, supabaseProductTable, url.Values{"select": []string{"id"}}, &rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *supabaseProductRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if len(updates) == 0 {
		return r.GetByID(dbc, id)
	}
	patch := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		patch[k] = v
	}
	patch["updated_at"] = time.Now().UTC()
	var out []*types.Product
	if err := r.client.Update(dbc.Ctx, supabaseProductTable, supabase.Eq("id", id.String()), patch, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *supabaseProductRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.client.Delete(dbc.Ctx, supabaseProductTable, supabase.Eq("id", id.String()))
}
