package auth

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, row *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string, excludeID uuid.UUID) (bool, error)
	List(dbc dbctx.Context) ([]*types.User, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.User, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(dbc dbctx.Context, row *types.User) (*types.User, error) {
	row.Email = normalizeEmail(row.Email)
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *userRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*types.User, error) {
	var out []*types.User
	if err := dbc.Conn(r.db).Where(query, args...).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	return r.first(dbc, "email = ?", email)
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := dbc.Conn(r.db).Model(&types.User{}).Where("email = ?", normalizeEmail(email))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepo) List(dbc dbctx.Context) ([]*types.User, error) {
	var out []*types.User
	if err := dbc.Conn(r.db).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.User{}).Count(&n).Error
	return n, err
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if email, ok := updates["email"].(string); ok {
		updates["email"] = normalizeEmail(email)
	}
	if len(updates) > 0 {
		if err := dbc.Conn(r.db).Model(&types.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}

func (r *userRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).Where("id = ?", id).Delete(&types.User{}).Error
}
