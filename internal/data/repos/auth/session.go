package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

// SessionRepo stores opaque login sessions. Get returns (nil, nil) for
// unknown or expired tokens.
type SessionRepo interface {
	Create(dbc dbctx.Context, row *types.Session) error
	Get(dbc dbctx.Context, token string) (*types.Session, error)
	Delete(dbc dbctx.Context, token string) error
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo"), now: time.Now}
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *types.Session) error {
	return dbc.Conn(r.db).Create(row).Error
}

func (r *sessionRepo) Get(dbc dbctx.Context, token string) (*types.Session, error) {
	if token == "" {
		return nil, nil
	}
	var out []*types.Session
	if err := dbc.Conn(r.db).Where("token = ?", token).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if out[0].Expired(r.now()) {
		if err := r.Delete(dbc, token); err != nil {
			r.log.Warn("failed to purge expired session", "error", err)
		}
		return nil, nil
	}
	return out[0], nil
}

func (r *sessionRepo) Delete(dbc dbctx.Context, token string) error {
	if token == "" {
		return nil
	}
	return dbc.Conn(r.db).Where("token = ?", token).Delete(&types.Session{}).Error
}

func (r *sessionRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error {
	return dbc.Conn(r.db).Where("user_id = ?", userID).Delete(&types.Session{}).Error
}
