package inventory

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

// DigestMarkRepo makes the daily expiry digest a once-per-day action across
// restarts and API instances. Claim returns false when the day is already
// taken; Release gives the day back after a failed send.
type DigestMarkRepo interface {
	Claim(dbc dbctx.Context, day types.Date) (bool, error)
	Release(dbc dbctx.Context, day types.Date) error
}

type digestMarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDigestMarkRepo(db *gorm.DB, baseLog *logger.Logger) DigestMarkRepo {
	return &digestMarkRepo{db: db, log: baseLog.With("repo", "DigestMarkRepo")}
}

func (r *digestMarkRepo) Claim(dbc dbctx.Context, day types.Date) (bool, error) {
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.DigestMark{Day: day, ClaimedAt: time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *digestMarkRepo) Release(dbc dbctx.Context, day types.Date) error {
	return dbc.Conn(r.db).Where("day = ?", day).Delete(&types.DigestMark{}).Error
}
