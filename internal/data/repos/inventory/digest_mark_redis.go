package inventory

import (
	"time"

	"github.com/redis/go-redis/v9"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

const (
	digestMarkKeyPrefix = "expiry_digest:"
	digestMarkTTL       = 48 * time.Hour
)

type redisDigestMarkRepo struct {
	rdb redis.UniversalClient
	log *logger.Logger
}

// NewRedisDigestMarkRepo claims days with SET NX on expiry_digest:<day>.
// Keys expire after two days.
func NewRedisDigestMarkRepo(rdb redis.UniversalClient, baseLog *logger.Logger) DigestMarkRepo {
	return &redisDigestMarkRepo{rdb: rdb, log: baseLog.With("repo", "RedisDigestMarkRepo")}
}

func (r *redisDigestMarkRepo) Claim(dbc dbctx.Context, day types.Date) (bool, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	return r.rdb.SetNX(ctx, digestMarkKeyPrefix+day.String(), time.Now().UTC().Format(time.RFC3339), digestMarkTTL).Result()
}

func (r *redisDigestMarkRepo) Release(dbc dbctx.Context, day types.Date) error {
	ctx := ctxutil.Default(dbc.Ctx)
	return r.rdb.Del(ctx, digestMarkKeyPrefix+day.String()).Err()
}
