package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type redisSessionRepo struct {
	rdb redis.UniversalClient
	log *logger.Logger
}

// NewRedisSessionRepo keeps sessions under session:<token> with a TTL equal
// to the session lifetime, plus a per-user set used to revoke them all.
func NewRedisSessionRepo(rdb redis.UniversalClient, baseLog *logger.Logger) SessionRepo {
	return &redisSessionRepo{rdb: rdb, log: baseLog.With("repo", "RedisSessionRepo")}
}

func (r *redisSessionRepo) Create(dbc dbctx.Context, row *types.Session) error {
	ctx := ctxutil.Default(dbc.Ctx)
	ttl := time.Until(row.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	userKey := userSessionKeyPrefix + row.UserID.String()
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKeyPrefix+row.Token, raw, ttl)
		p.SAdd(ctx, userKey, row.Token)
		p.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

func (r *redisSessionRepo) Get(dbc dbctx.Context, token string) (*types.Session, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := r.rdb.Get(ctxutil.Default(dbc.Ctx), sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s types.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *redisSessionRepo) Delete(dbc dbctx.Context, token string) error {
	if token == "" {
		return nil
	}
	ctx := ctxutil.Default(dbc.Ctx)
	s, err := r.Get(dbc, token)
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	if s != nil {
		pipe.SRem(ctx, userSessionKeyPrefix+s.UserID.String(), token)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisSessionRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error {
	ctx := ctxutil.Default(dbc.Ctx)
	userKey := userSessionKeyPrefix + userID.String()
	tokens, err := r.rdb.SMembers(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKeyPrefix+t)
	}
	keys = append(keys, userKey)
	return r.rdb.Del(ctx, keys...).Err()
}
