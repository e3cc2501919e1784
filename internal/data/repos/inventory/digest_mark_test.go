package inventory

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos/testutil"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
)

func exerciseDigestMarkRepo(t *testing.T, repo DigestMarkRepo, dbc dbctx.Context, day types.Date) {
	t.Helper()
	ok, err := repo.Claim(dbc, day)
	if err != nil || !ok {
		t.Fatalf("first Claim: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Claim(dbc, day)
	if err != nil || ok {
		t.Fatalf("second Claim: ok=%v err=%v, want already claimed", ok, err)
	}
	ok, err = repo.Claim(dbc, day.AddDays(1))
	if err != nil || !ok {
		t.Fatalf("next day Claim: ok=%v err=%v", ok, err)
	}
	if err := repo.Release(dbc, day); err != nil {
		t.Fatalf("Release: %v", err)
	}
	ok, err = repo.Claim(dbc, day)
	if err != nil || !ok {
		t.Fatalf("Claim after Release: ok=%v err=%v", ok, err)
	}
}

func TestDigestMarkRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDigestMarkRepo(db, testutil.Logger(t))
	exerciseDigestMarkRepo(t, repo, dbctx.Context{Ctx: context.Background(), Tx: tx}, types.MustDate("2025-01-10"))
}

func TestRedisDigestMarkRepo(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	day := types.MustDate("1999-12-31")
	rdb.Del(ctx, digestMarkKeyPrefix+day.String(), digestMarkKeyPrefix+day.AddDays(1).String())
	t.Cleanup(func() {
		rdb.Del(context.Background(), digestMarkKeyPrefix+day.String(), digestMarkKeyPrefix+day.AddDays(1).String())
	})

	repo := NewRedisDigestMarkRepo(rdb, testutil.Logger(t))
	exerciseDigestMarkRepo(t, repo, dbctx.Context{Ctx: ctx}, day)
}
