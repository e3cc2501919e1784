package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	"github.com/yungbote/sca-inventory-backend/internal/data/repos/testutil"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	goleak.VerifyTestMain(m)
}

// testNow is noon on 2025-01-10 UTC.
var testNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	sessions  repos.SessionRepo
	products  repos.ProductRepo
	batches   repos.BatchRepo
	movements repos.MovementRepo
	inv       InventoryConfig
	emitter   *recordingEmitter
	notify    InventoryNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.SQLite(t)
	log := testutil.Logger(t)
	em := &recordingEmitter{}
	return &fixture{
		db:        gdb,
		log:       log,
		users:     repos.NewUserRepo(gdb, log),
		sessions:  repos.NewSessionRepo(gdb, log),
		products:  repos.NewProductRepo(gdb, log),
		batches:   repos.NewBatchRepo(gdb, log),
		movements: repos.NewMovementRepo(gdb, log),
		inv: InventoryConfig{
			Windows:  inventory.DefaultWindows(),
			Location: time.UTC,
			Now:      func() time.Time { return testNow },
		},
		emitter: em,
		notify:  NewInventoryNotifier(em),
	}
}

func (f *fixture) batchService() BatchService {
	return NewBatchService(f.db, f.log, f.products, f.batches, f.movements, f.notify, f.inv)
}

func (f *fixture) productService() ProductService {
	return NewProductService(f.db, f.log, f.products, f.batches, f.movements, f.notify)
}

func (f *fixture) user(t *testing.T, email, role string) *types.User {
	t.Helper()
	return testutil.SeedUser(t, context.Background(), f.db, email, role)
}

func (f *fixture) product(t *testing.T, name, category, unit string) *types.Product {
	t.Helper()
	return testutil.SeedProduct(t, context.Background(), f.db, name, category, unit)
}

func (f *fixture) batch(t *testing.T, p *types.Product, number string, qty int64, entry, exp string) *types.Batch {
	t.Helper()
	return testutil.SeedBatch(t, context.Background(), f.db, p, number, qty, entry, exp)
}

func asUser(id uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, Role: role, SessionToken: "test"})
}

func asAdmin() context.Context    { return asUser(uuid.New(), types.RoleAdmin) }
func asOperator() context.Context { return asUser(uuid.New(), types.RoleUser) }

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %d/%s, got nil", status, code)
	}
	gotStatus, gotCode := apierr.Resolve(err)
	if gotStatus != status || gotCode != code {
		t.Fatalf("expected %d/%s, got %d/%s (%v)", status, code, gotStatus, gotCode, err)
	}
}
