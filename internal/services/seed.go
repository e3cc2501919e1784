package services

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/dbctx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

//go:embed seeddata/default.yaml
var defaultSeed []byte

type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedProduct struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Unit     string `yaml:"unit"`
}

// SeedBatch dates are either absolute (entry_date, expiration_date) or
// offsets from the seed day.
type SeedBatch struct {
	Product        string `yaml:"product"`
	BatchNumber    string `yaml:"batch_number"`
	Quantity       string `yaml:"quantity"`
	EntryDate      string `yaml:"entry_date"`
	ExpirationDate string `yaml:"expiration_date"`
	EntryDaysAgo   int    `yaml:"entry_days_ago"`
	ExpiresInDays  int    `yaml:"expires_in_days"`
}

type SeedFixture struct {
	Users    []SeedUser    `yaml:"users"`
	Products []SeedProduct `yaml:"products"`
	Batches  []SeedBatch   `yaml:"batches"`
}

func ParseSeedFixture(raw []byte) (*SeedFixture, error) {
	var f SeedFixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	keys := map[string]bool{}
	for _, p := range f.Products {
		if p.Key == "" || p.Name == "" {
			return nil, fmt.Errorf("seed product needs key and name")
		}
		keys[p.Key] = true
	}
	for _, b := range f.Batches {
		if !keys[b.Product] {
			return nil, fmt.Errorf("seed batch %s references unknown product %q", b.BatchNumber, b.Product)
		}
	}
	return &f, nil
}

type SeedConfig struct {
	// File overrides the embedded fixture.
	File          string
	AdminPassword string
}

type SeedResult struct {
	Seeded   bool `json:"seeded"`
	Users    int  `json:"users"`
	Products int  `json:"products"`
	Batches  int  `json:"batches"`
}

type Diagnostic struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Database     string    `json:"database"`
	ProductStore string    `json:"product_store"`
	Users        int64     `json:"users"`
	Products     int64     `json:"products"`
	Batches      int64     `json:"batches"`
}

type SeedService interface {
	// Seed loads the fixture when the user table is empty. It is a no-op
	// otherwise.
	Seed(ctx context.Context) (*SeedResult, error)
	Diagnostic(ctx context.Context) (*Diagnostic, error)
}

type seedService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	productRepo  repos.ProductRepo
	batchRepo    repos.BatchRepo
	movementRepo repos.MovementRepo
	cfg          SeedConfig
	inv          InventoryConfig
	productStore string
}

func NewSeedService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	productRepo repos.ProductRepo,
	batchRepo repos.BatchRepo,
	movementRepo repos.MovementRepo,
	cfg SeedConfig,
	inv InventoryConfig,
	productStore string,
) SeedService {
	return &seedService{
		db:           db,
		log:          log.With("service", "SeedService"),
		userRepo:     userRepo,
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		cfg:          cfg,
		inv:          inv,
		productStore: productStore,
	}
}

func (ss *seedService) fixture() (*SeedFixture, error) {
	raw := defaultSeed
	if ss.cfg.File != "" {
		b, err := os.ReadFile(ss.cfg.File)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return ParseSeedFixture(raw)
}

func (ss *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	n, err := ss.userRepo.Count(dbcOf(ctx))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		ss.log.Debug("Seed skipped; users already present", "users", n)
		return &SeedResult{}, nil
	}
	fx, err := ss.fixture()
	if err != nil {
		return nil, err
	}
	if ss.cfg.AdminPassword == "" {
		return nil, fmt.Errorf("seed: SEED_ADMIN_PASSWORD is required")
	}

	today := inventory.Today(ss.inv.now())
	res := &SeedResult{Seeded: true}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, u := range fx.Users {
			pw := u.Password
			if pw == "" {
				pw = ss.cfg.AdminPassword
			}
			hash, err := HashPassword(pw)
			if err != nil {
				return err
			}
			role := u.Role
			if role == "" {
				role = types.RoleUser
			}
			if _, err := ss.userRepo.Create(dbc, &types.User{Name: u.Name, Email: u.Email, Password: hash, Role: role, Status: types.StatusActive}); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			res.Users++
		}

		products := map[string]*types.Product{}
		for _, p := range fx.Products {
			row, err := ss.productRepo.Create(dbc, &types.Product{Name: p.Name, Category: p.Category, Unit: p.Unit})
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.Name, err)
			}
			products[p.Key] = row
			res.Products++
		}

		for _, b := range fx.Batches {
			p := products[b.Product]
			qty, err := decimal.NewFromString(strings.TrimSpace(b.Quantity))
			if err != nil {
				return fmt.Errorf("seed batch %s quantity: %w", b.BatchNumber, err)
			}
			if !types.QuantityFits(qty) {
				return fmt.Errorf("seed batch %s quantity %s does not fit numeric(14,3)", b.BatchNumber, qty)
			}
			entry, exp, err := seedDates(b, today)
			if err != nil {
				return err
			}
			row, err := ss.batchRepo.Create(dbc, &types.Batch{
				ProductID:      p.ID,
				ProductName:    p.Name,
				BatchNumber:    b.BatchNumber,
				Quantity:       qty,
				EntryDate:      entry,
				ExpirationDate: exp,
			})
			if err != nil {
				return fmt.Errorf("seed batch %s: %w", b.BatchNumber, err)
			}
			if _, err := ss.movementRepo.Create(dbc, []*types.Movement{{
				Kind:        types.MovementEntry,
				BatchID:     row.ID,
				BatchNumber: row.BatchNumber,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    row.Quantity,
				Details:     movementDetails(map[string]any{"source": "seed"}),
			}}); err != nil {
				return err
			}
			res.Batches++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ss.log.Info("Seed data loaded", "users", res.Users, "products", res.Products, "batches", res.Batches)
	return res, nil
}

func seedDates(b SeedBatch, today types.Date) (types.Date, types.Date, error) {
	entry := today.AddDays(-b.EntryDaysAgo)
	exp := today.AddDays(b.ExpiresInDays)
	var err error
	if b.EntryDate != "" {
		if entry, err = types.ParseDate(b.EntryDate); err != nil {
			return entry, exp, fmt.Errorf("seed batch %s entry_date: %w", b.BatchNumber, err)
		}
	}
	if b.ExpirationDate != "" {
		if exp, err = types.ParseDate(b.ExpirationDate); err != nil {
			return entry, exp, fmt.Errorf("seed batch %s expiration_date: %w", b.BatchNumber, err)
		}
	}
	return entry, exp, nil
}

func (ss *seedService) Diagnostic(ctx context.Context) (*Diagnostic, error) {
	dbc := dbcOf(ctx)
	d := &Diagnostic{
		Status:       "ok",
		Timestamp:    time.Now().UTC(),
		Database:     ss.db.Dialector.Name(),
		ProductStore: ss.productStore,
	}
	var err error
	if d.Users, err = ss.userRepo.Count(dbc); err != nil {
		return nil, err
	}
	if d.Products, err = ss.productRepo.Count(dbc); err != nil {
		return nil, err
	}
	if d.Batches, err = ss.batchRepo.Count(dbc); err != nil {
		return nil, err
	}
	return d, nil
}
