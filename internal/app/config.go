package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/sca-inventory-backend/internal/data/db"
	"github.com/yungbote/sca-inventory-backend/internal/platform/envutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/platform/redis"
	"github.com/yungbote/sca-inventory-backend/internal/platform/sendgrid"
	"github.com/yungbote/sca-inventory-backend/internal/platform/supabase"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

const (
	ProductStoreDB       = "db"
	ProductStoreSupabase = "supabase"

	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

type Config struct {
	ServiceName string
	Environment string
	Port        string
	CORSOrigins []string

	DB       db.Config
	Redis    redis.Config
	Supabase supabase.Config
	Mail     sendgrid.Config

	ProductStore string
	SessionStore string

	Auth      services.AuthConfig
	Inventory services.InventoryConfig
	Seed      services.SeedConfig

	SeedOnStart      bool
	MonitorInterval  time.Duration
	DigestRecipients []string
}

func LoadConfig(log *logger.Logger) (Config, error) {
	inv, err := services.InventoryConfigFromEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("inventory config: %w", err)
	}
	cfg := Config{
		ServiceName: envutil.String("SERVICE_NAME", "sca-inventory", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Port:        envutil.String("PORT", "8080", log),
		CORSOrigins: envutil.List("CORS_ORIGINS", nil),

		DB:    db.ConfigFromEnv(log),
		Redis: redis.ConfigFromEnv(log),
		Supabase: supabase.Config{
			URL:        envutil.String("SUPABASE_URL", "", log),
			ServiceKey: envutil.String("SUPABASE_SERVICE_KEY", "", log),
			Timeout:    envutil.Duration("SUPABASE_TIMEOUT", 15*time.Second, log),
		},
		Mail: sendgrid.ConfigFromEnv(log),

		ProductStore: strings.ToLower(envutil.String("PRODUCT_STORE", ProductStoreDB, log)),
		SessionStore: strings.ToLower(envutil.String("SESSION_STORE", SessionStoreDB, log)),

		Auth: services.AuthConfig{
			JWTSecretKey: envutil.String("JWT_SECRET_KEY", "", log),
			SessionTTL:   envutil.Duration("SESSION_TTL", 12*time.Hour, log),
			GuestEnabled: envutil.Bool("GUEST_LOGIN_ENABLED", true, log),
		},
		Inventory: inv,
		Seed: services.SeedConfig{
			File:          envutil.String("SEED_FILE", "", log),
			AdminPassword: envutil.String("SEED_ADMIN_PASSWORD", "", log),
		},

		SeedOnStart:      envutil.Bool("SEED_ON_START", false, log),
		MonitorInterval:  envutil.Duration("EXPIRY_MONITOR_INTERVAL", time.Hour, log),
		DigestRecipients: envutil.List("EXPIRY_DIGEST_RECIPIENTS", nil),
	}

	switch cfg.ProductStore {
	case ProductStoreDB, ProductStoreSupabase:
	default:
		return cfg, fmt.Errorf("PRODUCT_STORE must be %q or %q, got %q", ProductStoreDB, ProductStoreSupabase, cfg.ProductStore)
	}
	switch cfg.SessionStore {
	case SessionStoreDB:
	case SessionStoreRedis:
		if !cfg.Redis.Enabled() {
			return cfg, fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return cfg, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreDB, SessionStoreRedis, cfg.SessionStore)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
