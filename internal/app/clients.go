package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/db"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/platform/redis"
	"github.com/yungbote/sca-inventory-backend/internal/platform/sendgrid"
	"github.com/yungbote/sca-inventory-backend/internal/platform/supabase"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
	"github.com/yungbote/sca-inventory-backend/internal/realtime/bus"
)

type Clients struct {
	DB       *gorm.DB
	Redis    *goredis.Client
	Supabase *supabase.Client
	Mail     sendgrid.Client
	SSEHub   *realtime.SSEHub
	SSEBus   bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	gdb, err := db.Open(log, cfg.DB)
	if err != nil {
		return Clients{}, fmt.Errorf("init database: %w", err)
	}
	c := Clients{DB: gdb, SSEHub: realtime.NewSSEHub(log)}

	// Redis
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(log, cfg.Redis)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		c.Redis = rdb
		b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		c.SSEBus = b
	} else {
		c.SSEBus = bus.NewLocalBus()
	}

	// Supabase
	if cfg.ProductStore == ProductStoreSupabase {
		sb, err := supabase.New(log, cfg.Supabase)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init supabase: %w", err)
		}
		c.Supabase = sb
	}

	// SendGrid
	if cfg.Mail.Enabled() {
		mail, err := sendgrid.New(log, cfg.Mail)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		c.Mail = mail
	}

	hub := c.SSEHub
	if err := c.SSEBus.StartForwarder(ctx, hub.Broadcast); err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("start SSE forwarder: %w", err)
	}
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = db.Close(c.DB)
	}
}
