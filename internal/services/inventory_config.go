package services

import (
	"time"

	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/envutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

// InventoryConfig holds the expiry windows and the plant's time zone. Day
// counts are taken in Location so a batch does not change class at UTC
// midnight.
type InventoryConfig struct {
	Windows  inventory.Windows
	Location *time.Location
	Now      func() time.Time
}

func InventoryConfigFromEnv(log *logger.Logger) (InventoryConfig, error) {
	def := inventory.DefaultWindows()
	cfg := InventoryConfig{
		Windows: inventory.Windows{
			Critical: envutil.Int("EXPIRY_CRITICAL_DAYS", def.Critical, log),
			Urgent:   envutil.Int("EXPIRY_URGENT_DAYS", def.Urgent, log),
			Expiring: envutil.Int("EXPIRY_WARNING_DAYS", def.Expiring, log),
		},
		Location: time.Local,
	}
	if err := cfg.Windows.Validate(); err != nil {
		return cfg, err
	}
	if tz := envutil.String("INVENTORY_TZ", "", log); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, err
		}
		cfg.Location = loc
	}
	return cfg, nil
}

// now is the current instant in the configured zone.
func (c InventoryConfig) now() time.Time {
	t := time.Now()
	if c.Now != nil {
		t = c.Now()
	}
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

func (c InventoryConfig) windows() inventory.Windows {
	if c.Windows == (inventory.Windows{}) {
		return inventory.DefaultWindows()
	}
	return c.Windows
}
