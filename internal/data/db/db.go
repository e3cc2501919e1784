package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/sca-inventory-backend/internal/platform/envutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	DSN        string
	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormLogger.LogLevel
}

// ConfigFromEnv reads DB_DRIVER and either DATABASE_URL or the discrete
// POSTGRES_* variables. A Supabase connection string works as DATABASE_URL.
func ConfigFromEnv(log *logger.Logger) Config {
	cfg := Config{
		Driver:          strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, log)),
		SQLitePath:      envutil.String("SQLITE_PATH", "data/sca-inventory.db", log),
		MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
		MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
		ConnMaxLifetime: envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute, log),
		LogLevel:        gormLogger.Warn,
	}
	if cfg.Driver != DriverPostgres {
		return cfg
	}
	if dsn := envutil.String("DATABASE_URL", "", log); dsn != "" {
		cfg.DSN = dsn
		return cfg
	}
	cfg.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres", log),
		envutil.String("POSTGRES_PASSWORD", "", log),
		envutil.String("POSTGRES_HOST", "localhost", log),
		envutil.String("POSTGRES_PORT", "5432", log),
		envutil.String("POSTGRES_NAME", "sca_inventory", log),
		envutil.String("POSTGRES_SSLMODE", "disable", log),
	)
	return cfg
}

func Open(baseLog *logger.Logger, cfg Config) (*gorm.DB, error) {
	log := baseLog.With("service", "Database", "driver", cfg.Driver)

	level := cfg.LogLevel
	if level == 0 {
		level = gormLogger.Warn
	}
	gormLog := gormLogger.New(
		newGormWriter(log),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("postgres: empty DSN")
		}
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("sqlite: create dir: %w", err)
				}
			}
			dsn = cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// one writer at a time; keeps the in-process file lock simple
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info("Database connected")
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter forwards gorm's printf-style output to the structured logger.
type gormWriter struct {
	log *logger.Logger
}

func newGormWriter(log *logger.Logger) gormLogger.Writer {
	return gormWriter{log: log.With("component", "gorm")}
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
