package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/diewo77/dashcore/internal/config"
	"github.com/diewo77/dashcore/internal/models"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Retry bounds the connection attempts of Open.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry leaves Postgres a few seconds to come up.
var DefaultRetry = Retry{Attempts: 5, Delay: 2 * time.Second}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, goerr.New("unsupported database driver", goerr.V("driver", cfg.Driver))
	}
}

// Open connects to the configured database, retrying while it is unreachable.
func Open(ctx context.Context, cfg config.DatabaseConfig, retry Retry, log *slog.Logger) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	attempts := max(retry.Attempts, 1)

	var conn *gorm.DB
	for i := range attempts {
		conn, err = gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			break
		}
		log.Warn("database connection failed",
			"attempt", i+1, "of", attempts, "driver", cfg.Driver, "error", err.Error())
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "database connection aborted")
		case <-time.After(retry.Delay):
		}
	}
	if err != nil {
		return nil, goerr.Wrap(err, "connect database", goerr.V("driver", cfg.Driver))
	}
	return conn, nil
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.QuoteRecord{},
		&models.QuoteItemRecord{},
		&models.RiskAssessmentRecord{},
		&models.RiskFactorRecord{},
	); err != nil {
		return goerr.Wrap(err, "auto migrate")
	}
	return nil
}
