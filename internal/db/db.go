package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brotos/internal/model"
)

// Open returns a connected GORM DB instance for the given driver ("mysql", "postgres" or "sqlite").
// GORM warnings and slow queries are written to log.
func Open(driver, dsn string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// NewGormLogger routes GORM's logger through zerolog. Lookups of missing rows are expected
// (unknown login ids, the bootstrap probe) and are not logged.
func NewGormLogger(log zerolog.Logger) logger.Interface {
	return logger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Consultant{}, &model.OutboxEvent{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
