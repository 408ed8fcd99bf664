package db

import (
	"fmt"
	"log"

	"metawards-uq/internal/config"
	"metawards-uq/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the configured backend. SQLite connections are limited to
// one so that ":memory:" databases are shared by every query.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == config.DriverSQLite {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Migrate creates or updates the fixed tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&model.Design{},
		&model.OutputChannel{},
		&model.SimDay{},
		&model.Run{},
		&model.WardResult{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func InitDB(cfg *config.Config) error {
	conn, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}
	DB = conn

	log.Printf("database ready (%s)", cfg.Database.Driver)
	return nil
}
