package db

import (
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open opens the embedded sqlite store. The database is private to the
// device, so there is no server dialect to negotiate; every deployment runs
// on the same pure-Go sqlite driver.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("db: path is required")
	}

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// A single writer keeps sqlite's locking out of the picture; reads and
	// the sync cycle share the one connection.
	sqlDB.SetMaxOpenConns(1)

	return conn, nil
}
