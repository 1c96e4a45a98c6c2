package syncer

import (
	"time"
)

// Config controls sync cadence and pull page sizes. There is no per-step
// deadline; the remote client's own HTTP timeout bounds each call, and a
// step that drains a long push queue runs as long as it needs to.
type Config struct {
	SyncInterval        time.Duration
	CatalogPageSize     int
	TransactionPageSize int
}

func DefaultConfig() Config {
	return Config{
		SyncInterval:        5 * time.Minute,
		CatalogPageSize:     500,
		TransactionPageSize: 50,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.SyncInterval <= 0 {
		c.SyncInterval = defaults.SyncInterval
	}
	if c.CatalogPageSize <= 0 {
		c.CatalogPageSize = defaults.CatalogPageSize
	}
	if c.TransactionPageSize <= 0 {
		c.TransactionPageSize = defaults.TransactionPageSize
	}
	return c
}
