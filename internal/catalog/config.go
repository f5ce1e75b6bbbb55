// File path: internal/catalog/config.go
package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Path string

	MaxOpenConns int
	MaxIdleConns int

	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	BusyTimeout     time.Duration
}

func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.Path) != "" {
		result.Path = strings.TrimSpace(override.Path)
	}
	if override.MaxOpenConns > 0 {
		result.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		result.MaxIdleConns = override.MaxIdleConns
	}
	if override.ConnMaxLifetime > 0 {
		result.ConnMaxLifetime = override.ConnMaxLifetime
	}
	if override.ConnMaxIdleTime > 0 {
		result.ConnMaxIdleTime = override.ConnMaxIdleTime
	}
	if override.BusyTimeout > 0 {
		result.BusyTimeout = override.BusyTimeout
	}
	return result
}

// LoadConfig reads the catalog configuration from BUSSHIFT_DB_* environment
// variables and fills in pool defaults.
func LoadConfig() (Config, error) {
	cfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 8
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 15 * time.Minute
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
}

func loadConfigEnv() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_PATH")); path != "" {
		cfg.Path = path
	}
	if openConns := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_MAX_OPEN_CONNS")); openConns != "" {
		value, err := strconv.Atoi(openConns)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUSSHIFT_DB_MAX_OPEN_CONNS: %w", err)
		}
		if value > 0 {
			cfg.MaxOpenConns = value
		}
	}
	if idleConns := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_MAX_IDLE_CONNS")); idleConns != "" {
		value, err := strconv.Atoi(idleConns)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUSSHIFT_DB_MAX_IDLE_CONNS: %w", err)
		}
		if value > 0 {
			cfg.MaxIdleConns = value
		}
	}
	if lifetime := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_CONN_MAX_LIFETIME")); lifetime != "" {
		parsed, err := time.ParseDuration(lifetime)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUSSHIFT_DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.ConnMaxLifetime = parsed
	}
	if idle := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_CONN_MAX_IDLE_TIME")); idle != "" {
		parsed, err := time.ParseDuration(idle)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUSSHIFT_DB_CONN_MAX_IDLE_TIME: %w", err)
		}
		cfg.ConnMaxIdleTime = parsed
	}
	if busy := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_BUSY_TIMEOUT")); busy != "" {
		parsed, err := time.ParseDuration(busy)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUSSHIFT_DB_BUSY_TIMEOUT: %w", err)
		}
		cfg.BusyTimeout = parsed
	}
	return cfg, nil
}
