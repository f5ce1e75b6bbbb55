// File path: internal/catalog/config_test.go
package catalog

import (
	"testing"
	"time"
)

func TestConfigMergeAndDefaults(t *testing.T) {
	base := Config{Path: "base.db", MaxOpenConns: 4}
	merged := base.Merge(Config{Path: "  override.db  ", BusyTimeout: time.Second})
	if merged.Path != "override.db" {
		t.Fatalf("unexpected path: %q", merged.Path)
	}
	if merged.MaxOpenConns != 4 {
		t.Fatalf("zero override must not clobber: %+v", merged)
	}
	if merged.BusyTimeout != time.Second {
		t.Fatalf("unexpected busy timeout: %v", merged.BusyTimeout)
	}

	merged.applyDefaults()
	if merged.MaxIdleConns != merged.MaxOpenConns {
		t.Fatalf("idle conns must default to open conns: %+v", merged)
	}
	if merged.ConnMaxLifetime != 15*time.Minute || merged.ConnMaxIdleTime != 5*time.Minute {
		t.Fatalf("unexpected pool defaults: %+v", merged)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BUSSHIFT_DB_PATH", "env.db")
	t.Setenv("BUSSHIFT_DB_MAX_OPEN_CONNS", "16")
	t.Setenv("BUSSHIFT_DB_BUSY_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Path != "env.db" || cfg.MaxOpenConns != 16 || cfg.BusyTimeout != 2*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	t.Setenv("BUSSHIFT_DB_BUSY_TIMEOUT", "not-a-duration")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
