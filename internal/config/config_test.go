package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServerConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadServerConfig("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg != DefaultServerConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadServerConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goshop.yaml")
	data := "addr: \":9090\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v, want addr :9090 and debug level", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.LogFormat != "text" || cfg.DBPath != "goshop.db" {
		t.Errorf("cfg = %+v, want default log_format and db_path", cfg)
	}
}

func TestLoadServerConfig_MissingFile(t *testing.T) {
	if _, err := LoadServerConfig("/nonexistent/goshop.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
