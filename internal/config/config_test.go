package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Bind != "0.0.0.0:8080" {
		t.Errorf("Bind = %s, want 0.0.0.0:8080", cfg.Bind)
	}
	if cfg.DBPath != "./data/rooms.db" {
		t.Errorf("DBPath = %s, want ./data/rooms.db", cfg.DBPath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BIND", "127.0.0.1:9999")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Bind != "127.0.0.1:9999" {
		t.Errorf("Bind = %s, want 127.0.0.1:9999", cfg.Bind)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid SESSION_TTL")
	}
}
