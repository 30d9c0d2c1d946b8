package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COINBOT_TOKEN", "123456:test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "123456:test-token" {
		t.Fatalf("token = %q", cfg.Token)
	}
	if cfg.DataPath != "data/economy.json" {
		t.Fatalf("default data path = %q", cfg.DataPath)
	}
	if cfg.UpdateTimeout != 60 {
		t.Fatalf("default update timeout = %d", cfg.UpdateTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("default log level = %q", cfg.LogLevel)
	}
}

func TestLoad_MissingTokenFails(t *testing.T) {
	if v, ok := os.LookupEnv("COINBOT_TOKEN"); ok {
		t.Cleanup(func() { os.Setenv("COINBOT_TOKEN", v) })
		os.Unsetenv("COINBOT_TOKEN")
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error when the token is unset")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COINBOT_TOKEN", "123456:test-token")
	t.Setenv("COINBOT_DATA_PATH", "/tmp/ledger.json")
	t.Setenv("COINBOT_UPDATE_TIMEOUT", "5")
	t.Setenv("COINBOT_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataPath != "/tmp/ledger.json" {
		t.Fatalf("data path = %q", cfg.DataPath)
	}
	if cfg.UpdateTimeout != 5 {
		t.Fatalf("update timeout = %d", cfg.UpdateTimeout)
	}
	if !cfg.Debug {
		t.Fatal("debug not set")
	}
}
