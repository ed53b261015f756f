package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "STORE_DB_HOST", "STORE_DB_PASSWORD", "QUOTE_BASE_URL",
		"PRICE_REFRESH_INTERVAL", "KAFKA_BROKER_URL", "ADMIN_API_TOKEN",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.QuoteBaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("QuoteBaseURL = %q", cfg.QuoteBaseURL)
	}
	if cfg.RefreshInterval != 60*time.Second {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval)
	}
	if cfg.AdminToken != "" {
		t.Errorf("AdminToken should default to empty, got %q", cfg.AdminToken)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DB_PASSWORD", "hunter2")
	t.Setenv("PRICE_REFRESH_INTERVAL", "30s")
	t.Setenv("ADMIN_API_TOKEN", "tok")
	t.Setenv("KAFKA_BROKER_URL", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.DBConfig.Password != "hunter2" {
		t.Errorf("Password = %q", cfg.DBConfig.Password)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval)
	}
	if cfg.AdminToken != "tok" {
		t.Errorf("AdminToken = %q", cfg.AdminToken)
	}
	brokers := cfg.GetKafkaBrokers()
	if len(brokers) != 2 || brokers[0] != "k1:9092" || brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", brokers)
	}
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("PRICE_REFRESH_INTERVAL", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want default 8080", cfg.HTTPPort)
	}
	if cfg.RefreshInterval != 60*time.Second {
		t.Errorf("RefreshInterval = %v, want default 60s", cfg.RefreshInterval)
	}
}

func TestLoadCatalog_DefaultWhenPathEmpty(t *testing.T) {
	coins, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(coins) != 6 {
		t.Fatalf("default catalog has %d coins, want 6", len(coins))
	}
	if coins[0].Symbol != "BTC" || coins[0].ProviderID != "bitcoin" {
		t.Errorf("first coin = %+v", coins[0])
	}
	if coins[0].Price != 111363.67 {
		t.Errorf("BTC fallback price = %v", coins[0].Price)
	}
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	data := `coins:
  - symbol: BTC
    name: Bitcoin
    provider_id: bitcoin
    fallback_price: 100.5
  - symbol: DOGE
    name: Dogecoin
    provider_id: dogecoin
    fallback_price: 0.1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	coins, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("got %d coins", len(coins))
	}
	if coins[1].Symbol != "DOGE" || coins[1].ProviderID != "dogecoin" || coins[1].Price != 0.1 {
		t.Errorf("second coin = %+v", coins[1])
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yml")
	if err := os.WriteFile(empty, []byte("coins: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	incomplete := filepath.Join(dir, "incomplete.yml")
	if err := os.WriteFile(incomplete, []byte("coins:\n  - name: Mystery\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	garbage := filepath.Join(dir, "garbage.yml")
	if err := os.WriteFile(garbage, []byte(":{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yml")},
		{"no coins", empty},
		{"missing symbol", incomplete},
		{"bad yaml", garbage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCatalog(tc.path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
