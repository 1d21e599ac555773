package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", RunMode: "longpoll"},
		Shop:     ShopConfig{BaseURL: "http://localhost:1337"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Redis.Host != "localhost" || cfg.Redis.Port != 6379 {
		t.Fatalf("redis defaults = %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.Shop.TimeoutSeconds != 30 {
		t.Fatalf("shop timeout = %d", cfg.Shop.TimeoutSeconds)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %s", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url/listen/port")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeRejectsBadRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown run mode")
	}
}

func TestNormalizeShopBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Shop.BaseURL = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for empty base url")
	}

	cfg = validConfig()
	cfg.Shop.BaseURL = "not-a-url"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for relative base url")
	}

	cfg = validConfig()
	cfg.Shop.BaseURL = "http://localhost:1337/"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if strings.HasSuffix(cfg.Shop.BaseURL, "/") {
		t.Fatalf("trailing slash kept: %s", cfg.Shop.BaseURL)
	}
}

func TestNormalizeRejectsBadExcludeUpdates(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"Callback", "bogus"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclude value")
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  token: from-file
  run_mode: longpoll
redis:
  host: redis.internal
  port: 6380
shop:
  base_url: http://cms.internal:1337
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TG_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %s, env should win", cfg.Telegram.Token)
	}
	if cfg.Redis.Addr() != "redis.internal:6380" {
		t.Fatalf("redis addr = %s", cfg.Redis.Addr())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
