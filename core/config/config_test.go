package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:           "123:abc",
			RecipientChatID: -100123,
		},
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresRecipient(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RecipientChatID = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing recipient chat")
	}
}

func TestNormalizeDefaultsLongpoll(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeWebhookDefaults(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook.URL = "https://bot.example.com/"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Webhook.Listen != "0.0.0.0" || cfg.Webhook.Port != 8080 {
		t.Fatalf("unexpected listen defaults: %s:%d", cfg.Webhook.Listen, cfg.Webhook.Port)
	}
	if cfg.Webhook.Path != "/telegram-webhook" {
		t.Fatalf("path = %q", cfg.Webhook.Path)
	}
	if got := cfg.Webhook.PublicURL(); got != "https://bot.example.com/telegram-webhook" {
		t.Fatalf("public url = %q", got)
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook url")
	}
}

func TestNormalizeFormFieldDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if strings.Join(cfg.Forms.Fields, ",") != "name,email,phone,course_interest" {
		t.Fatalf("unexpected default fields: %v", cfg.Forms.Fields)
	}
}

func TestNormalizeFormFieldsCleaned(t *testing.T) {
	cfg := baseConfig()
	cfg.Forms.Fields = []string{" Name ", "", "EMAIL"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if strings.Join(cfg.Forms.Fields, ",") != "name,email" {
		t.Fatalf("unexpected fields: %v", cfg.Forms.Fields)
	}
}

func TestNormalizeDatabaseDefaultsToSQLite(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.Path == "" {
		t.Fatal("expected a default sqlite path")
	}
}

func TestNormalizePostgresRequiresHost(t *testing.T) {
	cfg := baseConfig()
	cfg.Database.Driver = DriverPostgres
	cfg.Database.Name = "leadrelay"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for postgres without host")
	}
}

func TestNormalizeRejectsUnknownRateLimitExclusion(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
