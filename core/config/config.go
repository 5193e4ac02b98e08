package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"TELEGRAM_BOT_TOKEN"`
	// RecipientChatID is the single fixed chat that receives every
	// form-submission notification.
	RecipientChatID int64  `yaml:"recipient_chat_id" envconfig:"RECIPIENT_CHAT_ID"`
	AdminID         int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode         string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL         string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen      string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port        int    `yaml:"port" envconfig:"PORT"`
	Path        string `yaml:"path" envconfig:"WEBHOOK_PATH"`
	SecretToken string `yaml:"secret_token" envconfig:"WEBHOOK_SECRET_TOKEN"`
}

// FormsConfig declares which form fields are recognized by the parser.
// Field names are configuration, not protocol.
type FormsConfig struct {
	Fields []string `yaml:"fields" envconfig:"FORM_FIELDS"`
}

// LinksConfig holds external URLs surfaced in bot replies.
type LinksConfig struct {
	Website string `yaml:"website" envconfig:"WEBSITE_URL"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// DefaultFormFields is the canonical field set of the enrollment form.
var DefaultFormFields = []string{"name", "email", "phone", "course_interest"}

const (
	// DriverSQLite selects the embedded file-backed store.
	DriverSQLite = "sqlite"
	// DriverPostgres selects a server-backed store.
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver string `yaml:"driver" envconfig:"DB_DRIVER"`
	// Path locates the sqlite database file; ignored for postgres.
	Path           string `yaml:"path" envconfig:"DB_PATH"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// PostgresDSN renders a URL-style DSN accepted by both lib/pq and golang-migrate.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func normalizeDatabase(cfg *DatabaseConfig) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverSQLite, "sqlite3":
		driver = DriverSQLite
		if strings.TrimSpace(cfg.Path) == "" {
			cfg.Path = "data/leadrelay.db"
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Host) == "" {
			return fmt.Errorf("database.host is required when database.driver is 'postgres'")
		}
		if strings.TrimSpace(cfg.Name) == "" {
			return fmt.Errorf("database.name is required when database.driver is 'postgres'")
		}
		if strings.TrimSpace(cfg.Port) == "" {
			cfg.Port = "5432"
		}
		if strings.TrimSpace(cfg.SSLMode) == "" {
			cfg.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("invalid database.driver %q; allowed: sqlite, postgres", cfg.Driver)
	}
	cfg.Driver = driver
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 4
	}
	return nil
}

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates every setting the relay reads at startup. It is built
// once and passed by reference to the components that need it.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Forms     FormsConfig     `yaml:"forms"`
	Links     LinksConfig     `yaml:"links"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	// The file is optional: a pure env-driven deployment runs without one.
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.RecipientChatID == 0 {
		return fmt.Errorf("telegram.recipient_chat_id is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			cfg.Webhook.Listen = "0.0.0.0"
		}
		if cfg.Webhook.Port < 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port == 0 {
			cfg.Webhook.Port = 8080
		}
		path := strings.TrimSpace(cfg.Webhook.Path)
		if path == "" {
			path = "/telegram-webhook"
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		cfg.Webhook.Path = path
		cfg.Webhook.URL = strings.TrimSuffix(strings.TrimSpace(cfg.Webhook.URL), "/")
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	fields := make([]string, 0, len(cfg.Forms.Fields))
	for _, f := range cfg.Forms.Fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		fields = append(fields, DefaultFormFields...)
	}
	cfg.Forms.Fields = fields

	if strings.TrimSpace(cfg.Links.Website) == "" {
		cfg.Links.Website = "https://example.com"
	}

	if err := normalizeDatabase(&cfg.Database); err != nil {
		return err
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

// PublicURL joins the externally reachable base URL with the webhook path.
func (w WebhookConfig) PublicURL() string {
	return w.URL + w.Path
}
