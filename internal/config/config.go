package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"DealHunter/internal/domain"
)

const (
	defaultTimezone   = "UTC"
	defaultConfigPath = "config.yaml"
	configPathEnv     = "DEAL_HUNTER_CONFIG"
	envFileEnv        = "DEAL_HUNTER_ENV_FILE"
	logLevelEnv       = "DEAL_HUNTER_LOG_LEVEL"
	stateDSNEnv       = "DEAL_HUNTER_STATE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	smtpPasswordEnv   = "SMTP_PASSWORD"
	webhookURLEnv     = "DEAL_HUNTER_WEBHOOK_URL"
)

// State backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Alert sink names accepted in alerts.sinks.
const (
	SinkConsole       = "console"
	SinkLogFile       = "logfile"
	SinkCommitMessage = "commit"
	SinkTelegram      = "telegram"
	SinkWebhook       = "webhook"
	SinkEmail         = "email"
)

// Config holds every setting a run needs; nothing is read from package state.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	State     StateConfig     `yaml:"state"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	// ItemsFile points at a JSON item list in the legacy config.json layout.
	ItemsFile string       `yaml:"itemsFile"`
	Items     []ItemConfig `yaml:"items"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the schedule command triggers a run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// RetrievalConfig configures how product pages are fetched.
type RetrievalConfig struct {
	Default   string            `yaml:"default"`
	UserAgent string            `yaml:"userAgent"`
	Timeout   time.Duration     `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
	Browser   BrowserConfig     `yaml:"browser"`
}

// BrowserConfig tunes the headless-browser retriever.
type BrowserConfig struct {
	ExecPath     string        `yaml:"execPath"`
	WaitSelector string        `yaml:"waitSelector"`
	Timeout      time.Duration `yaml:"timeout"`
	Headful      bool          `yaml:"headful"`
}

// StateConfig selects where last known prices live.
type StateConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
}

// AlertsConfig lists enabled sinks and their settings.
type AlertsConfig struct {
	Sinks         []string       `yaml:"sinks"`
	LogFile       FileSinkConfig `yaml:"logFile"`
	CommitMessage FileSinkConfig `yaml:"commitMessage"`
	Telegram      TelegramConfig `yaml:"telegram"`
	Webhook       WebhookConfig  `yaml:"webhook"`
	Email         EmailConfig    `yaml:"email"`
}

// FileSinkConfig names the file a sink writes to.
type FileSinkConfig struct {
	Path string `yaml:"path"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIURL   string `yaml:"apiUrl"`
}

// WebhookConfig describes a JSON webhook endpoint (Discord, Slack relay, ...).
type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Server   string   `yaml:"server"`
	Port     int      `yaml:"port"`
	From     string   `yaml:"from"`
	Password string   `yaml:"password"`
	To       []string `yaml:"to"`
}

// ItemConfig is one tracked product. The JSON tags match the legacy item file.
type ItemConfig struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	URL           string   `yaml:"url" json:"url"`
	TargetPrice   *float64 `yaml:"targetPrice" json:"target_price"`
	PriceSelector string   `yaml:"priceSelector" json:"css_selector"`
	StockKeyword  string   `yaml:"stockKeyword" json:"stock_keyword"`
	Retriever     string   `yaml:"retriever" json:"retriever,omitempty"`
}

// Load reads .env files, the YAML file at path (or DEAL_HUNTER_CONFIG, or
// ./config.yaml when present) and applies environment overrides.
func Load(path string) (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configPathEnv)
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		log.Printf("config: %s not found, using defaults", path)
	}

	if cfg.ItemsFile != "" {
		items, err := LoadItemsFile(resolveRelative(path, cfg.ItemsFile))
		if err != nil {
			return Config{}, err
		}
		cfg.Items = append(cfg.Items, items...)
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg, nil
}

// LoadItemsFile reads a JSON array of items in the legacy config.json layout.
func LoadItemsFile(path string) ([]ItemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file %s: %w", path, err)
	}

	var items []ItemConfig
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse items file %s: %w", path, err)
	}
	return items, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(c.Items))
	for i, item := range c.Items {
		if strings.TrimSpace(item.ID) == "" {
			errs = append(errs, fmt.Errorf("items[%d]: id is required", i))
		} else if _, dup := seen[item.ID]; dup {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate id %q", i, item.ID))
		} else {
			seen[item.ID] = struct{}{}
		}
		if strings.TrimSpace(item.URL) == "" {
			errs = append(errs, fmt.Errorf("items[%d]: url is required", i))
		}
		if item.TargetPrice != nil && *item.TargetPrice < 0 {
			errs = append(errs, fmt.Errorf("items[%d]: targetPrice must not be negative", i))
		}
	}

	switch c.State.Backend {
	case BackendJSON, BackendSQLite:
		if c.State.Path == "" {
			errs = append(errs, fmt.Errorf("state: path is required for %s backend", c.State.Backend))
		}
	case BackendPostgres:
		if c.State.DSN == "" {
			errs = append(errs, fmt.Errorf("state: dsn is required for postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("state: unknown backend %q", c.State.Backend))
	}

	for _, sink := range c.Alerts.Sinks {
		switch sink {
		case SinkConsole, SinkLogFile, SinkCommitMessage, SinkTelegram, SinkWebhook, SinkEmail:
		default:
			errs = append(errs, fmt.Errorf("alerts: unknown sink %q", sink))
		}
	}

	return errors.Join(errs...)
}

// TrackedItems converts configured items into domain values, preserving order.
func (c Config) TrackedItems() []domain.TrackedItem {
	items := make([]domain.TrackedItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, domain.TrackedItem{
			ID:            item.ID,
			Name:          item.Name,
			URL:           item.URL,
			TargetPrice:   item.TargetPrice,
			PriceSelector: item.PriceSelector,
			StockKeyword:  item.StockKeyword,
			Retriever:     item.Retriever,
		})
	}
	return items
}

// loadEnvFiles loads DEAL_HUNTER_ENV_FILE when set, otherwise .env.local then .env.
// Missing files are not an error.
func loadEnvFiles() error {
	if envFile := os.Getenv(envFileEnv); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(stateDSNEnv); v != "" {
		c.State.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Alerts.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Alerts.Telegram.ChatID = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Alerts.Email.Password = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Alerts.Webhook.URL = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Retrieval.Default != "" {
		base.Retrieval.Default = override.Retrieval.Default
	}
	if override.Retrieval.UserAgent != "" {
		base.Retrieval.UserAgent = override.Retrieval.UserAgent
	}
	if override.Retrieval.Timeout > 0 {
		base.Retrieval.Timeout = override.Retrieval.Timeout
	}
	if len(override.Retrieval.Headers) > 0 {
		base.Retrieval.Headers = override.Retrieval.Headers
	}
	if override.Retrieval.Browser.ExecPath != "" {
		base.Retrieval.Browser.ExecPath = override.Retrieval.Browser.ExecPath
	}
	if override.Retrieval.Browser.WaitSelector != "" {
		base.Retrieval.Browser.WaitSelector = override.Retrieval.Browser.WaitSelector
	}
	if override.Retrieval.Browser.Timeout > 0 {
		base.Retrieval.Browser.Timeout = override.Retrieval.Browser.Timeout
	}
	base.Retrieval.Browser.Headful = override.Retrieval.Browser.Headful

	if override.State.Backend != "" {
		base.State.Backend = override.State.Backend
	}
	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}
	if override.State.DSN != "" {
		base.State.DSN = override.State.DSN
	}

	if len(override.Alerts.Sinks) > 0 {
		base.Alerts.Sinks = override.Alerts.Sinks
	}
	if override.Alerts.LogFile.Path != "" {
		base.Alerts.LogFile.Path = override.Alerts.LogFile.Path
	}
	if override.Alerts.CommitMessage.Path != "" {
		base.Alerts.CommitMessage.Path = override.Alerts.CommitMessage.Path
	}
	if override.Alerts.Telegram.BotToken != "" {
		base.Alerts.Telegram.BotToken = override.Alerts.Telegram.BotToken
	}
	if override.Alerts.Telegram.ChatID != "" {
		base.Alerts.Telegram.ChatID = override.Alerts.Telegram.ChatID
	}
	if override.Alerts.Telegram.APIURL != "" {
		base.Alerts.Telegram.APIURL = override.Alerts.Telegram.APIURL
	}
	if override.Alerts.Webhook.URL != "" {
		base.Alerts.Webhook = override.Alerts.Webhook
	}
	if override.Alerts.Email.Server != "" {
		port := base.Alerts.Email.Port
		base.Alerts.Email = override.Alerts.Email
		if base.Alerts.Email.Port == 0 {
			base.Alerts.Email.Port = port
		}
	}

	if override.ItemsFile != "" {
		base.ItemsFile = override.ItemsFile
	}
	if len(override.Items) > 0 {
		base.Items = override.Items
	}

	return base
}

func resolveRelative(configPath, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(configPath), target)
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{CronExpression: "0 * * * *", Timezone: defaultTimezone, location: tz},
		Retrieval: RetrievalConfig{
			Default:   "http",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			Timeout:   10 * time.Second,
			Browser:   BrowserConfig{Timeout: 30 * time.Second},
		},
		State: StateConfig{Backend: BackendJSON, Path: "last_prices.json"},
		Alerts: AlertsConfig{
			Sinks:         []string{SinkConsole},
			LogFile:       FileSinkConfig{Path: "alerts.log"},
			CommitMessage: FileSinkConfig{Path: "alert.log"},
			Telegram:      TelegramConfig{APIURL: "https://api.telegram.org"},
			Email:         EmailConfig{Port: 587},
		},
	}
}
