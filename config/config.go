package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"sjsage522/pricetracker/internal/tracker"
	trackererr "sjsage522/pricetracker/pkg/errors"
)

// Config represents the application configuration, loaded from a YAML file
// with environment variable fallbacks for addresses and secrets.
type Config struct {
	// Products to monitor
	Products []Product `yaml:"products"`

	// Scheduling. A nil interval falls back to the default; an explicit
	// non-positive value requests a single cycle instead of the loop.
	ScheduleIntervalMinutes *int `yaml:"schedule_interval_minutes"`
	RequestDelaySeconds     int  `yaml:"request_delay_seconds"`

	// Fetching
	UserAgent         string `yaml:"user_agent"`
	FetchWaitSeconds  int    `yaml:"fetch_wait_seconds"`
	RendererAddr      string `yaml:"renderer_addr"`
	FetchBlockSeconds int    `yaml:"fetch_block_seconds"`

	// Persistence
	DatabaseFile string `yaml:"database_file"`

	// Rate-limit cool-down cache (optional)
	MemcacheAddr string `yaml:"memcache_addr"`

	// Alert channels
	Alerts AlertConfig `yaml:"alert_settings"`
	Redis  RedisConfig `yaml:"redis"`

	// Environment
	Environment string `yaml:"environment"`
}

// Product is the file-level shape of one monitored item. The target price
// is kept as text here so a malformed value degrades to an invalid item
// that gets skipped, instead of failing the whole config load.
type Product struct {
	URL           string `yaml:"url"`
	Name          string `yaml:"name"`
	TargetPrice   string `yaml:"target_price"`
	PriceSelector string `yaml:"price_selector"`
	NameSelector  string `yaml:"name_selector"`
}

// AlertConfig contains email alert settings. The SMTP app password comes
// from the SMTP_PASSWORD environment variable, never from the file.
type AlertConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SenderEmail    string `yaml:"sender_email"`
	RecipientEmail string `yaml:"recipient_email"`
	SMTPAddr       string `yaml:"smtp_addr"`
}

// RedisConfig contains the alert stream settings. An empty Addr disables
// stream publishing.
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	DB              int    `yaml:"db"`
	Stream          string `yaml:"stream"`
	StreamMaxLength int64  `yaml:"stream_max_length"`
}

// Load reads the configuration file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, trackererr.NewConfiguration(fmt.Sprintf("failed to read config file %s", path), err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, trackererr.NewConfiguration("failed to parse config file", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RequestDelaySeconds == 0 {
		c.RequestDelaySeconds = 10
	}
	if c.FetchWaitSeconds == 0 {
		c.FetchWaitSeconds = 20
	}
	if c.FetchBlockSeconds == 0 {
		c.FetchBlockSeconds = 300
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	}
	if c.DatabaseFile == "" {
		c.DatabaseFile = getEnv("DATABASE_FILE", "data/product_prices.db")
	}
	if c.MemcacheAddr == "" {
		c.MemcacheAddr = os.Getenv("MEMCACHE_ADDR")
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "price_alerts"
	}
	if c.Redis.StreamMaxLength == 0 {
		c.Redis.StreamMaxLength = 1000
	}
	if c.Alerts.SMTPAddr == "" {
		c.Alerts.SMTPAddr = "smtp.gmail.com:587"
	}
	if c.Environment == "" {
		c.Environment = getEnv("PRICETRACKER_ENVIRONMENT", "development")
	}
}

// Validate checks settings that would make the whole run meaningless.
// Per-item defects are not config errors; invalid items are skipped at
// check time so one bad entry cannot block the others.
func (c *Config) Validate() error {
	if c.DatabaseFile == "" {
		return trackererr.NewConfiguration("database_file is required", nil)
	}
	if c.RequestDelaySeconds < 0 {
		return trackererr.NewConfiguration("request_delay_seconds must be non-negative", nil)
	}
	if c.FetchWaitSeconds < 1 {
		return trackererr.NewConfiguration("fetch_wait_seconds must be at least 1", nil)
	}
	if c.Alerts.Enabled && c.Alerts.RecipientEmail == "" {
		return trackererr.NewConfiguration("alert_settings.recipient_email is required when alerts are enabled", nil)
	}
	return nil
}

// Items converts the configured products into monitored items. Entries
// with an unparseable target price come back with a zero target, which
// item validation rejects at check time.
func (c *Config) Items() []tracker.Item {
	items := make([]tracker.Item, 0, len(c.Products))
	for _, p := range c.Products {
		item := tracker.Item{
			URL:           p.URL,
			Name:          p.Name,
			PriceSelector: p.PriceSelector,
			NameSelector:  p.NameSelector,
		}
		if p.TargetPrice != "" {
			if price, err := decimal.NewFromString(p.TargetPrice); err == nil {
				item.TargetPrice = price
			}
		}
		items = append(items, item)
	}
	return items
}

// ScheduleInterval returns the cycle cadence. A non-positive value means
// run exactly one cycle and exit.
func (c *Config) ScheduleInterval() time.Duration {
	if c.ScheduleIntervalMinutes == nil {
		return 60 * time.Minute
	}
	return time.Duration(*c.ScheduleIntervalMinutes) * time.Minute
}

// RequestDelay returns the pacing delay between items within a cycle.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds) * time.Second
}

// FetchWait returns the maximum time to wait for page readiness.
func (c *Config) FetchWait() time.Duration {
	return time.Duration(c.FetchWaitSeconds) * time.Second
}

// FetchBlock returns the cool-down applied to rate-limited URLs.
func (c *Config) FetchBlock() time.Duration {
	return time.Duration(c.FetchBlockSeconds) * time.Second
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
