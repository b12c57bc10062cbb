package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradejournal/insight"
	"gopkg.in/yaml.v3"
)

// Config is the journal and analytics configuration.
type Config struct {
	Timezone string         `json:"timezone" yaml:"timezone" validate:"required,timezone"`
	Currency string         `json:"currency" yaml:"currency" validate:"required,iso4217"`
	Locale   string         `json:"locale" yaml:"locale" validate:"required,bcp47_language_tag"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Behavior BehaviorConfig `json:"behavior" yaml:"behavior"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=console json"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type" validate:"oneof=csv sqlite"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty" validate:"required_if=Type csv"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" validate:"required_if=Type sqlite"`
}

// BehaviorConfig tunes the pattern detector. Zero values fall back to the
// detector defaults.
type BehaviorConfig struct {
	MaxTradesPerDay     int     `json:"max_trades_per_day,omitempty" yaml:"max_trades_per_day,omitempty" validate:"gte=0"`
	RevengeWindow       string  `json:"revenge_window,omitempty" yaml:"revenge_window,omitempty"` // e.g. "30m"
	RevengeSizeMultiple float64 `json:"revenge_size_multiple,omitempty" yaml:"revenge_size_multiple,omitempty" validate:"gte=0"`
	FOMOLookback        int     `json:"fomo_lookback,omitempty" yaml:"fomo_lookback,omitempty" validate:"gte=0"`
	SizingMaxCV         float64 `json:"sizing_max_cv,omitempty" yaml:"sizing_max_cv,omitempty" validate:"gte=0"`
	TiltStreak          int     `json:"tilt_streak,omitempty" yaml:"tilt_streak,omitempty" validate:"gte=0"`
	SessionShare        float64 `json:"session_share,omitempty" yaml:"session_share,omitempty" validate:"gte=0,lte=1"`
}

// ParseRevengeWindow converts the window string to a time.Duration.
func (b BehaviorConfig) ParseRevengeWindow() (time.Duration, error) {
	if b.RevengeWindow == "" {
		return 0, nil
	}
	return time.ParseDuration(b.RevengeWindow)
}

var validate = validator.New()

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks struct tags, then the values tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation (value %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}
	if _, err := c.Behavior.ParseRevengeWindow(); err != nil {
		return fmt.Errorf("behavior.revenge_window: %w", err)
	}
	return nil
}

// fieldPath turns "Config.Journal.DBPath" into "journal.dbpath".
func fieldPath(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	return strings.ToLower(ns)
}

// Location loads the configured IANA zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Thresholds overlays the behavior settings on the detector defaults.
func (c *Config) Thresholds() (insight.Thresholds, error) {
	th := insight.DefaultThresholds()
	b := c.Behavior

	window, err := b.ParseRevengeWindow()
	if err != nil {
		return th, fmt.Errorf("behavior.revenge_window: %w", err)
	}
	if window > 0 {
		th.RevengeWindow = window
	}
	if b.MaxTradesPerDay > 0 {
		th.MaxTradesPerDay = b.MaxTradesPerDay
	}
	if b.RevengeSizeMultiple > 0 {
		th.RevengeSizeMultiple = b.RevengeSizeMultiple
	}
	if b.FOMOLookback > 0 {
		th.FOMOLookback = b.FOMOLookback
	}
	if b.SizingMaxCV > 0 {
		th.SizingMaxCV = b.SizingMaxCV
	}
	if b.TiltStreak > 0 {
		th.TiltStreak = b.TiltStreak
	}
	if b.SessionShare > 0 {
		th.SessionShare = b.SessionShare
	}
	return th, nil
}

// Environment overrides read by ApplyEnv.
const (
	EnvDB       = "TRADEJOURNAL_DB"
	EnvTimezone = "TRADEJOURNAL_TZ"
	EnvCurrency = "TRADEJOURNAL_CURRENCY"
	EnvLogLevel = "TRADEJOURNAL_LOG_LEVEL"
)

// ApplyEnv overrides fields from the environment. Setting TRADEJOURNAL_DB
// switches the journal to SQLite.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		c.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Timezone: "UTC",
		Currency: "USD",
		Locale:   "en-US",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
		},
	}
}
