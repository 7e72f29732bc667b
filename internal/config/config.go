// Package config loads application settings from a YAML file, an optional
// .env file and NATTKLAR_* environment variables, in that order of
// increasing precedence. Command-line flags are applied on top by main.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/nattklar/internal/assets"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/feeds"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NATTKLAR_"

// Feeds configures the upstream HTTP client.
type Feeds struct {
	UserAgent string        `yaml:"user_agent"`
	Rate      float64       `yaml:"rate"`
	Burst     int           `yaml:"burst"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Events configures the night event refresher.
type Events struct {
	File     string `yaml:"file"`
	Schedule string `yaml:"schedule"`
}

// Telegram configures polar light notifications. Both fields must be set
// to enable it.
type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Enabled reports whether notifications are configured.
func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Config holds all settings.
type Config struct {
	Location astro.Observer `yaml:"location"`
	AssetDir string         `yaml:"asset_dir"`
	LogLevel string         `yaml:"log_level"`
	Feeds    Feeds          `yaml:"feeds"`
	Events   Events         `yaml:"events"`
	Telegram Telegram       `yaml:"telegram"`
}

// Default returns the built-in settings: Oslo, assets in ./assets.
func Default() Config {
	return Config{
		Location: astro.Observer{LatDeg: 59.9139, LonDeg: 10.7522, Name: "Oslo"},
		AssetDir: "assets",
		LogLevel: "info",
		Feeds: Feeds{
			Rate:    feeds.DefaultRate,
			Burst:   feeds.DefaultBurst,
			Timeout: feeds.DefaultTimeout,
		},
		Events: Events{
			Schedule: events.DefaultSchedule,
		},
	}
}

// EventsPath returns the event file, defaulting to the bundled asset.
func (c Config) EventsPath() string {
	if c.Events.File != "" {
		return c.Events.File
	}
	return assets.NightEvents.Path(c.AssetDir)
}

// Load returns Default overlaid with the YAML file at path. An empty path
// skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := cfg.decode(f); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// decode overlays a YAML document. Unknown keys are rejected.
func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// LoadEnvFiles loads .env style files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from NATTKLAR_* variables read through
// getenv. Every malformed value is reported.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	var errs errors.M
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v := getenv(EnvPrefix + key); v != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs.Append(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int64) {
		if v := getenv(EnvPrefix + key); v != "" {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs.Append(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}

	float("LAT", &c.Location.LatDeg)
	float("LON", &c.Location.LonDeg)
	str("LOCATION_NAME", &c.Location.Name)
	str("ASSET_DIR", &c.AssetDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("USER_AGENT", &c.Feeds.UserAgent)
	float("RATE", &c.Feeds.Rate)
	str("EVENTS_FILE", &c.Events.File)
	str("EVENTS_SCHEDULE", &c.Events.Schedule)
	str("TELEGRAM_TOKEN", &c.Telegram.Token)
	integer("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)

	if v := getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs.Append(fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Feeds.Timeout = d
		}
	}
	return errs.Err()
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs errors.M
	if lat := c.Location.LatDeg; lat < -90 || lat > 90 {
		errs.Append(fmt.Errorf("latitude %v out of range [-90, 90]", lat))
	}
	if lon := c.Location.LonDeg; lon < -180 || lon > 180 {
		errs.Append(fmt.Errorf("longitude %v out of range [-180, 180]", lon))
	}
	if c.AssetDir == "" {
		errs.Append(fmt.Errorf("asset_dir is empty"))
	}
	if !logLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))] {
		errs.Append(fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.Feeds.Rate <= 0 {
		errs.Append(fmt.Errorf("feeds.rate must be positive, got %v", c.Feeds.Rate))
	}
	if c.Feeds.Burst < 1 {
		errs.Append(fmt.Errorf("feeds.burst must be at least 1, got %d", c.Feeds.Burst))
	}
	if c.Feeds.Timeout <= 0 {
		errs.Append(fmt.Errorf("feeds.timeout must be positive, got %v", c.Feeds.Timeout))
	}
	if (c.Telegram.Token == "") != (c.Telegram.ChatID == 0) {
		errs.Append(fmt.Errorf("telegram needs both token and chat_id"))
	}
	return errs.Err()
}
