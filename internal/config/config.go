// Package config loads scribe configuration from an optional YAML file, a .env
// file and SCRIBE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level scribe configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Editor EditorConfig `yaml:"editor"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver    string `yaml:"driver"` // sqlite | redis | memory | none
	Path      string `yaml:"path"`
	RedisURL  string `yaml:"redis_url"`
	Namespace string `yaml:"namespace"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug | info | warn | error
}

// EditorConfig holds the editor's timer delays and toolbar placement.
type EditorConfig struct {
	FadeDelay       time.Duration `yaml:"fade_delay"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	PrefillDelay    time.Duration `yaml:"prefill_delay"`
	ToolbarOffset   int           `yaml:"toolbar_offset"`
	PlaceholderHref string        `yaml:"placeholder_href"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads path (a missing file is not an error), then .env, then the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Store.Driver, "SCRIBE_STORE_DRIVER")
	setString(&c.Store.Path, "SCRIBE_STORE_PATH")
	setString(&c.Store.RedisURL, "SCRIBE_REDIS_URL")
	setString(&c.Store.Namespace, "SCRIBE_STORE_NAMESPACE")
	setString(&c.Log.Path, "SCRIBE_LOG_PATH")
	setString(&c.Log.Level, "SCRIBE_LOG_LEVEL")
	setString(&c.Editor.PlaceholderHref, "SCRIBE_PLACEHOLDER_HREF")

	for _, d := range []struct {
		dst *time.Duration
		key string
	}{
		{&c.Editor.FadeDelay, "SCRIBE_FADE_DELAY"},
		{&c.Editor.SettleDelay, "SCRIBE_SETTLE_DELAY"},
		{&c.Editor.PrefillDelay, "SCRIBE_PREFILL_DELAY"},
	} {
		v, ok := os.LookupEnv(d.key)
		if !ok || v == "" {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", d.key, err)
		}
		*d.dst = dur
	}

	if v := os.Getenv("SCRIBE_TOOLBAR_OFFSET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SCRIBE_TOOLBAR_OFFSET: %w", err)
		}
		c.Editor.ToolbarOffset = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(dataDir(), "scribe.db")
	}
	if c.Store.RedisURL == "" {
		c.Store.RedisURL = "redis://localhost:6379/0"
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = "scribe"
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(dataDir(), "scribe.log")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Editor.FadeDelay <= 0 {
		c.Editor.FadeDelay = 260 * time.Millisecond
	}
	if c.Editor.SettleDelay <= 0 {
		c.Editor.SettleDelay = time.Millisecond
	}
	if c.Editor.PrefillDelay <= 0 {
		c.Editor.PrefillDelay = 100 * time.Millisecond
	}
	if c.Editor.ToolbarOffset <= 0 {
		c.Editor.ToolbarOffset = 1
	}
	if c.Editor.PlaceholderHref == "" {
		c.Editor.PlaceholderHref = "/"
	}
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "scribe")
	}
	return "."
}
