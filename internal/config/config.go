package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sandeepkv93/tasklist/internal/model"
)

const (
	EnvPrefix     = "TASKLIST_"
	EnvConfigPath = "TASKLIST_CONFIG"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// defaultFiles are looked up in the working directory when no config path
// is given.
var defaultFiles = []string{"tasklist.yaml", "tasklist.yml", "tasklist.toml"}

type Config struct {
	DataFile      string              `koanf:"data_file"`
	Backend       string              `koanf:"backend"`
	Theme         string              `koanf:"theme"`
	Reminder      ReminderConfig      `koanf:"reminder"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Log           LogConfig           `koanf:"log"`

	// File is the config file that was read, empty when none was.
	File string `koanf:"-"`
}

type ReminderConfig struct {
	Interval time.Duration `koanf:"interval"`
	Initial  time.Duration `koanf:"initial"`
	Repeat   time.Duration `koanf:"repeat"`
	Title    string        `koanf:"title"`
	Timeout  time.Duration `koanf:"timeout"` // how long a notification stays visible
	Buffer   int           `koanf:"buffer"`
}

type NotificationsConfig struct {
	Desktop bool `koanf:"desktop"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Load layers defaults, the config file, TASKLIST_* environment variables
// and overrides, in that order. Override keys use dotted paths such as
// "reminder.interval".
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, explicit := resolvePath(configPath)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		} else {
			path = ""
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = path
	cfg.DataFile = expandPath(strings.TrimSpace(cfg.DataFile))
	cfg.Log.File = expandPath(strings.TrimSpace(cfg.Log.File))
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file is required", ErrInvalidConfig)
	}
	switch c.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("%w: unknown backend %q (supported: json, sqlite)", ErrInvalidConfig, c.Backend)
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: unknown theme %q (supported: light, dark)", ErrInvalidConfig, c.Theme)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("%w: reminder.interval must be positive", ErrInvalidConfig)
	}
	if c.Reminder.Timeout <= 0 {
		return fmt.Errorf("%w: reminder.timeout must be positive", ErrInvalidConfig)
	}
	if c.Reminder.Buffer <= 0 {
		return fmt.Errorf("%w: reminder.buffer must be positive", ErrInvalidConfig)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Policy() model.ReminderPolicy {
	return model.ReminderPolicy{Initial: c.Reminder.Initial, Repeat: c.Reminder.Repeat}
}

// resolvePath reports the config file to read and whether the caller asked
// for it explicitly.
func resolvePath(configPath string) (string, bool) {
	if p := strings.TrimSpace(configPath); p != "" {
		return expandPath(p), true
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return expandPath(p), true
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name, false
		}
	}
	return "", false
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOMLParser()
	}
	return yaml.Parser()
}

// envKey maps TASKLIST_REMINDER__INTERVAL to reminder.interval.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
