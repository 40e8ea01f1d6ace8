package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const appName = "tasquest"

// DecayConfig drives the health decay tick
type DecayConfig struct {
	RatePerHour float64       `yaml:"rate_per_hour" env:"TASQUEST_DECAY_RATE" env-default:"1"`
	Interval    time.Duration `yaml:"interval" env:"TASQUEST_DECAY_INTERVAL" env-default:"1m"`
}

type UIConfig struct {
	Theme string `yaml:"theme" env:"TASQUEST_THEME" env-default:"tokyo-night"`
}

type Config struct {
	LogLevel string      `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	DataDir  string      `yaml:"data_dir" env:"TASQUEST_DATA_DIR"`
	DBPath   string      `yaml:"db_path" env:"TASQUEST_DB_PATH"`
	LogPath  string      `yaml:"log_path" env:"TASQUEST_LOG_PATH"`
	Decay    DecayConfig `yaml:"decay"`
	UI       UIConfig    `yaml:"ui"`
}

// Load reads configPath, falling back to the environment alone when the path
// is empty or the file does not exist, then fills derived paths.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}

	if err := cfg.resolvePaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/tasquest/config.yaml, or ~/.config/... when unset
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// resolvePaths uses the XDG data directory, or ~/.local/share, for anything unset
func (c *Config) resolvePaths() error {
	if c.DataDir == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve data dir: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		c.DataDir = filepath.Join(dataDir, appName)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, appName+".db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, appName+".log")
	}
	return nil
}

func (c *Config) validate() error {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.Decay.RatePerHour < 0 {
		return fmt.Errorf("config: decay.rate_per_hour must not be negative, got %v", c.Decay.RatePerHour)
	}
	if c.Decay.Interval <= 0 {
		return fmt.Errorf("config: decay.interval must be positive, got %s", c.Decay.Interval)
	}
	return nil
}
