// Package config reads the deployment settings: which serial port the host
// is on, where the database and log file live, and how much to log.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const appName = "focusknob"

type Config struct {
	Serial   Serial `mapstructure:"serial"`
	Database string `mapstructure:"database"`
	Log      Log    `mapstructure:"log"`
}

type Serial struct {
	// Port is the device path of the host link; empty disables the link.
	Port string `mapstructure:"port"`
	Baud int    `mapstructure:"baud"`
}

type Log struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "")
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("database", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load reads $XDG_CONFIG_HOME/focusknob/config.yaml, if present, and
// FOCUSKNOB_* environment variables (FOCUSKNOB_SERIAL_PORT and so on).
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Database == "" {
		cfg.Database = filepath.Join(dir, appName+".db")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dir, appName+".log")
	}
	if cfg.Serial.Baud <= 0 {
		return nil, fmt.Errorf("invalid serial.baud %d", cfg.Serial.Baud)
	}
	return cfg, nil
}

// Dir returns ~/.config/focusknob
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// LogLevel parses Log.Level, falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LinkEnabled reports whether a serial port is configured.
func (c *Config) LinkEnabled() bool { return c.Serial.Port != "" }
