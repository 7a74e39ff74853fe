// Package config loads ifstat settings from a file, IFSTAT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. IFSTAT_SYSFS_ROOT.
const EnvPrefix = "IFSTAT"

type Config struct {
	Sysfs      SysfsConfig   `mapstructure:"sysfs"`
	Enumerator string        `mapstructure:"enumerator"`
	Output     OutputConfig  `mapstructure:"output"`
	Serve      ServeConfig   `mapstructure:"serve"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

type SysfsConfig struct {
	Root string `mapstructure:"root"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Address     string `mapstructure:"address"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"sysfs.root":         "/sys/class/net",
	"enumerator":         "auto",
	"output.format":      "table",
	"serve.address":      ":9100",
	"serve.metrics_path": "/metrics",
	"logging.level":      "warn",
	"logging.format":     "text",
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"sysfs-root":   "sysfs.root",
	"enumerator":   "enumerator",
	"format":       "output.format",
	"listen":       "serve.address",
	"metrics-path": "serve.metrics_path",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
}

// Load reads the optional config file at path and overlays environment
// variables and any flags of flags that were set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	return decode(v)
}

// LoadFromBytes parses YAML config data.
func LoadFromBytes(data []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Sysfs.Root == "" {
		return fmt.Errorf("sysfs.root is required")
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.Serve.MetricsPath, "/") {
		return fmt.Errorf("serve.metrics_path must start with /, got %q", cfg.Serve.MetricsPath)
	}
	return nil
}
