package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/promodash/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataPath          string `mapstructure:"data_path" yaml:"data_path"`
	Delimiter         string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName         string `mapstructure:"sheet_name" yaml:"sheet_name"`
	ListenAddr        string `mapstructure:"listen_addr" yaml:"listen_addr"`
	DefaultCategory   string `mapstructure:"default_category" yaml:"default_category"`
	DefaultDepartment string `mapstructure:"default_department" yaml:"default_department"`

	// Server timeouts and session eviction
	ReadTimeoutSec  int `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	SessionTTLMin   int `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`
	MaxSessions     int `mapstructure:"max_sessions" yaml:"max_sessions"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".promodash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.promodash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the
// caller on top of the result.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PROMODASH")
	v.AutomaticEnv()

	v.SetDefault("data_path", "data_input/promotion_clean.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("listen_addr", ":8050")
	v.SetDefault("default_category", "department")
	v.SetDefault("default_department", "Finance")
	v.SetDefault("read_timeout_sec", 10)
	v.SetDefault("write_timeout_sec", 30)
	v.SetDefault("session_ttl_min", 30)
	v.SetDefault("max_sessions", 10000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a broken one is not
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DelimiterRune maps the delimiter setting to a rune. Empty means auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s", c.Delimiter)
}
