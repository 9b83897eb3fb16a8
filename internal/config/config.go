package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("companion version %s, commit %s, built at %s", version, commit, date)
}

const defaultTimeout = 30 * time.Second

type Config struct {
	Backend   BackendConfig `mapstructure:"backend"`
	Logging   LoggingConfig `mapstructure:"logging"`
	TokenFile string        `mapstructure:"token_file"`
}

type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// RequestTimeout parses the configured timeout, falling back to the
// transport default when unset or unparseable.
func (c BackendConfig) RequestTimeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags registers command line flags (without parsing)
func InitFlags(flags *pflag.FlagSet) {
	flags.String("base-url", "", "Backend base URL")
	flags.String("token-file", "", "Path to the persisted session token file")
	// Note: no Parse() here, cobra parses in main
}

// Load builds the runtime configuration from defaults, an optional
// config.yaml, VITALINK_* environment variables, and command line flags.
// Later sources override earlier ones.
func Load(flags *pflag.FlagSet) (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("VITALINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		if err := viper.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("backend.timeout", defaultTimeout.String())
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/vitalink-companion")

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; anything but "not found" is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if baseURL := viper.GetString("base-url"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if tokenFile := viper.GetString("token-file"); tokenFile != "" {
		config.TokenFile = tokenFile
	}

	if config.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required, please adjust the config or pass --base-url or VITALINK_BACKEND_BASE_URL environment variable")
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	if config.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve user config dir for token file: %w", err)
		}
		config.TokenFile = filepath.Join(dir, "vitalink", "token")
	}

	return &config, nil
}
