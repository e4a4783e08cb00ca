// Package config provides Viper-based configuration management for oroctl
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete oroctl configuration. The connection keys
// mirror the ORO_* environment variables recognized by the original tooling.
type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	AdminPath    string        `mapstructure:"admin_path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Logging      LoggingConfig `mapstructure:"logging"`
	Output       OutputConfig  `mapstructure:"output"`

	// File is the config file actually read, empty when only environment
	// variables and defaults were used.
	File string `mapstructure:"-"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// ConfigError reports missing or invalid configuration. The run aborts
// before any network call is made.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads configuration from file and environment variables. cfgFile
// defaults to config.yaml in the working directory; a missing default file
// is fine as long as the environment supplies the required keys. Files
// named .env or *.env are parsed as dotenv.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	explicit := cfgFile != ""
	if !explicit {
		cfgFile = "config.yaml"
	}
	v.SetConfigFile(cfgFile)
	if ext := strings.TrimPrefix(filepath.Ext(cfgFile), "."); ext == "env" || filepath.Base(cfgFile) == ".env" {
		v.SetConfigType("env")
	}

	// Environment variables: ORO_BASE_URL, ORO_CLIENT_ID, ...
	v.SetEnvPrefix("ORO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys it knows about, so bind each one explicitly
	// to make env-only configuration work without any file. output.colors
	// stays file-only; Unmarshal does not coerce env strings to bool.
	for _, key := range []string{
		"base_url", "client_id", "client_secret", "admin_path",
		"timeout", "logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	usedFile := ""
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.As(err, &viper.ConfigFileNotFoundError{}) {
			// The default config file is optional; an explicitly requested
			// one is not.
			if explicit {
				return nil, &ConfigError{Reason: "config file not found: " + cfgFile, Err: err}
			}
		} else {
			return nil, &ConfigError{Reason: "reading config", Err: err}
		}
	} else {
		usedFile = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Reason: "unmarshaling config", Err: err}
	}
	cfg.File = usedFile

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	var missing []string
	for _, kv := range []struct{ key, val string }{
		{"base_url", cfg.BaseURL},
		{"client_id", cfg.ClientID},
		{"client_secret", cfg.ClientSecret},
		{"admin_path", cfg.AdminPath},
	} {
		if strings.TrimSpace(kv.val) == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Reason: "missing required keys: " + strings.Join(missing, ", ")}
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Reason: fmt.Sprintf("base_url %q is not an absolute URL", cfg.BaseURL)}
	}

	if cfg.Timeout <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("timeout must be positive, got %s", cfg.Timeout)}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return &ConfigError{Reason: fmt.Sprintf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)}
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return &ConfigError{Reason: fmt.Sprintf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)}
	}

	return nil
}

// TokenURL returns the OAuth2 token endpoint.
func (c *Config) TokenURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/oauth2-token"
}

// APIURL returns the full URL for an admin API path such as "/products".
func (c *Config) APIURL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.AdminPath, "/") + "/api" + path
}
