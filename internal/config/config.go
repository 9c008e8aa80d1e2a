package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values come from environment variables, optionally layered over the file
// named by CONFIG_FILE.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Menu     MenuConfig
	Metrics  MetricsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for menu changes
}

type MenuConfig struct {
	SeedFiles   []string // Files or URLs loaded into the menu at startup
	SkipDefault bool     // Start from an empty menu instead of the default one
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("read_timeout", 15)
	v.SetDefault("write_timeout", 15)
	v.SetDefault("shutdown_timeout", 30)
	v.SetDefault("api_keys", "apitest")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_files", "")
	v.SetDefault("skip_default_menu", false)
	v.SetDefault("metrics_enabled", true)

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("port"),
			Host:            v.GetString("host"),
			ReadTimeout:     v.GetInt("read_timeout"),
			WriteTimeout:    v.GetInt("write_timeout"),
			ShutdownTimeout: v.GetInt("shutdown_timeout"),
		},
		Auth: AuthConfig{
			APIKeys: listValue(v, "api_keys"),
		},
		Menu: MenuConfig{
			SeedFiles:   listValue(v, "seed_files"),
			SkipDefault: v.GetBool("skip_default_menu"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// listValue reads a list given either as a comma separated string
// (environment) or as a list (config file)
func listValue(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitList(raw)
	}
	return splitList(strings.Join(v.GetStringSlice(key), ","))
}

// splitList splits a comma separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
