// Package config handles loading and managing application configuration
// from YAML files, .env files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/qrgen/output"
	"github.com/openclaw/qrgen/qr"
)

// envPrefix is prepended to every environment override.
const envPrefix = "QRGEN_"

// QRDefaults holds the generation options used when a request omits them.
type QRDefaults struct {
	Level   string `yaml:"level"`
	BoxSize int    `yaml:"box_size"`
	Border  int    `yaml:"border"`
	Format  string `yaml:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
}

// Config holds all application configuration values.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Defaults QRDefaults   `yaml:"defaults"`
	LogLevel string       `yaml:"log_level"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config populated with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8555,
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			IdleTimeout:  Duration{120 * time.Second},
			MaxBodyBytes: 64 << 10,
		},
		Defaults: QRDefaults{
			Level:   string(qr.DefaultLevel),
			BoxSize: qr.DefaultBoxSize,
			Border:  qr.DefaultBorder,
			Format:  string(output.PNG),
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from a .env file in the
// working directory are loaded into the environment first, then QRGEN_*
// environment variables override file or default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	// A missing .env file is fine; variables already set take precedence.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRGEN_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("LEVEL"); v != "" {
		cfg.Defaults.Level = v
	}
	if v := getenv("BOX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.BoxSize = n
		}
	}
	if v := getenv("BORDER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Border = n
		}
	}
	if v := getenv("FORMAT"); v != "" {
		cfg.Defaults.Format = v
	}
	if v := getenv("READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration{d}
		}
	}
	if v := getenv("WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration{d}
		}
	}
	if v := getenv("IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.IdleTimeout = Duration{d}
		}
	}
	if v := getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Server.MaxBodyBytes = n
		}
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

// Validate checks that the generation defaults are usable.
func (c *Config) Validate() error {
	if _, err := qr.ParseLevel(c.Defaults.Level); err != nil {
		return fmt.Errorf("defaults.level: %w", err)
	}
	if c.Defaults.BoxSize < 1 || c.Defaults.BoxSize > qr.MaxBoxSize {
		return fmt.Errorf("defaults.box_size must be between 1 and %d, got %d", qr.MaxBoxSize, c.Defaults.BoxSize)
	}
	if c.Defaults.Border < 0 || c.Defaults.Border > qr.MaxBorder {
		return fmt.Errorf("defaults.border must be between 0 and %d, got %d", qr.MaxBorder, c.Defaults.Border)
	}
	if _, err := output.ParseFormat(c.Defaults.Format); err != nil {
		return fmt.Errorf("defaults.format: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// QRDefaults converts the configured defaults for a qr.Generator.
// Validate must have succeeded.
func (c *Config) QRDefaults() qr.Defaults {
	level, _ := qr.ParseLevel(c.Defaults.Level)
	return qr.Defaults{
		Level:   level,
		BoxSize: c.Defaults.BoxSize,
		Border:  c.Defaults.Border,
	}
}

// Format returns the configured default output format.
// Validate must have succeeded.
func (c *Config) Format() output.Format {
	f, _ := output.ParseFormat(c.Defaults.Format)
	return f
}
