package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fastexp/internal/modexp"
	"fastexp/internal/querystate"
)

// MaxLimitBits bounds the configurable input ceiling so a single trace stays
// renderable.
const MaxLimitBits = 4096

// Config holds service and CLI configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"` // e.g. "5s"
}

// CalculatorConfig configures validation and default inputs.
type CalculatorConfig struct {
	// Inputs must be strictly below 2^LimitBits.
	LimitBits uint              `yaml:"limit_bits"`
	Defaults  querystate.Inputs `yaml:"defaults"`
}

// TelemetryConfig configures logging and OpenTelemetry export.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"` // debug, info, warn, error
	LogsEnabled bool   `yaml:"logs_enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
		Calculator: CalculatorConfig{
			LimitBits: modexp.DefaultLimitBits,
			Defaults:  querystate.Defaults,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "fastexp-api",
			LogLevel:    "info",
		},
	}
}

// Load builds a config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		c.Server.ShutdownTimeout = v
	}
	if v := os.Getenv("MODEXP_LIMIT_BITS"); v != "" {
		bits, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return fmt.Errorf("MODEXP_LIMIT_BITS: %w", err)
		}
		c.Calculator.LimitBits = uint(bits)
	}
	if v := os.Getenv("MODEXP_DEFAULT_A"); v != "" {
		c.Calculator.Defaults.A = v
	}
	if v := os.Getenv("MODEXP_DEFAULT_N"); v != "" {
		c.Calculator.Defaults.N = v
	}
	if v := os.Getenv("MODEXP_DEFAULT_M"); v != "" {
		c.Calculator.Defaults.M = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Telemetry.LogLevel = v
	}
	if v := os.Getenv("OTEL_LOGS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_LOGS_ENABLED: %w", err)
		}
		c.Telemetry.LogsEnabled = enabled
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	if c.Calculator.LimitBits < 1 || c.Calculator.LimitBits > MaxLimitBits {
		return fmt.Errorf("calculator.limit_bits must be in [1, %d], got %d", MaxLimitBits, c.Calculator.LimitBits)
	}

	d := c.Calculator.Defaults
	v, err := c.Validator()
	if err != nil {
		return err
	}
	if _, err := v.ValidateAndParse(d.A, d.N, d.M); err != nil {
		return fmt.Errorf("calculator.defaults: %w", err)
	}

	switch strings.ToLower(c.Telemetry.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.log_level %q is not one of debug, info, warn, error", c.Telemetry.LogLevel)
	}
	return nil
}

// ShutdownTimeout parses Server.ShutdownTimeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.shutdown_timeout must be positive, got %s", d)
	}
	return d, nil
}

// Validator builds the input validator for the configured limit.
func (c *Config) Validator() (*modexp.Validator, error) {
	return modexp.NewValidator(modexp.LimitFromBits(c.Calculator.LimitBits))
}

// Codec builds the query-state codec for the configured defaults.
func (c *Config) Codec() querystate.Codec {
	return querystate.NewCodec(c.Calculator.Defaults)
}
