package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fastexp/internal/querystate"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "MODEXP_LIMIT_BITS",
		"MODEXP_DEFAULT_A", "MODEXP_DEFAULT_N", "MODEXP_DEFAULT_M",
		"OTEL_SERVICE_NAME", "LOG_LEVEL", "OTEL_LOGS_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Calculator.LimitBits != 24 {
		t.Errorf("expected LimitBits=24, got %d", cfg.Calculator.LimitBits)
	}
	if cfg.Calculator.Defaults != querystate.Defaults {
		t.Errorf("expected default inputs %+v, got %+v", querystate.Defaults, cfg.Calculator.Defaults)
	}

	v, err := cfg.Validator()
	if err != nil {
		t.Fatalf("building validator: %v", err)
	}
	if got := v.Limit().String(); got != "16777216" {
		t.Errorf("expected limit 16777216, got %s", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	d, err := cfg.ShutdownTimeout()
	if err != nil || d != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %v (%v)", d, err)
	}
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Calculator.LimitBits = 36
	cfg.Calculator.Defaults = querystate.Inputs{A: "2", N: "23", M: "100"}
	cfg.Telemetry.LogLevel = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Calculator.LimitBits != 36 {
		t.Errorf("expected LimitBits=36, got %d", loaded.Calculator.LimitBits)
	}
	if loaded.Calculator.Defaults.N != "23" {
		t.Errorf("expected default n=23, got %s", loaded.Calculator.Defaults.N)
	}
	if loaded.Telemetry.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", loaded.Telemetry.LogLevel)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MODEXP_LIMIT_BITS", "36")
	t.Setenv("MODEXP_DEFAULT_M", "101")
	t.Setenv("OTEL_SERVICE_NAME", "modexp-test")
	t.Setenv("OTEL_LOGS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Calculator.LimitBits != 36 {
		t.Errorf("expected LimitBits=36, got %d", cfg.Calculator.LimitBits)
	}
	if cfg.Calculator.Defaults.M != "101" {
		t.Errorf("expected default m=101, got %s", cfg.Calculator.Defaults.M)
	}
	if cfg.Telemetry.ServiceName != "modexp-test" || !cfg.Telemetry.LogsEnabled {
		t.Errorf("unexpected telemetry config %+v", cfg.Telemetry)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want string
	}{
		{name: "limit too large", yaml: "calculator:\n  limit_bits: 5000\n", want: "limit_bits"},
		{name: "limit zero", yaml: "calculator:\n  limit_bits: 0\n", want: "limit_bits"},
		{name: "default out of range", yaml: "calculator:\n  limit_bits: 4\n", want: "calculator.defaults"},
		{name: "zero default modulus", yaml: "calculator:\n  defaults:\n    m: \"0\"\n", want: "calculator.defaults"},
		{name: "bad timeout", yaml: "server:\n  shutdown_timeout: soon\n", want: "shutdown_timeout"},
		{name: "bad level", yaml: "telemetry:\n  log_level: loud\n", want: "log_level"},
		{name: "bad env bits", env: map[string]string{"MODEXP_LIMIT_BITS": "many"}, want: "MODEXP_LIMIT_BITS"},
		{name: "bad yaml", yaml: "server: [", want: "parse config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("writing config: %v", err)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
