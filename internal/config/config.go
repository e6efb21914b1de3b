// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported telemetry exporters.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

var validExporters = []string{ExporterNone, ExporterStdout, ExporterOTLPGRPC, ExporterOTLPHTTP}

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL     string
	Port            string
	LogLevel        string
	LogFormat       string
	SessionHashKey  string
	SessionBlockKey string
	SecureCookie    bool
	OTelExporter    string
	OTelEndpoint    string
	ServiceName     string
}

// Error is returned when the configuration is incomplete or invalid.
// It is always fatal at startup.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		SessionHashKey:  os.Getenv("SESSION_HASH_KEY"),
		SessionBlockKey: os.Getenv("SESSION_BLOCK_KEY"),
		OTelExporter:    strings.ToLower(getEnv("OTEL_EXPORTER", ExporterNone)),
		OTelEndpoint:    os.Getenv("OTEL_ENDPOINT"),
		ServiceName:     getEnv("SERVICE_NAME", "expense-report"),
	}

	var problems []string
	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid SECURE_COOKIE %q: must be true or false", v))
		}
		cfg.SecureCookie = b
	}

	if err := cfg.validate(problems...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present. Problems
// found while parsing are reported alongside its own.
func (c *Config) validate(problems ...string) error {
	errs := problems

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid PORT %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid PORT %d: must be between 1 and 65535", port))
	}

	if c.SessionHashKey != "" && len(c.SessionHashKey) < 32 {
		errs = append(errs, "SESSION_HASH_KEY must be at least 32 bytes")
	}
	switch len(c.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		errs = append(errs, "SESSION_BLOCK_KEY must be 16, 24 or 32 bytes")
	}

	if !slices.Contains(validExporters, c.OTelExporter) {
		errs = append(errs, fmt.Sprintf("invalid OTEL_EXPORTER %q: must be one of %v", c.OTelExporter, validExporters))
	}
	if (c.OTelExporter == ExporterOTLPGRPC || c.OTelExporter == ExporterOTLPHTTP) && c.OTelEndpoint == "" {
		errs = append(errs, "OTEL_ENDPOINT is required for OTLP exporters")
	}

	if len(errs) > 0 {
		return &Error{Problems: errs}
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
