package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads all config from env", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("SECURE_COOKIE", "true")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		require.Equal(t, "9090", cfg.Port)
		require.Equal(t, ":9090", cfg.Addr())
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "json", cfg.LogFormat)
		require.True(t, cfg.SecureCookie)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "sqlite://:memory:")
		t.Setenv("PORT", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("OTEL_EXPORTER", "")
		t.Setenv("SERVICE_NAME", "")
		t.Setenv("SECURE_COOKIE", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "8080", cfg.Port)
		require.Equal(t, "info", cfg.LogLevel)
		require.Equal(t, ExporterNone, cfg.OTelExporter)
		require.Equal(t, "expense-report", cfg.ServiceName)
		require.False(t, cfg.SecureCookie)
	})

	t.Run("trims database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "  postgres://localhost/test  ")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	})

}

func TestLoad_Validation(t *testing.T) {
	t.Run("missing database url is a config error", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		cfg, err := Load()
		require.Error(t, err)
		require.Nil(t, cfg)

		var cfgErr *Error
		require.True(t, errors.As(err, &cfgErr))
		require.Contains(t, cfgErr.Problems, "DATABASE_URL is required")
		require.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("PORT", "abc")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("rejects out of range port", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("PORT", "70000")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "between 1 and 65535")
	})

	t.Run("rejects short session hash key", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SESSION_HASH_KEY", "short")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "SESSION_HASH_KEY")
	})

	t.Run("rejects bad block key length", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SESSION_BLOCK_KEY", "12345")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "SESSION_BLOCK_KEY")
	})

	t.Run("rejects unknown exporter", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("OTEL_EXPORTER", "zipkin")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid OTEL_EXPORTER")
	})

	t.Run("otlp exporter requires endpoint", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("OTEL_EXPORTER", "otlp-grpc")
		t.Setenv("OTEL_ENDPOINT", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "OTEL_ENDPOINT is required")
	})

	t.Run("rejects unparsable secure cookie flag", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SECURE_COOKIE", "maybe")

		cfg, err := Load()
		require.Error(t, err)
		require.Nil(t, cfg)
		require.Contains(t, err.Error(), `invalid SECURE_COOKIE "maybe"`)
	})

	t.Run("collects multiple problems", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("PORT", "0")
		t.Setenv("SECURE_COOKIE", "yes please")

		_, err := Load()
		var cfgErr *Error
		require.True(t, errors.As(err, &cfgErr))
		require.Len(t, cfgErr.Problems, 3)
	})
}
