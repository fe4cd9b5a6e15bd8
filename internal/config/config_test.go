package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_backend/internal/platform/db"
)

var configKeys = []string{
	"PORT", "LOG_LEVEL", "PASSWORD_DIGEST", "CACHE_TTL", "IMAGE_STORE_TIMEOUT",
	"STORE_DRIVER", "SQLITE_PATH", "MONGO_URI", "MONGO_DATABASE",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET",
	"MINIO_USE_SSL", "MINIO_PUBLIC_URL", "MINIO_PREFIX",
	"NATS_URL", "NATS_SUBJECT_PREFIX",
}

// clearEnv blanks every key and runs the test from an empty directory so no .env is picked up.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "sha256", cfg.PasswordDigest)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "marketplace", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr, "redis is disabled without REDIS_HOST")
	assert.Equal(t, "marketplace-images", cfg.MinIO.Bucket)
	assert.False(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 15*time.Second, cfg.MinIO.Timeout)
	assert.Empty(t, cfg.NATS.URL, "events are disabled without NATS_URL")
	assert.Equal(t, "marketplace", cfg.NATS.SubjectPrefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PASSWORD_DIGEST", "bcrypt")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("IMAGE_STORE_TIMEOUT", "2s")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("NATS_URL", "nats://bus:4222")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "bcrypt", cfg.PasswordDigest)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.MinIO.Timeout)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even to "".
	os.Unsetenv("PORT")
	os.Unsetenv("MINIO_BUCKET")
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("PORT=7070\nMINIO_BUCKET=from-dotenv\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("MINIO_BUCKET")
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-dotenv", cfg.MinIO.Bucket)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "log level", key: "LOG_LEVEL", value: "loud"},
		{name: "cache ttl", key: "CACHE_TTL", value: "soon"},
		{name: "image timeout", key: "IMAGE_STORE_TIMEOUT", value: "10"},
		{name: "minio ssl", key: "MINIO_USE_SSL", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
