// Package config loads the server configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"marketplace_backend/internal/platform/db"
	"marketplace_backend/internal/platform/imagestore"
	"marketplace_backend/internal/platform/mongo"
	"marketplace_backend/internal/platform/redis"
)

// NATS holds the event publisher settings. An empty URL disables events.
type NATS struct {
	URL           string
	SubjectPrefix string
}

// Config is the full server configuration.
type Config struct {
	Port           string
	LogLevel       slog.Level
	PasswordDigest string
	CacheTTL       time.Duration

	DB    db.Config
	Mongo mongo.Config
	Redis redis.Config
	MinIO imagestore.Config
	NATS  NATS
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, relying on environment variables", "error", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cacheTTL, err := getDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	imageTimeout, err := getDuration("IMAGE_STORE_TIMEOUT", imagestore.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	minioSSL, err := getBool("MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       level,
		PasswordDigest: getEnv("PASSWORD_DIGEST", "sha256"),
		CacheTTL:       cacheTTL,
		DB:             db.LoadConfigFromEnv(),
		Mongo: mongo.Config{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "marketplace"),
		},
		Redis: redis.Config{
			Addr:     redisAddr(),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		MinIO: imagestore.Config{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "marketplace-images"),
			UseSSL:    minioSSL,
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
			Prefix:    os.Getenv("MINIO_PREFIX"),
			Timeout:   imageTimeout,
		},
		NATS: NATS{
			URL:           os.Getenv("NATS_URL"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "marketplace"),
		},
	}
	return cfg, nil
}

// redisAddr returns REDIS_HOST:REDIS_PORT, or "" when REDIS_HOST is unset.
func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return ""
	}
	return host + ":" + getEnv("REDIS_PORT", "6379")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}
