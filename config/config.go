package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	ServerPort       int
	DBConnectTimeout time.Duration
	AutoMigrate      bool

	CORSAllowedOrigins      []string
	RoundRateLimitPerMinute int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ArchiveEnabled reports whether round snapshots should be uploaded to R2.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != ""
}

// Load reads the configuration from the environment, loading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	timeout := 5 * time.Second
	if raw := os.Getenv("DB_CONNECT_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
		}
	}

	autoMigrate := false
	if raw := os.Getenv("AUTO_MIGRATE"); raw != "" {
		autoMigrate, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_MIGRATE environment variable: %w", err)
		}
	}

	rateLimit, err := intFromEnv("ROUND_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	if rateLimit < 1 {
		return nil, fmt.Errorf("ROUND_RATE_LIMIT_PER_MINUTE must be positive, got %d", rateLimit)
	}

	cfg := &Config{
		DatabaseURL:             dbURL,
		ServerPort:              port,
		DBConnectTimeout:        timeout,
		AutoMigrate:             autoMigrate,
		CORSAllowedOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RoundRateLimitPerMinute: rateLimit,
		R2AccountID:             os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:           os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:       os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:            os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:         os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	r2Fields := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, f := range r2Fields {
		if f != "" {
			set++
		}
	}
	if set != 0 && set != len(r2Fields) {
		return nil, fmt.Errorf("R2 archive configuration is partial: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
