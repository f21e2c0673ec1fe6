package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// InsecureDefaultSigningKey is used when SIGNING_KEY is unset. Running a
// production deployment on it is a misconfiguration and is logged as such.
const InsecureDefaultSigningKey = "assetly-dev-signing-key"

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	DatabaseURL          string
	SigningKey           string
	TokenTTL             time.Duration
	BcryptCost           int
	AlertThreshold       int
	ServiceName          string
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
	BootstrapAdminEmail  string
	BootstrapAdminPass   string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SigningKey:           getEnv("SIGNING_KEY", InsecureDefaultSigningKey),
		TokenTTL:             getDuration("TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:           getInt("BCRYPT_COST", 10),
		AlertThreshold:       getInt("ALERT_THRESHOLD", 3),
		ServiceName:          getEnv("SERVICE_NAME", "assetly-auth"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
		BootstrapAdminEmail:  getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@assetly.local"),
		BootstrapAdminPass:   os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.BcryptCost < 10 {
		cfg.BcryptCost = 10
	}
	if cfg.AlertThreshold < 1 {
		cfg.AlertThreshold = 3
	}

	return cfg, nil
}

// Production reports whether the service runs with the production profile.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// InsecureSigningKey reports whether the process fell back to the
// development signing key.
func (c Config) InsecureSigningKey() bool {
	return c.SigningKey == InsecureDefaultSigningKey
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
