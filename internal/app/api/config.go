package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	cateringserver "github.com/Apurer/catering-api/go"
	"github.com/Apurer/catering-api/internal/platform/kafka"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	BasePath           string
	PostgresDSN        string
	RedisAddr          string
	SettingsCacheTTL   time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
	TemporalAddress    string
	TemporalNamespace  string
	TemporalDisabled   bool
	JWTSecret          string
	AuthRequired       bool
	SessionTTL         time.Duration
	PublicBaseURL      string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	BootstrapEmail     string
	BootstrapPassword  string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		BasePath:           envDefault("API_BASE_PATH", cateringserver.DefaultBasePath),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SettingsCacheTTL:   5 * time.Minute,
		KafkaBrokers:       kafka.Brokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         envDefault("KAFKA_TOPIC", kafka.DefaultTopic),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AuthRequired:       isTruthy(os.Getenv("AUTH_REQUIRED")),
		SessionTTL:         24 * time.Hour,
		PublicBaseURL:      strings.TrimRight(envDefault("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: splitList(envDefault("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute: 60,
		BootstrapEmail:     strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
		BootstrapPassword:  os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
	if !strings.HasPrefix(cfg.BasePath, "/") {
		cfg.BasePath = "/" + cfg.BasePath
	}
	seconds, err := positiveInt("SETTINGS_CACHE_TTL_SECONDS")
	if err != nil {
		return Config{}, err
	}
	if seconds > 0 {
		cfg.SettingsCacheTTL = time.Duration(seconds) * time.Second
	}
	hours, err := positiveInt("SESSION_TTL_HOURS")
	if err != nil {
		return Config{}, err
	}
	if hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	perMinute, err := positiveInt("RATE_LIMIT_PER_MINUTE")
	if err != nil {
		return Config{}, err
	}
	if perMinute > 0 {
		cfg.RateLimitPerMinute = perMinute
	}
	if cfg.AuthRequired && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required when AUTH_REQUIRED is enabled")
	}
	if (cfg.BootstrapEmail == "") != (cfg.BootstrapPassword == "") {
		return Config{}, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// positiveInt returns 0 when key is unset.
func positiveInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
