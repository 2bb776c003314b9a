package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	DatabaseDSN string

	NowPaymentsBaseURL string
	NowPaymentsAPIKey  string
	PaymentTimeout     time.Duration

	// Pending orders older than this are swept to expired.
	OrderExpiryTTL      time.Duration
	OrderExpiryInterval time.Duration

	// When true, dispute status changes must follow
	// open -> in_progress -> resolved -> closed.
	DisputeStrictTransitions bool

	WebhookRateLimit  int
	WebhookRateWindow time.Duration

	TracingEnabled          bool
	TracingExporterEndpoint string
	TracingExporterProtocol string
	TracingSamplingRatio    float64

	Bootstrap BootstrapConfig
}

// BootstrapConfig controls startup seeding.
type BootstrapConfig struct {
	EnsureDefaultTenantAndAdmin bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from environment variables with defaults
// suitable for local development.
func Load() Config {
	return Config{
		Environment:    getEnv("PEXRY_ENV", "development"),
		ServiceName:    getEnv("PEXRY_SERVICE_NAME", "pexry"),
		ServiceVersion: getEnv("PEXRY_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("PEXRY_HTTP_ADDR", ":8080"),

		DatabaseDSN: getEnv("PEXRY_DATABASE_DSN", "file:pexry.db?_pragma=foreign_keys(1)"),

		NowPaymentsBaseURL: getEnv("NOWPAYMENTS_BASE_URL", "https://api.nowpayments.io/v1"),
		NowPaymentsAPIKey:  getEnv("NOWPAYMENTS_API_KEY", ""),
		PaymentTimeout:     getDuration("PEXRY_PAYMENT_TIMEOUT", 10*time.Second),

		OrderExpiryTTL:      getDuration("PEXRY_ORDER_EXPIRY_TTL", 2*time.Hour),
		OrderExpiryInterval: getDuration("PEXRY_ORDER_EXPIRY_INTERVAL", time.Minute),

		DisputeStrictTransitions: getBool("PEXRY_DISPUTE_STRICT_TRANSITIONS", true),

		WebhookRateLimit:  getInt("PEXRY_WEBHOOK_RATE_LIMIT", 120),
		WebhookRateWindow: getDuration("PEXRY_WEBHOOK_RATE_WINDOW", time.Minute),

		TracingEnabled:          getBool("PEXRY_TRACING_ENABLED", false),
		TracingExporterEndpoint: getEnv("PEXRY_TRACING_ENDPOINT", "localhost:4317"),
		TracingExporterProtocol: getEnv("PEXRY_TRACING_PROTOCOL", "grpc"),
		TracingSamplingRatio:    getFloat("PEXRY_TRACING_SAMPLING_RATIO", 1.0),

		Bootstrap: BootstrapConfig{
			EnsureDefaultTenantAndAdmin: getBool("PEXRY_BOOTSTRAP_DEFAULTS", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
