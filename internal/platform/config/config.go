package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Payment providers.
const (
	ProviderStripe = "stripe"
	ProviderDev    = "dev"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	BaseURL         string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// TrustedProxies is the number of reverse proxies in front of the server
	// that append to X-Forwarded-For. Zero ignores forwarding headers.
	TrustedProxies int

	Directory DirectoryConfig
	Letter    LetterConfig
	Payment   PaymentConfig
	Download  DownloadConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig

	// AdminTokenHash is the bcrypt hash of the operator token. Empty disables /admin.
	AdminTokenHash string
}

// DirectoryConfig selects the address dataset.
type DirectoryConfig struct {
	Variant string
	File    string // overrides Variant when set
}

// LetterConfig tunes the letter renderer.
type LetterConfig struct {
	LanguagePolicy string // "german", "by-canton", or "" to follow the directory
	PayrollPage    bool
}

// PaymentConfig selects and configures the payment provider.
type PaymentConfig struct {
	Provider        string
	StripeSecretKey string
	StripePriceID   string
	AmountCents     int64
	Currency        string
}

// DownloadConfig configures signed download links.
type DownloadConfig struct {
	TokenKey string
	TokenTTL time.Duration
}

// RateLimitConfig bounds checkout creation per client IP.
type RateLimitConfig struct {
	CheckoutLimit  int
	CheckoutWindow time.Duration
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional audit database.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the optional audit stream.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	Partitions        int32
	ReplicationFactor int16
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            envOr("SWISSSHIELD_ADDR", ":8080"),
		BaseURL:         strings.TrimRight(envOr("BASE_URL", "http://localhost:8080"), "/"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		TrustedProxies:  envInt("TRUSTED_PROXIES", 0),
		Directory: DirectoryConfig{
			Variant: envOr("DIRECTORY_VARIANT", "german"),
			File:    os.Getenv("DIRECTORY_FILE"),
		},
		Letter: LetterConfig{
			LanguagePolicy: os.Getenv("LETTER_LANGUAGE_POLICY"),
			PayrollPage:    envBool("LETTER_PAYROLL_PAGE", true),
		},
		Payment: PaymentConfig{
			// dev marks sessions paid without charging, so it is never the default.
			Provider:        envOr("PAYMENT_PROVIDER", ProviderStripe),
			StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
			StripePriceID:   os.Getenv("STRIPE_PRICE_ID"),
			AmountCents:     int64(envInt("PAYMENT_AMOUNT_CENTS", 990)),
			Currency:        envOr("PAYMENT_CURRENCY", "chf"),
		},
		Download: DownloadConfig{
			// Use a default for development - must be overridden in production
			TokenKey: envOr("DOWNLOAD_TOKEN_KEY", "dev-download-key-change-in-production"),
			TokenTTL: envDuration("DOWNLOAD_TOKEN_TTL", 30*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			CheckoutLimit:  envInt("CHECKOUT_RATE_LIMIT", 10),
			CheckoutWindow: envDuration("CHECKOUT_RATE_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			AuditTopic:        envOr("KAFKA_AUDIT_TOPIC", "swissshield.audit"),
			Partitions:        int32(envInt("KAFKA_AUDIT_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("KAFKA_AUDIT_REPLICATION", 1)),
		},
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}
}

// Validate reports configuration that cannot work.
func (s Server) Validate() error {
	var errs []error
	switch s.Payment.Provider {
	case ProviderDev:
	case ProviderStripe:
		if s.Payment.StripeSecretKey == "" {
			errs = append(errs, errors.New("STRIPE_SECRET_KEY is required for the stripe provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PAYMENT_PROVIDER %q", s.Payment.Provider))
	}
	if s.Download.TokenKey == "" {
		errs = append(errs, errors.New("DOWNLOAD_TOKEN_KEY must not be empty"))
	}
	if s.TrustedProxies < 0 {
		errs = append(errs, errors.New("TRUSTED_PROXIES must not be negative"))
	}
	if s.RateLimit.CheckoutLimit <= 0 || s.RateLimit.CheckoutWindow <= 0 {
		errs = append(errs, errors.New("checkout rate limit and window must be positive"))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
