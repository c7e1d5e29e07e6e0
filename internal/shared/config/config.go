package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Kafka configuration
	Kafka KafkaConfig

	// JWT configuration
	JWT JWTConfig

	// Booking configuration
	Booking BookingConfig

	// Payments configuration
	Payments PaymentsConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL values for different operations
	CacheTTL     time.Duration
	EventLockTTL time.Duration
}

// KafkaConfig holds Kafka configuration for notifications
type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	NotificationTopic string
	ConsumerGroup     string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// BookingConfig holds seat-locking and cancellation rules
type BookingConfig struct {
	// SeatLockTTL is how long a seat lock lives before another
	// requester may reclaim the seat.
	SeatLockTTL time.Duration

	// CancellationWindow is the minimum time before an event's start
	// at which a non-admin user may still cancel a booking.
	CancellationWindow time.Duration

	// SweepInterval controls how often expired seat locks are released
	// in the background. The sweep only keeps counters fresh; locking
	// correctness does not depend on it.
	SweepInterval time.Duration
}

// PaymentsConfig holds payment gateway configuration
type PaymentsConfig struct {
	Secret        string
	WebhookSecret string
	Currency      string
	MerchantVPA   string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool
	WindowDuration  time.Duration
	DefaultRequests int
	PublicRequests  int
	AuthRequests    int
	BookingRequests int
	AdminRequests   int
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "showtix_db"),
			User:     getEnv("DB_USER", "showtix_user"),
			Password: getEnv("DB_PASSWORD", "showtix_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			CacheTTL:     getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
			EventLockTTL: getDurationEnv("REDIS_EVENT_LOCK_TTL", 10*time.Second),
		},

		Kafka: KafkaConfig{
			Enabled:           getBoolEnv("KAFKA_ENABLED", false),
			Brokers:           getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "booking-notifications"),
			ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "showtix-notifications"),
		},

		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn:     getDurationEnv("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getDurationEnv("JWT_REFRESH_EXPIRES_IN", 24*time.Hour),
		},

		Booking: BookingConfig{
			SeatLockTTL:        getDurationEnv("SEAT_LOCK_TTL", 15*time.Minute),
			CancellationWindow: getDurationEnv("CANCELLATION_WINDOW", 24*time.Hour),
			SweepInterval:      getDurationEnv("SEAT_LOCK_SWEEP_INTERVAL", 1*time.Minute),
		},

		Payments: PaymentsConfig{
			Secret:        getEnv("PAYMENT_SECRET", "showtix-payment-secret"),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", "showtix-webhook-secret"),
			Currency:      getEnv("PAYMENT_CURRENCY", "INR"),
			MerchantVPA:   getEnv("PAYMENT_MERCHANT_VPA", "SHOWTIX@UPI"),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in debug mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
