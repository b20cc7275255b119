package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	ServiceName    string
	BuildNumber    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Rendering
	ViewsPath  string
	AssetsPath string

	// Origins allowed to call the /ui JSON endpoints
	AllowedOrigins []string

	// Session configuration
	Session SessionConfig

	// Redis configuration
	Redis RedisConfig

	// Database configuration (only used by the postgres session store)
	Database DatabaseConfig

	// Downstream APIs
	APIs APIConfig

	// Auth configuration
	Auth AuthConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Tracking events
	Tracking TrackingConfig

	// Logging
	LogLevel string
}

// SessionConfig holds HTTP session configuration
type SessionConfig struct {
	Store      string // redis, postgres or memory
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL values for different operations
	CacheTTL time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// APIConfig holds the downstream REST API endpoints
type APIConfig struct {
	ActivitiesURL     string
	PrisonerSearchURL string
	Timeout           time.Duration
}

// AuthConfig holds user token verification settings
type AuthConfig struct {
	TokenSecret   string
	TokenHeader   string
	SignInURL     string
	Enabled       bool
	DefaultPrison string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	JourneyRequests int           `json:"journey_requests"`
	SearchRequests  int           `json:"search_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// TrackingConfig holds Kafka configuration for tracking events
type TrackingConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "3000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ServiceName:    getEnv("SERVICE_NAME", "activities-ui"),
		BuildNumber:    getEnv("BUILD_NUMBER", "dev"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		ViewsPath:  getEnv("VIEWS_PATH", "./views"),
		AssetsPath: getEnv("ASSETS_PATH", "./assets"),

		AllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{}),

		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", "redis")),
			CookieName: getEnv("SESSION_COOKIE_NAME", "activities.session"),
			Secure:     getBoolEnv("SESSION_COOKIE_SECURE", false),
			TTL:        getDurationEnv("SESSION_TTL", 2*time.Hour),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
		},

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "activities_ui"),
			User:     getEnv("DB_USER", "activities_ui"),
			Password: getEnv("DB_PASSWORD", "activities_ui"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		APIs: APIConfig{
			ActivitiesURL:     strings.TrimRight(getEnv("ACTIVITIES_API_URL", "http://localhost:8080"), "/"),
			PrisonerSearchURL: strings.TrimRight(getEnv("PRISONER_SEARCH_API_URL", "http://localhost:8082"), "/"),
			Timeout:           getDurationEnv("API_TIMEOUT", 20*time.Second),
		},

		Auth: AuthConfig{
			TokenSecret:   getEnv("TOKEN_SECRET", "local-development-secret"),
			TokenHeader:   getEnv("TOKEN_HEADER", "Authorization"),
			SignInURL:     getEnv("SIGN_IN_URL", "/sign-in"),
			Enabled:       getBoolEnv("AUTH_ENABLED", true),
			DefaultPrison: getEnv("DEFAULT_PRISON", "MDI"),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", false),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 300),
			JourneyRequests: getIntEnv("RATE_LIMIT_JOURNEY_REQUESTS", 120),
			SearchRequests:  getIntEnv("RATE_LIMIT_SEARCH_REQUESTS", 60),
			HealthRequests:  getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 600),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Tracking: TrackingConfig{
			Brokers:  getStringSliceEnv("KAFKA_BROKERS", []string{}),
			Topic:    getEnv("TRACKING_TOPIC", "activities-ui-events"),
			ClientID: getEnv("KAFKA_CLIENT_ID", "activities-ui"),
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),
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

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// TrackingEnabled reports whether tracking events go to Kafka
func (c *Config) TrackingEnabled() bool {
	return len(c.Tracking.Brokers) > 0
}
