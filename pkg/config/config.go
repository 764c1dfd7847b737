package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	Port        string
	Environment string

	// External collaborators
	ETendersBaseURL string
	AIAPIKey        string
	AIBaseURL       string
	AIModel         string

	// Cache configuration
	ScoreCacheTTL   time.Duration
	SummaryCacheTTL time.Duration

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		ETendersBaseURL: getEnv("ETENDERS_BASE_URL", "https://ocds-api.etenders.gov.za"),
		AIAPIKey:        getEnv("AI_API_KEY", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		AIModel:         getEnv("AI_MODEL", "gpt-4o-mini"),

		ScoreCacheTTL:   time.Duration(getEnvAsInt("SCORE_CACHE_TTL_SECONDS", 300)) * time.Second,
		SummaryCacheTTL: time.Duration(getEnvAsInt("SUMMARY_CACHE_TTL_SECONDS", 86400)) * time.Second,

		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasRedis returns true if a Redis cache backend is configured
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// HasAICredentials returns true if the summarization model is configured
func (c *Config) HasAICredentials() bool {
	return c.AIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{
			"https://app.tenderinsighthub.co.za",
			"https://www.tenderinsighthub.co.za",
		}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{} // No trusted proxies by default
	}
	return strings.Split(c.TrustedProxies, ",")
}
