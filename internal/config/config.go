package config

import (
	"errors"  // For validation errors
	"net/url" // For escaping DSN parameters
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting lists
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// ErrMissingSecret is returned when no token signing secret is configured
var ErrMissingSecret = errors.New("config: ACCESS_TOKEN_SECRET is required")

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBMaxOpenConns  int           // Upper bound of pooled connections
	DBMaxIdleConns  int           // Idle connections kept in the pool
	DBConnLifetime  time.Duration // Maximum lifetime of a pooled connection
	TokenSecret     string        // JWT signing secret
	TokenTTL        time.Duration // JWT lifetime, zero means tokens never expire
	RedisAddr       string        // Redis server address, empty disables caching
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // Lifetime of cached user reads
	CORSOrigins     []string      // Allowed CORS origins, empty allows all
	AccountAttempts int           // Attempts allowed when drawing an account number
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),                          // Application port
		DBUser:          os.Getenv("MYSQL_USER"),                             // Database user
		DBPassword:      os.Getenv("MYSQL_PASSWORD"),                         // Database password
		DBHost:          getEnv("MYSQL_HOST", "127.0.0.1"),                   // Database host
		DBPort:          getEnv("MYSQL_PORT", "3306"),                        // Database port
		DBName:          os.Getenv("MYSQL_DATABASE"),                         // Database name
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 10),                     // Pool size
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 10),                     // Idle pool size
		DBConnLifetime:  getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),  // Connection lifetime
		TokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),                    // JWT secret key
		TokenTTL:        getDuration("ACCESS_TOKEN_TTL", 0),                  // JWT lifetime
		RedisAddr:       os.Getenv("REDIS_ADDR"),                             // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                             // Redis password
		RedisDB:         getInt("REDIS_DB", 0),                               // Redis database number
		CacheTTL:        getDuration("CACHE_TTL", 60*time.Second),            // Cache lifetime
		CORSOrigins:     splitList(os.Getenv("CORS_ORIGINS")),                // CORS origins
		AccountAttempts: getInt("ACCOUNT_NUMBER_ATTEMPTS", 100),              // Account number draws
		IsProd:          os.Getenv("IS_PROD") == "true",                      // Is production environment
	}
}

// Validate checks settings the server cannot run without
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("charset", "utf8mb4")
	params.Set("clientFoundRows", "true") // RowsAffected counts matched rows, not changed ones
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?" + params.Encode()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("90s") or plain seconds ("90")
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
