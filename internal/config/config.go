package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string
	GinMode string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	SessionSecret string
	SessionStore  string

	JWTSecret        string
	JWTIssuer        string
	TokenTTL         time.Duration
	IdPIssuer        string
	IdPAudience      string
	IdPPublicKeyFile string

	OpenAIAPIKey string

	UploadDir      string
	PublicBaseURL  string
	MaxUploadBytes int64

	RateLimitPerMinute int
	RateLimitBackend   string

	UsernameRepairInterval time.Duration
	LogLevel               string
}

func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "pmuser"),
		DBPassword: getEnv("DB_PASSWORD", "pmpassword"),
		DBName:     getEnv("DB_NAME", "project_management"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		SessionStore:  getEnv("SESSION_STORE", "redis"),

		JWTSecret:        getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		JWTIssuer:        getEnv("JWT_ISSUER", "project-management-api"),
		TokenTTL:         getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		IdPIssuer:        getEnv("IDP_ISSUER", ""),
		IdPAudience:      getEnv("IDP_AUDIENCE", ""),
		IdPPublicKeyFile: getEnv("IDP_PUBLIC_KEY_FILE", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10*1024*1024)),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBackend:   getEnv("RATE_LIMIT_BACKEND", "memory"),

		UsernameRepairInterval: getEnvAsDuration("USERNAME_REPAIR_INTERVAL", time.Hour),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate checks for settings the server cannot run without.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "redis", "cookie":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.RateLimitBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be greater than 0")
	}
	if c.IdPIssuer != "" && c.IdPPublicKeyFile == "" {
		return errors.New("IDP_PUBLIC_KEY_FILE is required when IDP_ISSUER is set")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
