package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	JWTSecret                 string
	JWTRefreshSecret          string
	CookieSecret              string
	Database                  DatabaseConfig
	Auth                      AuthConfig
	Redis                     RedisConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	SecureCookies             bool
	AppURL                    string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string // "mysql" or "sqlite"
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	File     string // sqlite only
	DSN      string
}

// AuthConfig selects the identity-resolution strategy at startup.
// Mode "token" validates bearer JWTs; mode "static" resolves every
// request to StaticEmail (local development and tests only).
type AuthConfig struct {
	Mode        string
	StaticEmail string
}

// RedisConfig holds the optional pub/sub bridge address. An empty Addr
// disables cross-instance fan-out.
type RedisConfig struct {
	Addr string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "campuslink"),
		File:     getEnv("DB_FILE", "campuslink.db"),
	}

	switch dbConfig.Driver {
	case "mysql":
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "sqlite":
		dbConfig.DSN = dbConfig.File
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", dbConfig.Driver)
	}

	authConfig := AuthConfig{
		Mode:        getEnv("AUTH_MODE", "token"),
		StaticEmail: getEnv("AUTH_STATIC_EMAIL", "dev@campuslink.com"),
	}
	if authConfig.Mode != "token" && authConfig.Mode != "static" {
		return nil, fmt.Errorf("unsupported AUTH_MODE: %s", authConfig.Mode)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	secureCookies, err := strconv.ParseBool(getEnv("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIES: %w", err)
	}

	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:3000"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		CookieSecret:              getEnv("COOKIE_SECRET", "default_cookie_secret"),
		Database:                  dbConfig,
		Auth:                      authConfig,
		Redis:                     RedisConfig{Addr: getEnv("REDIS_ADDR", "")},
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		SecureCookies:             secureCookies,
		AppURL:                    getEnv("APP_URL", "http://localhost:3001"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
