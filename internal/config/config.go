package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Support  SupportConfig
	CORS     CORSConfig
	Timezone string
	NodeID   int64
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	Driver string // sqlite or mysql
	DSN    string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	AdminUsername string // bootstrap account created when no users exist
	AdminPassword string
}

// SupportConfig carries the threshold used when no support config row is active
type SupportConfig struct {
	FallbackMaxSalary decimal.Decimal
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	fallback, err := getEnvAsDecimal("SUPPORT_FALLBACK_MAX_SALARY", decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: loadDatabase(),
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Support: SupportConfig{
			FallbackMaxSalary: fallback,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Timezone: getEnv("TIMEZONE", "Africa/Addis_Ababa"),
		NodeID:   int64(getEnvAsInt("NODE_ID", 1)),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}

	if c.Support.FallbackMaxSalary.IsNegative() {
		return fmt.Errorf("SUPPORT_FALLBACK_MAX_SALARY must not be negative")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	// snowflake nodes are 10 bits
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be between 0 and 1023")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// LoadDatabase reads only the database settings, for tools that do not serve HTTP
func LoadDatabase() (DatabaseConfig, error) {
	cfg := loadDatabase()
	if err := cfg.Validate(); err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DSN:    getEnv("DB_DSN", "cafeteria.db"),
	}
}

// Validate checks the driver name and DSN
func (d DatabaseConfig) Validate() error {
	if d.Driver != "sqlite" && d.Driver != "mysql" {
		return fmt.Errorf("invalid DB_DRIVER: %s (must be sqlite or mysql)", d.Driver)
	}
	if d.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if d.Driver == "mysql" {
		dsn, err := mysql.ParseDSN(d.DSN)
		if err != nil {
			return fmt.Errorf("invalid DB_DSN: %w", err)
		}
		// DATETIME columns only scan into time.Time with parseTime
		if !dsn.ParseTime {
			return fmt.Errorf("DB_DSN for mysql must set parseTime=true")
		}
	}
	return nil
}

// TokenTTL returns the access token lifetime
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
