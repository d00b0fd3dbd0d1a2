// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/dashcore/risk"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = goerr.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Log      LogConfig
	Risk     RiskConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds connection settings for postgres or sqlite.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string `masq:"secret"`
	DBName     string
	SSLMode    string
	SQLitePath string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
}

type LogConfig struct {
	Level  string
	Format string
}

// RiskConfig parameterizes contract risk detection.
type RiskConfig struct {
	HighValueThreshold string
	ExpiryWindowDays   int
	RequiredCompliance []string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Rules converts the risk section into detector rules.
func (r RiskConfig) Rules() (risk.Rules, error) {
	threshold, err := decimal.NewFromString(r.HighValueThreshold)
	if err != nil {
		return risk.Rules{}, goerr.Wrap(ErrInvalidConfig, "RISK_HIGH_VALUE_THRESHOLD is not a number",
			goerr.V("value", r.HighValueThreshold))
	}
	rules := risk.Rules{
		HighValueThreshold: threshold,
		ExpiryWindow:       time.Duration(r.ExpiryWindowDays) * 24 * time.Hour,
		RequiredCompliance: r.RequiredCompliance,
	}
	if err := rules.Validate(); err != nil {
		return risk.Rules{}, goerr.Wrap(err, "invalid risk rules")
	}
	return rules, nil
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "dashcore"),
			Password:   getEnv("DB_PASSWORD", "dashcore"),
			DBName:     getEnv("DB_NAME", "dashcore"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "dashcore.db"),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Risk: RiskConfig{
			HighValueThreshold: getEnv("RISK_HIGH_VALUE_THRESHOLD", "100000"),
			ExpiryWindowDays:   getEnvInt("RISK_EXPIRY_WINDOW_DAYS", 30),
			RequiredCompliance: getEnvList("RISK_REQUIRED_COMPLIANCE", []string{"gdpr"}),
		},
	}
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return goerr.Wrap(ErrInvalidConfig, "unsupported DB_DRIVER", goerr.V("driver", c.Database.Driver))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return goerr.Wrap(ErrInvalidConfig, "unsupported LOG_FORMAT", goerr.V("format", c.Log.Format))
	}
	if _, err := c.Risk.Rules(); err != nil {
		return err
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
