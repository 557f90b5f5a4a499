// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/listenupapp/bookcatalog/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig       `json:"app"`
	Logger    LoggerConfig    `json:"logger"`
	Server    ServerConfig    `json:"server"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Catalog   CatalogConfig   `json:"catalog"`
	GraphQL   GraphQLConfig   `json:"graphql"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `json:"environment" validate:"required,oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `json:"level" validate:"required,oneof=debug info warn error"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host           string        `json:"host" validate:"required"`
	Port           int           `json:"port" validate:"gte=1,lte=65535"`
	ReadTimeout    time.Duration `json:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `json:"write_timeout" validate:"gt=0"`
	IdleTimeout    time.Duration `json:"idle_timeout" validate:"gt=0"`
	AllowedOrigins []string      `json:"allowed_origins" validate:"min=1,dive,required"`
}

// RateLimitConfig holds per-client request limits. RPS of zero disables
// limiting.
type RateLimitConfig struct {
	RPS   float64 `json:"rps" validate:"gte=0"`
	Burst int     `json:"burst" validate:"gte=1"`
}

// Enabled reports whether requests are rate limited.
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

// CatalogConfig selects and prepares the catalog store.
type CatalogConfig struct {
	// Backend is "memory" or "badger" (in-memory badger).
	Backend string `json:"backend" validate:"required,oneof=memory badger"`
	// Seed loads the two initial books at startup (default: true).
	Seed bool `json:"seed"`
}

// GraphQLConfig holds GraphQL endpoint configuration.
type GraphQLConfig struct {
	Introspection bool `json:"introspection"`
}

// Addr returns the address the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the base URL clients connect to.
func (c ServerConfig) URL() string {
	return fmt.Sprintf("http://%s:%d/", c.Host, c.Port)
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("bookcatalog", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	env := flags.String("env", "", "Environment (development, staging, production)")
	logLevel := flags.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	host := flags.String("host", "", "Server host (default: localhost)")
	port := flags.String("port", "", "Server port (default: 4000)")
	readTimeout := flags.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flags.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flags.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flags.String("cors-origins", "", "Comma separated CORS origins (default: *)")

	rateLimitRPS := flags.String("rate-limit-rps", "", "Requests per second per client, 0 disables (default: 0)")
	rateLimitBurst := flags.String("rate-limit-burst", "", "Rate limit burst (default: 20)")

	catalogBackend := flags.String("catalog-backend", "", "Catalog store: memory or badger (default: memory)")
	catalogSeed := flags.String("catalog-seed", "", "Seed the catalog with the initial books (default: true)")
	introspection := flags.String("introspection", "", "Enable GraphQL introspection (default: true)")

	envFile := flags.String("env-file", ".env", "Path to .env file")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists. Variables already set win over the file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
		},
		Server: ServerConfig{
			Host:           getConfigValue(*host, "SERVER_HOST", "localhost"),
			AllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Catalog: CatalogConfig{
			Backend: strings.ToLower(getConfigValue(*catalogBackend, "CATALOG_BACKEND", "memory")),
			Seed:    getBoolConfigValue(*catalogSeed, "CATALOG_SEED", true),
		},
		GraphQL: GraphQLConfig{
			Introspection: getBoolConfigValue(*introspection, "GRAPHQL_INTROSPECTION", true),
		},
	}

	var err error
	if cfg.Server.Port, err = getIntConfigValue(*port, "SERVER_PORT", 4000); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if cfg.RateLimit.RPS, err = getFloatConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", 0); err != nil {
		return nil, fmt.Errorf("invalid rate limit rps: %w", err)
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, fmt.Errorf("invalid rate limit burst: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable (including those loaded from .env).
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer", envKey, strValue)
	}
	return n, nil
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number", envKey, strValue)
	}
	return f, nil
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, strValue, err)
	}
	return d, nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
