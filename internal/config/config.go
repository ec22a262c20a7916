package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxUploadBytes is the upload size limit used when CDN_MAX_UPLOAD_BYTES is unset (100 MiB).
const DefaultMaxUploadBytes int64 = 100 << 20

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Storage StorageConfig
	Log     LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	BaseURL         string
	GinMode         string
	ShutdownTimeout time.Duration
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are honoured.
	// Empty means none.
	TrustedProxies []string
}

// AuthConfig holds the shared secret expected in the Bearer header of uploads
type AuthConfig struct {
	Secret string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// StorageConfig describes where uploads live and what is accepted
type StorageConfig struct {
	UploadDir      string
	MaxUploadBytes int64
	// StrictContent enables magic-number verification of image uploads.
	StrictContent bool
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnvOrDefault("CDN_PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid CDN_PORT: %w", err)
	}

	maxUpload, err := strconv.ParseInt(getEnvOrDefault("CDN_MAX_UPLOAD_BYTES", strconv.FormatInt(DefaultMaxUploadBytes, 10)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CDN_MAX_UPLOAD_BYTES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            serverPort,
			BaseURL:         strings.TrimRight(getEnvOrDefault("CDN_BASE_URL", fmt.Sprintf("http://localhost:%d", serverPort)), "/"),
			GinMode:         getEnvOrDefault("GIN_MODE", "release"),
			ShutdownTimeout: time.Duration(getIntOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
			TrustedProxies:  parseCommaSeparated(os.Getenv("TRUSTED_PROXIES")),
		},
		Auth: AuthConfig{
			Secret: getEnvOrDefault("CDN_SECRET", "your-secret-token"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
			AllowedMethods:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_METHODS", "GET,HEAD,POST,OPTIONS")),
			AllowedHeaders:   parseCommaSeparated(getEnvOrDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization")),
			AllowCredentials: getBoolOrDefault("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getIntOrDefault("CORS_MAX_AGE", 3600),
		},
		Storage: StorageConfig{
			UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: maxUpload,
			StrictContent:  getBoolOrDefault("CDN_STRICT_CONTENT", false),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("CDN_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("CDN_SECRET is required")
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("CDN_MAX_UPLOAD_BYTES must be positive, got %d", c.Storage.MaxUploadBytes)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode)
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid CDN_BASE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CDN_BASE_URL must be an absolute URL, got %q", c.Server.BaseURL)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaskedSecret returns the first few characters of the secret followed by an ellipsis,
// suitable for startup logs.
func (c *AuthConfig) MaskedSecret() string {
	const visible = 4
	if len(c.Secret) <= visible {
		return "..."
	}
	return c.Secret[:visible] + "..."
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntOrDefault returns the integer value of an environment variable or a default value
func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolOrDefault returns the boolean value of an environment variable or a default value
func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings
func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
