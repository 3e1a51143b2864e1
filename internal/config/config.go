// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port               int
	Host               string
	MetricsEnabled     bool
	RequestTimeout     time.Duration
	UploadTimeout      time.Duration
	EnginePoolSize     int
	RateLimitPerMinute int
	MaxUploadBytes     int64
}

// DatabaseConfig holds database configuration settings
type DatabaseConfig struct {
	Type string // "mongo" or "memory"
	URI  string
	Name string
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// StorageConfig holds object storage settings for uploaded media
type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	PublicURL   string
	VideoBucket string
	ImageBucket string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	Storage        *StorageConfig
	Log            *LogConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:               8080,
		Host:               "0.0.0.0",
		MetricsEnabled:     true,
		RequestTimeout:     5 * time.Second,
		UploadTimeout:      5 * time.Minute,
		EnginePoolSize:     4,
		RateLimitPerMinute: 300,
		MaxUploadBytes:     512 << 20,
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: "mongo",
		Name: "videotube",
	}
}

// DefaultStorageConfig provides default object storage settings
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Endpoint:    "localhost:9000",
		PublicURL:   "http://localhost:9000",
		VideoBucket: "videos",
		ImageBucket: "thumbnails",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",
		"../../.env", // Project root when running from cmd/server
		filepath.Join(os.Getenv("GOPATH"), "src/videotube/.env"),
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		// A missing .env is fine, the environment may already be populated
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()
	serverConfig.Port = getEnvInt("PORT", serverConfig.Port)
	serverConfig.Host = getEnvOrDefault("HOST", serverConfig.Host)
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}
	serverConfig.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", serverConfig.RequestTimeout)
	serverConfig.UploadTimeout = getEnvDuration("UPLOAD_TIMEOUT", serverConfig.UploadTimeout)
	serverConfig.EnginePoolSize = getEnvInt("ENGINE_POOL_SIZE", serverConfig.EnginePoolSize)
	serverConfig.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", serverConfig.RateLimitPerMinute)
	if mb := getEnvInt("MAX_UPLOAD_MB", 0); mb > 0 {
		serverConfig.MaxUploadBytes = int64(mb) << 20
	}

	debug := os.Getenv("DEBUG") == "true"

	dbConfig := DefaultDatabaseConfig()
	dbConfig.Type = getEnvOrDefault("DB_TYPE", dbConfig.Type)
	dbConfig.Name = getEnvOrDefault("DB_NAME", dbConfig.Name)
	switch dbConfig.Type {
	case "mongo":
		dbConfig.URI = os.Getenv("MONGODB_URI")
		if dbConfig.URI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required when DB_TYPE is mongo")
		}
	case "memory":
		// In-process store, nothing to connect to
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q, expected mongo or memory", dbConfig.Type)
	}

	authConfig := &AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Issuer:    getEnvOrDefault("TOKEN_ISSUER", "videotube-api"),
	}
	if authConfig.JWTSecret == "" {
		if !debug {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required")
		}
		authConfig.JWTSecret = "videotube-debug-secret"
	}

	storageConfig := DefaultStorageConfig()
	storageConfig.Endpoint = getEnvOrDefault("MINIO_ENDPOINT", storageConfig.Endpoint)
	storageConfig.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	storageConfig.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	storageConfig.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"
	storageConfig.PublicURL = strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", storageConfig.PublicURL), "/")
	storageConfig.VideoBucket = getEnvOrDefault("MINIO_VIDEO_BUCKET", storageConfig.VideoBucket)
	storageConfig.ImageBucket = getEnvOrDefault("MINIO_IMAGE_BUCKET", storageConfig.ImageBucket)

	logConfig := &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
	if debug && os.Getenv("LOG_FORMAT") == "" {
		logConfig.Format = "console"
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Auth:           authConfig,
		Storage:        storageConfig,
		Log:            logConfig,
		AllowedOrigins: []string{"*"},
		Debug:          debug,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = splitAndTrim(origins)
	}

	return config, nil
}

// Address is the host:port the HTTP server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Invalid or non-positive numbers keep the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
