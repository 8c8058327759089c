package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingMongoURI = errors.New("MONGO_URI is not set")

type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MongoConfig база бэкенда с заказами и отзывами
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// DatabaseConfig Postgres с таблицами products/reviews; пустой URL: in-memory
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type StorageConfig struct {
	UploadsDir    string
	PublicBaseURL string
	// StateDir каталог локального состояния (корзины, сессии); пустой: память
	StateDir string
}

type AuthConfig struct {
	JWTSecret         string
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

type CatalogConfig struct {
	// Source fixture | remote
	Source string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load читает окружение (и .env, если есть); MONGO_URI обязателен
func Load() (*Config, error) {
	cfg, err := LoadLocal()
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.URI == "" {
		return nil, ErrMissingMongoURI
	}
	return cfg, nil
}

// LoadLocal то же без требования MONGO_URI: для миграций, синхронизации и экспорта
func LoadLocal() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "storefront"),
			Timeout:  getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Storage: StorageConfig{
			UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "/uploads"),
			StateDir:      os.Getenv("STATE_DIR"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "change-me"),
			AdminEmail:        getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Catalog: CatalogConfig{
			Source: getEnv("CATALOG_SOURCE", "fixture"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
	}

	switch cfg.Catalog.Source {
	case "fixture", "remote":
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE: unknown source %q", cfg.Catalog.Source)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}
