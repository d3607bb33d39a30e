package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Model    ModelConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port      int
	GinMode   string
	StaticDir string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// RedisConfig with an empty Host disables caching and the live feed.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

type ModelConfig struct {
	Backend string
	Path    string
	URL     string
	Timeout time.Duration
}

type MetricsConfig struct {
	Addr string
}

type LogConfig struct {
	Mode string
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtExpiry, err := getIntEnv("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	modelTimeoutMS, err := getIntEnv("MODEL_TIMEOUT_MS", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_TIMEOUT_MS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      serverPort,
			GinMode:   getEnv("GIN_MODE", "debug"),
			StaticDir: getEnv("STATIC_DIR", ""),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       dbPort,
			User:       getEnv("DB_USER", "flightfare"),
			Password:   getEnv("DB_PASSWORD", "flightfare_dev_password"),
			Name:       getEnv("DB_NAME", "flightfare"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "flight_predictions.db"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "flightfare-dev-secret"),
			ExpiryHours: jwtExpiry,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Model: ModelConfig{
			Backend: getEnv("MODEL_BACKEND", "linear"),
			Path:    getEnv("MODEL_PATH", "model/flight_price.yaml"),
			URL:     getEnv("MODEL_URL", ""),
			Timeout: time.Duration(modelTimeoutMS) * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Addr: metricsAddr(getEnv("METRICS_ADDR", ":9090")),
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "dev"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want postgres or sqlite", c.Database.Driver)
	}
	switch c.Model.Backend {
	case "linear":
	case "remote":
		if c.Model.URL == "" {
			return fmt.Errorf("MODEL_URL is required when MODEL_BACKEND=remote")
		}
	default:
		return fmt.Errorf("invalid MODEL_BACKEND %q: want linear or remote", c.Model.Backend)
	}
	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	return nil
}

// metricsAddr maps "off" to an empty address, which disables the listener.
func metricsAddr(v string) string {
	if v == "off" {
		return ""
	}
	return v
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
