package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                  string
	Port                    string
	DatabaseURL             string
	DBMaxConns              int
	DBMinConns              int
	MigrationsDir           string
	JWTSecret               string
	TokenTTL                time.Duration
	UploadDir               string
	RedisAddr               string
	NATSURL                 string
	MinioEndpoint           string
	MinioAccessKey          string
	MinioSecretKey          string
	MinioBucket             string
	MinioUseSSL             bool
	LogisticsTerminalStates bool
	AllowedOrigins          []string
	HTTPReadTimeout         time.Duration
	HTTPWriteTimeout        time.Duration
	HTTPIdleTimeout         time.Duration
	RateLimitPerMin         int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                  getEnv("APP_ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		DBMaxConns:              getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:              getEnvInt("DB_MIN_CONNS", 1),
		MigrationsDir:           getEnv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		TokenTTL:                time.Hour * time.Duration(getEnvInt("TOKEN_TTL_HOURS", 168)),
		UploadDir:               getEnv("UPLOAD_DIR", "uploads"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		NATSURL:                 os.Getenv("NATS_URL"),
		MinioEndpoint:           os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:          os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:          os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:             getEnv("MINIO_BUCKET", "sharecircle-media"),
		MinioUseSSL:             getEnvBool("MINIO_USE_SSL", false),
		LogisticsTerminalStates: getEnvBool("LOGISTICS_TERMINAL_STATES", true),
		AllowedOrigins:          []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		HTTPReadTimeout:         time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:        time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:         time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:         getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
