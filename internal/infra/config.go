package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	DBMaxConns  int
	JWTSecret   string

	// Work queue. JobTimeout must exceed the slowest expected generation run;
	// heavyweight text-to-3D jobs can take on the order of an hour.
	AMQPURL    string
	QueueName  string
	JobTimeout time.Duration

	// Object storage.
	StorageDriver  string // "minio" or "filesystem"
	StoragePath    string
	StorageBaseURL string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool
	PresignExpiry  time.Duration

	// Generation tool commands (wrapper CLIs).
	SF3DCommand        string
	DreamFusionCommand string

	WorkerConcurrency int
	GeoIPDBPath       string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		AMQPURL:    os.Getenv("AMQP_URL"),
		QueueName:  getEnv("QUEUE_NAME", "generation-jobs"),
		JobTimeout: time.Minute * time.Duration(getEnvInt("JOB_TIMEOUT_MINUTES", 90)),

		StorageDriver:  getEnv("STORAGE_DRIVER", "minio"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "generation-artifacts"),
		MinioSecure:    getEnvBool("MINIO_SECURE", false),
		PresignExpiry:  time.Second * time.Duration(getEnvInt("PRESIGN_EXPIRY_SECONDS", 600)),

		SF3DCommand:        getEnv("SF3D_COMMAND", "sf3d-wrapper"),
		DreamFusionCommand: getEnv("DREAMFUSION_COMMAND", "dreamfusion-wrapper"),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 1),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AMQPURL == "" {
		return nil, fmt.Errorf("AMQP_URL is required")
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 1
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
