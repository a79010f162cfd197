package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database (optional — history sink is disabled when empty)
	DatabaseURL string

	// Storage
	StorageProvider   string // "local" or "object"
	StorageLocalRoot  string // root directory for the local provider
	StorageURL        string // object store base URL
	StorageServiceKey string
	StorageBucket     string

	// Encoder
	FFmpegPath  string
	FFprobePath string
	TempDir     string

	// Worker
	MaxConcurrentJobs   int
	JobQueueCapacity    int
	JobRetentionMinutes int // terminal jobs evicted this long after finishing
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:             getEnv("API_PORT", "8080"),
		BackendAPIKey:       getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		StorageProvider:     getEnv("STORAGE_PROVIDER", "local"),
		StorageLocalRoot:    getEnv("STORAGE_LOCAL_ROOT", "static/videos"),
		StorageURL:          getEnv("STORAGE_URL", ""),
		StorageServiceKey:   getEnv("STORAGE_SERVICE_KEY", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", "vertivid-videos"),
		FFmpegPath:          getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:         getEnv("FFPROBE_PATH", "ffprobe"),
		TempDir:             getEnv("TEMP_DIR", "/tmp/vertivid"),
		MaxConcurrentJobs:   getEnvInt("MAX_CONCURRENT_JOBS", 4),
		JobQueueCapacity:    getEnvInt("JOB_QUEUE_CAPACITY", 64),
		JobRetentionMinutes: getEnvInt("JOB_RETENTION_MINUTES", 60),
	}

	// Validate required fields
	switch cfg.StorageProvider {
	case "local":
		// local root has a default, nothing to check
	case "object":
		if cfg.StorageURL == "" || cfg.StorageServiceKey == "" {
			return nil, fmt.Errorf("STORAGE_URL and STORAGE_SERVICE_KEY are required for the object storage provider")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER: %s", cfg.StorageProvider)
	}

	if cfg.MaxConcurrentJobs < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_JOBS must be at least 1")
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
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
