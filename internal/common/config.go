package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Recognizer RecognizerConfig
	Extract    ExtractConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DataConfig holds the on-disk layout: the append-only raw text log,
// the published order table, upload and image cache directories, and
// the bookkeeping database.
type DataConfig struct {
	Dir       string
	RawLog    string
	TablePath string
	UploadDir string
	CacheDir  string
	DBPath    string
}

// RecognizerConfig holds the recognition collaborator endpoint settings.
type RecognizerConfig struct {
	URL     string
	Timeout time.Duration
	MaxEdge int
}

// ExtractConfig holds extraction pipeline settings.
type ExtractConfig struct {
	CorrectionsPath string
	PriceThreshold  int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	dataDir := getEnv("DATA_DIR", "./data")
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Data: DataConfig{
			Dir:       dataDir,
			RawLog:    getEnv("RAW_LOG_PATH", dataDir+"/text.txt"),
			TablePath: getEnv("TABLE_PATH", dataDir+"/output.xlsx"),
			UploadDir: getEnv("UPLOAD_DIR", dataDir+"/uploaded_images"),
			CacheDir:  getEnv("IMAGE_CACHE_DIR", dataDir+"/cache"),
			DBPath:    getEnv("DB_PATH", dataDir+"/invoice-insights.db"),
		},
		Recognizer: RecognizerConfig{
			URL:     getEnv("RECOGNIZER_URL", ""),
			Timeout: getEnvAsDuration("RECOGNIZER_TIMEOUT", 120*time.Second),
			MaxEdge: getEnvAsInt("RECOGNIZER_MAX_EDGE", 1600),
		},
		Extract: ExtractConfig{
			CorrectionsPath: getEnv("CORRECTIONS_PATH", ""),
			PriceThreshold:  getEnvAsInt64("PRICE_THRESHOLD", 10000),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Data.Dir == "" {
		return NewAppError("CONFIG_ERROR", "DATA_DIR is required", ErrInvalidInput)
	}
	return nil
}
