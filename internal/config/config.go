// Package config loads the demo CLI/daemon's own environment-driven
// defaults. It has nothing to do with rule-set configuration (see
// internal/rules) — this is ambient process configuration only: default
// language, worker counts, log level, and where to watch for rule files.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
)

// Config holds CLI/daemon-level configuration
type Config struct {
	// Engine defaults
	DefaultLanguage  string
	ChunkSizeBytes   int
	OverlapSizeBytes int
	ParallelThresh   int
	ExecutionMode    string // "sequential" | "parallel" | "adaptive"
	NumWorkers       int    // 0 = auto (runtime.NumCPU())

	// Rule config hot-reload
	RulesDir string // directory holding <language>.toml for "config watch" with no path; "" means a path is required

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and a .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DefaultLanguage:  getEnvOrDefault("SAKURS_LANGUAGE", "en"),
		ChunkSizeBytes:   getEnvAsInt("SAKURS_CHUNK_SIZE", 262144),
		OverlapSizeBytes: getEnvAsInt("SAKURS_OVERLAP_SIZE", 256),
		ParallelThresh:   getEnvAsInt("SAKURS_PARALLEL_THRESHOLD", 1048576),
		ExecutionMode:    getEnvOrDefault("SAKURS_EXECUTION_MODE", "adaptive"),
		NumWorkers:       getEnvAsInt("SAKURS_WORKERS", 0),

		RulesDir: os.Getenv("SAKURS_RULES_DIR"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}

	if cfg.ChunkSizeBytes <= 0 {
		return nil, fmt.Errorf("SAKURS_CHUNK_SIZE must be positive")
	}
	if cfg.OverlapSizeBytes >= cfg.ChunkSizeBytes {
		return nil, fmt.Errorf("SAKURS_OVERLAP_SIZE must be smaller than SAKURS_CHUNK_SIZE")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		fmt.Sscanf(value, "%d", &i)
		return i
	}
	return defaultValue
}
