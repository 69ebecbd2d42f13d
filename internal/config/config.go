package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// Routing
	DrainTickInterval   time.Duration // how often queued calls are matched to freed agents
	SnapshotInterval    time.Duration // how often queue snapshots are broadcast to dashboards
	DefaultMaxQueueSize int           // used when a department carries no explicit limit

	// WebSocket
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	drainTick, err := strconv.Atoi(getEnv("DRAIN_TICK_MS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAIN_TICK_MS: %w", err)
	}
	config.DrainTickInterval = time.Duration(drainTick) * time.Millisecond

	snapshotInterval, err := strconv.Atoi(getEnv("SNAPSHOT_INTERVAL_MS", "2000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL_MS: %w", err)
	}
	config.SnapshotInterval = time.Duration(snapshotInterval) * time.Millisecond

	maxQueueSize, err := strconv.Atoi(getEnv("DEFAULT_MAX_QUEUE_SIZE", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_QUEUE_SIZE: %w", err)
	}
	config.DefaultMaxQueueSize = maxQueueSize

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
