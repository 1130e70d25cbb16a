// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every setting the booking service reads at startup.
type Config struct {
	Port string

	// Catalog source: Mongo when MongoURI is set, else CatalogPath, else built-in.
	MongoURI        string
	MongoDB         string
	MongoCollection string
	CatalogPath     string
	CatalogReseed   bool // replace stored Mongo offerings with the built-in ones

	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	OrderProcessingDelay time.Duration
	OrderAttemptTimeout  time.Duration
	OrderMaxAttempts     int

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	RateLimitRequests int
	RateLimitWindow   int // seconds

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment. Variables
// already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getEnv("MONGO_DB", "carcare"),
		MongoCollection: getEnv("MONGO_COLLECTION", "services"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "carcare-booking"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	var err error
	if cfg.CatalogReseed, err = getBool("CATALOG_RESEED", false); err != nil {
		return nil, err
	}
	if cfg.OrderProcessingDelay, err = getDuration("ORDER_PROCESSING_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.OrderAttemptTimeout, err = getDuration("ORDER_ATTEMPT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.OrderMaxAttempts, err = getInt("ORDER_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = getInt("RATE_LIMIT", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getInt("RATE_LIMIT_WINDOW", 60); err != nil {
		return nil, err
	}

	if cfg.OrderMaxAttempts < 1 {
		return nil, fmt.Errorf("ORDER_MAX_ATTEMPTS must be at least 1, got %d", cfg.OrderMaxAttempts)
	}
	if cfg.SessionTTL <= 0 || cfg.SessionSweepInterval <= 0 || cfg.OrderAttemptTimeout <= 0 {
		return nil, errors.New("SESSION_TTL, SESSION_SWEEP_INTERVAL and ORDER_ATTEMPT_TIMEOUT must be positive")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ConfigureLogging applies LogLevel and LogFormat to the standard logrus logger.
func (c *Config) ConfigureLogging(logger *log.Logger) {
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
