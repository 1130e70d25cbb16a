package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "MONGO_URI", "MONGO_DB", "MONGO_COLLECTION", "CATALOG_PATH", "CATALOG_RESEED",
	"MQTT_BROKER", "MQTT_CLIENT_ID", "MQTT_USERNAME", "MQTT_PASSWORD",
	"ORDER_PROCESSING_DELAY", "ORDER_ATTEMPT_TIMEOUT", "ORDER_MAX_ATTEMPTS",
	"SESSION_TTL", "SESSION_SWEEP_INTERVAL", "RATE_LIMIT", "RATE_LIMIT_WINDOW",
	"LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, "carcare", cfg.MongoDB)
	assert.Equal(t, "services", cfg.MongoCollection)
	assert.False(t, cfg.CatalogReseed)
	assert.Equal(t, "carcare-booking", cfg.MQTTClientID)
	assert.Equal(t, 2*time.Second, cfg.OrderProcessingDelay)
	assert.Equal(t, 5*time.Second, cfg.OrderAttemptTimeout)
	assert.Equal(t, 3, cfg.OrderMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, 60, cfg.RateLimitWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CATALOG_RESEED", "true")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("ORDER_PROCESSING_DELAY", "500ms")
	t.Setenv("ORDER_MAX_ATTEMPTS", "5")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.True(t, cfg.CatalogReseed)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, 500*time.Millisecond, cfg.OrderProcessingDelay)
	assert.Equal(t, 5, cfg.OrderMaxAttempts)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"ORDER_PROCESSING_DELAY": "two seconds",
		"ORDER_MAX_ATTEMPTS":     "0",
		"RATE_LIMIT":             "lots",
		"CATALOG_RESEED":         "sometimes",
		"SESSION_TTL":            "-5m",
		"LOG_FORMAT":             "xml",
		"LOG_LEVEL":              "chatty",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MQTT_CLIENT_ID=from-dotenv\nPORT=7070\n"), 0o600))
	t.Setenv("PORT", "6060")
	// t.Setenv restores the variable afterwards; registering it first keeps
	// the value loaded from the file from leaking into other tests.
	t.Setenv("MQTT_CLIENT_ID", "")
	require.NoError(t, os.Unsetenv("MQTT_CLIENT_ID"))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.MQTTClientID)
	assert.Equal(t, "6060", cfg.Port, "real environment wins over .env")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestConfigureLogging(t *testing.T) {
	logger := log.New()
	(&Config{LogLevel: "warn", LogFormat: "json"}).ConfigureLogging(logger)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, logger.Formatter)

	(&Config{LogLevel: "debug", LogFormat: "text"}).ConfigureLogging(logger)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, logger.Formatter)
}
