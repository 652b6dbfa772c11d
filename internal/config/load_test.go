package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into a fresh directory with a configs/ subdirectory for the test's duration
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	return dir
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	content := "APP_NAME=ledger-test\nSERVER_PORT=9090\nLOG_LEVEL=debug\n" +
		"KAFKA_BROKERS=kafka1:9092,kafka2:9092\nSERVER_PIN_HEADER=X-Test-PIN\nEVENTS_ARCHIVE_ENTRIES=false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "ledger_test.env"), []byte(content), 0o644))

	cfg, err := LoadConfig("ledger_test")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "ledger-test", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "kafka1:9092,kafka2:9092", cfg.Kafka.Brokers)
	assert.Equal(t, "X-Test-PIN", cfg.Server.PINHeader)
	assert.False(t, cfg.Events.ArchiveEntries)

	// untouched keys keep their defaults
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "account_notifications", cfg.Kafka.NotificationTopic)
	assert.Equal(t, "account_notifications_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, "ledger_entries", cfg.MongoDB.EntriesCollection)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/ledger_test")
	require.NoError(t, err)
	assert.Equal(t, "ledger-test", cfgWithName.Application.Name)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "override.env"), []byte("SERVER_PORT=9090\n"), 0o644))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadConfig("override")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "X-Account-PIN", cfg.Server.PINHeader)
	assert.True(t, cfg.Events.ArchiveEntries)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := chdirTemp(t)
	content := "SERVER_PORT=0\nKAFKA_DLQ_TOPIC=account_notifications\nWORKER_POOL_SIZE=0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "invalid.env"), []byte(content), 0o644))

	cfg, err := LoadConfig("invalid")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
	assert.Contains(t, err.Error(), "KAFKA_DLQ_TOPIC must differ from KAFKA_NOTIFICATION_TOPIC")
	assert.Contains(t, err.Error(), "WORKER_POOL_SIZE must be greater than 0")
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{"Defaults", func(c *Config) {}, ""},
		{"EmptyPINHeader", func(c *Config) { c.Server.PINHeader = "" }, "SERVER_PIN_HEADER is required"},
		{"MissingBrokers", func(c *Config) { c.Kafka.Brokers = "" }, "KAFKA_BROKERS is required"},
		{"MaxBytesBelowMin", func(c *Config) { c.Kafka.MaxBytes = 1 }, "KAFKA_CONSUMER_MAX_BYTES must not be below KAFKA_CONSUMER_MIN_BYTES"},
		{"MinConnsAboveMax", func(c *Config) { c.Postgres.MinConns = 100 }, "POSTGRES_MIN_CONNS must be between 1 and POSTGRES_MAX_CONNS"},
		{"MissingCollection", func(c *Config) { c.MongoDB.EntriesCollection = "" }, "MONGO_ENTRIES_COLLECTION is required"},
		{"MongoPoolInverted", func(c *Config) { c.MongoDB.MinPoolSize = 500 }, "MONGO_MIN_POOL_SIZE must not exceed MONGO_MAX_POOL_SIZE"},
		{"ZeroRetries", func(c *Config) { c.Outbox.MaxRetryAttempts = 0 }, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0"},
		{"ZeroStoreTimeout", func(c *Config) { c.Events.StoreTimeout = 0 }, "EVENTS_STORE_TIMEOUT must be greater than 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			cfg := fromViper(v)
			tc.mutate(cfg)

			err := cfg.validate()

			if tc.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
