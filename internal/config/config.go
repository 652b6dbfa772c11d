// Package config provides configuration structures and validation for the ledger services.
// Both the gateway and the notification dispatcher load the same Config; each reads only
// the sections it needs.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Events      EventsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	PINHeader       string // Request header carrying the account PIN
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	NotificationTopic string // Alerts and statement requests relayed from the outbox
	DLQTopic          string
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
}

// PostgresConfig contains PostgreSQL configuration for the notification outbox
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration for the entry archive
type MongoDBConfig struct {
	URI               string
	Database          string
	EntriesCollection string
	Timeout           time.Duration
	MaxPoolSize       uint64
	MinPoolSize       uint64
	MaxConnIdleTime   time.Duration
}

// OutboxConfig contains outbox poller configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Attempts before a notification is marked FAILED and dead-lettered
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// EventsConfig controls how ledger events are handed to the stores
type EventsConfig struct {
	ArchiveEntries bool          // Mirror every log entry to MongoDB
	StoreTimeout   time.Duration // Per-event deadline for archive and outbox writes
}

// validate checks every section and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string
	add := func(msg string) {
		validationErrors = append(validationErrors, msg)
	}

	if c.Server.Port <= 0 {
		add("SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		add("SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		add("SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		add("SERVER_IDLE_TIMEOUT must be greater than 0")
	}
	if c.Server.PINHeader == "" {
		add("SERVER_PIN_HEADER is required")
	}

	if c.Kafka.Brokers == "" {
		add("KAFKA_BROKERS is required")
	}
	if c.Kafka.NotificationTopic == "" {
		add("KAFKA_NOTIFICATION_TOPIC is required")
	}
	if c.Kafka.DLQTopic == "" {
		add("KAFKA_DLQ_TOPIC is required")
	}
	if c.Kafka.NotificationTopic != "" && c.Kafka.NotificationTopic == c.Kafka.DLQTopic {
		add("KAFKA_DLQ_TOPIC must differ from KAFKA_NOTIFICATION_TOPIC")
	}
	if c.Kafka.ConsumerGroup == "" {
		add("KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		add("KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes < c.Kafka.MinBytes {
		add("KAFKA_CONSUMER_MAX_BYTES must not be below KAFKA_CONSUMER_MIN_BYTES")
	}
	if c.Kafka.MaxWait <= 0 {
		add("KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}

	if c.Postgres.URL == "" {
		add("POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		add("POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
		add("POSTGRES_MIN_CONNS must be between 1 and POSTGRES_MAX_CONNS")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		add("POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		add("POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.MongoDB.URI == "" {
		add("MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		add("MONGO_DATABASE is required")
	}
	if c.MongoDB.EntriesCollection == "" {
		add("MONGO_ENTRIES_COLLECTION is required")
	}
	if c.MongoDB.Timeout <= 0 {
		add("MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize == 0 {
		add("MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize > c.MongoDB.MaxPoolSize {
		add("MONGO_MIN_POOL_SIZE must not exceed MONGO_MAX_POOL_SIZE")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		add("MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.Outbox.PollingInterval <= 0 {
		add("OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		add("OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		add("OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	if c.WorkerPool.Size <= 0 {
		add("WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Events.StoreTimeout <= 0 {
		add("EVENTS_STORE_TIMEOUT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
