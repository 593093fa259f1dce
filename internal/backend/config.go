package backend

import (
	"fmt"

	"moneyminder/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresDSN string

	// DynamoDB specific
	AWSRegion         string
	TransactionsTable string
	BudgetsTable      string
	DynamoDBEndpoint  string

	// Notification
	Notifier       NotifierType
	SESSenderEmail string
	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string
}

// BackendType represents the type of storage backend
type BackendType string

const (
	MemoryBackend   BackendType = config.BackendMemory
	SQLiteBackend   BackendType = config.BackendSQLite
	PostgresBackend BackendType = config.BackendPostgres
	DynamoDBBackend BackendType = config.BackendDynamoDB
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend, DynamoDBBackend:
		return true
	default:
		return false
	}
}

// NotifierType selects how alert emails leave the process
type NotifierType string

const (
	LogNotifier  NotifierType = config.NotifierLog
	SESNotifier  NotifierType = config.NotifierSES
	AMQPNotifier NotifierType = config.NotifierAMQP
)

func (nt NotifierType) IsValid() bool {
	switch nt {
	case LogNotifier, SESNotifier, AMQPNotifier:
		return true
	default:
		return false
	}
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Type:              BackendType(appConfig.DataBackend),
		SQLiteDBPath:      appConfig.SQLiteDBPath,
		PostgresDSN:       appConfig.PostgresDSN,
		AWSRegion:         appConfig.AWSRegion,
		TransactionsTable: appConfig.TransactionsTable,
		BudgetsTable:      appConfig.BudgetsTable,
		DynamoDBEndpoint:  appConfig.DynamoDBEndpoint,
		Notifier:          NotifierType(appConfig.Notifier),
		SESSenderEmail:    appConfig.SESSenderEmail,
		AMQPURL:           appConfig.AMQPURL,
		AMQPExchange:      appConfig.AMQPExchange,
		AMQPQueue:         appConfig.AMQPQueue,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.PostgresDSN == "" {
			return fmt.Errorf("Postgres DSN is required for postgres backend")
		}
	case DynamoDBBackend:
		if c.TransactionsTable == "" || c.BudgetsTable == "" {
			return fmt.Errorf("table names are required for dynamodb backend")
		}
	}

	if c.Notifier == "" {
		return nil
	}
	if !c.Notifier.IsValid() {
		return fmt.Errorf("invalid notifier: %s", c.Notifier)
	}
	switch c.Notifier {
	case SESNotifier:
		if c.SESSenderEmail == "" {
			return fmt.Errorf("SES sender email is required for ses notifier")
		}
	case AMQPNotifier:
		if c.AMQPURL == "" || c.AMQPExchange == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP URL, exchange and queue are required for amqp notifier")
		}
	}
	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	return []string{MemoryBackend.String(), SQLiteBackend.String(), PostgresBackend.String(), DynamoDBBackend.String()}
}
