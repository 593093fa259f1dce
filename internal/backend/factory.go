package backend

import (
	"context"
	"fmt"

	"moneyminder/internal/amqp"
	"moneyminder/internal/log"
	"moneyminder/internal/notify"
	"moneyminder/internal/notify/ses"
	"moneyminder/internal/store"
	"moneyminder/internal/store/dynamo"
	"moneyminder/internal/store/memory"
	"moneyminder/internal/store/postgres"
	"moneyminder/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateStores implements Factory.CreateStores
func (f *DefaultFactory) CreateStores(ctx context.Context, config Config) (store.Stores, error) {
	if !config.Type.IsValid() {
		return store.Stores{}, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case MemoryBackend:
		st := memory.New()
		f.logger.Info("Initialized memory backend")
		return store.Stores{Transactions: st, Budgets: st, Close: func() error { return nil }}, nil

	case SQLiteBackend:
		st, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return store.Stores{}, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return store.Stores{Transactions: st, Budgets: st, Close: st.Close}, nil

	case PostgresBackend:
		st, err := postgres.Open(ctx, config.PostgresDSN)
		if err != nil {
			return store.Stores{}, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return store.Stores{Transactions: st, Budgets: st, Close: st.Close}, nil

	case DynamoDBBackend:
		client, err := dynamo.NewClient(ctx, config.AWSRegion, config.DynamoDBEndpoint)
		if err != nil {
			return store.Stores{}, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
		}
		st := dynamo.New(client, dynamo.Tables{
			Transactions: config.TransactionsTable,
			Budgets:      config.BudgetsTable,
		})
		f.logger.Info("Initialized DynamoDB backend",
			"region", config.AWSRegion,
			"transactions_table", config.TransactionsTable,
			"budgets_table", config.BudgetsTable)
		return store.Stores{Transactions: st, Budgets: st, Close: func() error { return nil }}, nil

	default:
		return store.Stores{}, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateSender implements Factory.CreateSender
func (f *DefaultFactory) CreateSender(ctx context.Context, config Config) (*SenderResult, error) {
	if config.Notifier != AMQPNotifier {
		return f.CreateDeliverySender(ctx, config)
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}
	f.logger.Info("Initialized AMQP notifier",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return &SenderResult{Sender: amqp.NewQueueSender(client), Cleanup: client.Close}, nil
}

// CreateDeliverySender implements Factory.CreateDeliverySender. SES is used
// whenever a sender address is configured.
func (f *DefaultFactory) CreateDeliverySender(ctx context.Context, config Config) (*SenderResult, error) {
	if config.Notifier == SESNotifier || (config.Notifier == AMQPNotifier && config.SESSenderEmail != "") {
		client, err := ses.NewClient(ctx, config.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES client: %w", err)
		}
		sender, err := ses.New(client, config.SESSenderEmail, f.logger)
		if err != nil {
			return nil, err
		}
		f.logger.Info("Initialized SES notifier", "from", config.SESSenderEmail)
		return &SenderResult{Sender: sender}, nil
	}

	f.logger.Info("Initialized log notifier")
	return &SenderResult{Sender: notify.NewLogSender(f.logger)}, nil
}
