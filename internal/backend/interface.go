package backend

import (
	"context"

	"moneyminder/internal/notify"
	"moneyminder/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SenderResult contains the sender and an optional cleanup function
type SenderResult struct {
	Sender  notify.Sender
	Cleanup CleanupFunc
}

// Factory builds storage and notification from configuration
type Factory interface {
	// CreateStores opens the configured storage backend. Stores.Close
	// releases it.
	CreateStores(ctx context.Context, config Config) (store.Stores, error)

	// CreateSender builds the sender used when a budget alert fires.
	CreateSender(ctx context.Context, config Config) (*SenderResult, error)

	// CreateDeliverySender builds a sender that delivers immediately. The
	// alert worker uses it to drain the queue, so it never returns the
	// queue sender itself.
	CreateDeliverySender(ctx context.Context, config Config) (*SenderResult, error)
}
