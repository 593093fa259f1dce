// Package store defines the persistence ports for transactions and budgets
// and the paging types shared by every backend.
package store

import (
	"context"

	"moneyminder/internal/core"
)

// DefaultPageLimit applies when a PageRequest leaves Limit unset.
const DefaultPageLimit = 100

// MaxPageLimit caps the page size any backend will return.
const MaxPageLimit = 1000

// PageRequest asks for one page of results. Cursor is opaque and comes from
// a previous TransactionPage.NextCursor.
type PageRequest struct {
	Limit  int
	Cursor string
}

// Size returns the effective page size.
func (p PageRequest) Size() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageLimit
	case p.Limit > MaxPageLimit:
		return MaxPageLimit
	}
	return p.Limit
}

// TransactionPage is one page of transactions, most recent date first.
type TransactionPage struct {
	Items      []core.Transaction
	NextCursor string
}

// HasMore reports whether another page is available.
func (p TransactionPage) HasMore() bool { return p.NextCursor != "" }

// TransactionStore persists and queries transactions. Implementations wrap
// backend failures in *core.StoreReadError or *core.StoreWriteError. An empty
// start or end date leaves that side of a range open.
type TransactionStore interface {
	Put(ctx context.Context, t core.Transaction) error
	QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page PageRequest) (TransactionPage, error)
	QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page PageRequest) (TransactionPage, error)
	QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page PageRequest) (TransactionPage, error)
}

// BudgetStore persists budgets keyed by (user, category).
type BudgetStore interface {
	// Upsert replaces the limit of an existing budget, keeping its CreatedAt,
	// and returns the stored record.
	Upsert(ctx context.Context, b core.Budget) (core.Budget, error)
	GetAll(ctx context.Context, userID string) ([]core.Budget, error)
	// Get reports absence with ok == false and a nil error.
	Get(ctx context.Context, userID, category string) (core.Budget, bool, error)
	// ListAll returns every budget of every user, for the scheduled sweep.
	ListAll(ctx context.Context) ([]core.Budget, error)
}

// Stores bundles the two ports with a cleanup hook.
type Stores struct {
	Transactions TransactionStore
	Budgets      BudgetStore
	Close        func() error
}

// CollectAll drains a paged query. Used where a full month is needed.
func CollectAll(ctx context.Context, query func(PageRequest) (TransactionPage, error)) ([]core.Transaction, error) {
	var out []core.Transaction
	req := PageRequest{Limit: MaxPageLimit}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := query(req)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.HasMore() {
			return out, nil
		}
		req.Cursor = page.NextCursor
	}
}
