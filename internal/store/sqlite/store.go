// Package sqlite stores transactions and budgets in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"moneyminder/internal/core"
	"moneyminder/internal/store"

	_ "modernc.org/sqlite"
)

// Store implements store.TransactionStore and store.BudgetStore.
type Store struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.BudgetStore      = (*Store)(nil)
)

// Open creates the database directory if needed, migrates, and returns a
// ready Store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	version, dirty, err := SchemaVersion(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	if dirty {
		db.Close()
		return nil, fmt.Errorf("schema version %d is dirty", version)
	}

	return &Store{db: db, queries: NewQueries(db)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Put(ctx context.Context, t core.Transaction) error {
	err := s.queries.InsertTransaction(ctx, TransactionRow{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		Amount:        t.Amount.String(),
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
		PaymentMethod: t.PaymentMethod,
	})
	if err != nil {
		return &core.StoreWriteError{Op: "insert transaction", Err: err}
	}
	return nil
}

func (s *Store) QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by date range", page, func(limit, offset int) ([]TransactionRow, error) {
		return s.queries.ListByDateRange(ctx, ListByDateRangeParams{
			UserID: userID, Start: start, End: end, Limit: limit, Offset: offset,
		})
	})
}

func (s *Store) QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by category and month", page, func(limit, offset int) ([]TransactionRow, error) {
		return s.queries.ListByCategoryAndMonth(ctx, ListByCategoryAndMonthParams{
			UserID: userID, Category: category, MonthPrefix: monthPrefix, Limit: limit, Offset: offset,
		})
	})
}

func (s *Store) QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by category", page, func(limit, offset int) ([]TransactionRow, error) {
		return s.queries.ListByCategory(ctx, ListByCategoryParams{
			UserID: userID, Category: category, Start: window.Start, End: window.End, Limit: limit, Offset: offset,
		})
	})
}

func (s *Store) page(ctx context.Context, op string, req store.PageRequest, list func(limit, offset int) ([]TransactionRow, error)) (store.TransactionPage, error) {
	offset, err := store.ParseOffsetCursor(req.Cursor)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	size := req.Size()

	rows, err := list(size+1, offset)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}

	txns := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTransaction()
		if err != nil {
			return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
		}
		txns = append(txns, t)
	}
	return store.TrimPage(txns, offset, size), nil
}

func (s *Store) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := s.queries.UpsertBudget(ctx, BudgetRow{
		UserID:      b.UserID,
		Category:    b.Category,
		LimitAmount: b.Limit.String(),
		NotifyEmail: b.NotifyEmail,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	})
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "upsert budget", Err: err}
	}
	out, err := row.toBudget()
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "upsert budget", Err: err}
	}
	return out, nil
}

func (s *Store) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.queries.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, &core.StoreReadError{Op: "list budgets", Err: err}
	}
	return toBudgets(rows)
}

func (s *Store) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	row, err := s.queries.GetBudget(ctx, userID, category)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, false, nil
	}
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	b, err := row.toBudget()
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	return b, true, nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Budget, error) {
	rows, err := s.queries.ListAllBudgets(ctx)
	if err != nil {
		return nil, &core.StoreReadError{Op: "list all budgets", Err: err}
	}
	return toBudgets(rows)
}

func toBudgets(rows []BudgetRow) ([]core.Budget, error) {
	out := make([]core.Budget, 0, len(rows))
	for _, r := range rows {
		b, err := r.toBudget()
		if err != nil {
			return nil, &core.StoreReadError{Op: "decode budget", Err: err}
		}
		out = append(out, b)
	}
	return out, nil
}

func (r TransactionRow) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseMoney(r.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", r.TransactionID, r.Amount, err)
	}
	return core.Transaction{
		UserID:        r.UserID,
		TransactionID: r.TransactionID,
		Amount:        amount,
		Category:      r.Category,
		Description:   r.Description,
		Date:          r.Date,
		CreatedAt:     r.CreatedAt,
		PaymentMethod: r.PaymentMethod,
	}, nil
}

func (r BudgetRow) toBudget() (core.Budget, error) {
	limit, err := core.ParseMoney(r.LimitAmount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %s/%s limit %q: %w", r.UserID, r.Category, r.LimitAmount, err)
	}
	return core.Budget{
		UserID:      r.UserID,
		Category:    r.Category,
		Limit:       limit,
		NotifyEmail: r.NotifyEmail,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
