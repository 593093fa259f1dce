// Package postgres stores transactions and budgets in PostgreSQL through a
// pgx connection pool. Amounts live in NUMERIC columns and cross the wire
// as text so no precision is lost.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moneyminder/internal/core"
	"moneyminder/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.BudgetStore      = (*Store)(nil)
)

// Open connects, pings and migrates.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const insertTransaction = `
INSERT INTO transactions (transaction_id, user_id, amount, category, description, date, created_at, payment_method)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)`

func (s *Store) Put(ctx context.Context, t core.Transaction) error {
	_, err := s.pool.Exec(ctx, insertTransaction,
		t.TransactionID, t.UserID, t.Amount.String(), t.Category, t.Description, t.Date, t.CreatedAt, t.PaymentMethod)
	if err != nil {
		return &core.StoreWriteError{Op: "insert transaction", Err: err}
	}
	return nil
}

const transactionColumns = `transaction_id, user_id, amount::text, category, description, date, created_at, payment_method`

const listByDateRange = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = $1
  AND ($2 = '' OR date >= $2)
  AND ($3 = '' OR date <= $3)
ORDER BY date DESC, transaction_id DESC
LIMIT $4 OFFSET $5`

func (s *Store) QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by date range", page, listByDateRange, userID, start, end)
}

const listByCategoryAndMonth = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = $1 AND category = $2 AND left(date, length($3)) = $3
ORDER BY date DESC, transaction_id DESC
LIMIT $4 OFFSET $5`

func (s *Store) QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by category and month", page, listByCategoryAndMonth, userID, category, monthPrefix)
}

const listByCategory = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = $1 AND category = $2
  AND ($3 = '' OR date >= $3)
  AND ($4 = '' OR date <= $4)
ORDER BY date DESC, transaction_id DESC
LIMIT $5 OFFSET $6`

func (s *Store) QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page store.PageRequest) (store.TransactionPage, error) {
	return s.page(ctx, "query by category", page, listByCategory, userID, category, window.Start, window.End)
}

// page appends LIMIT and OFFSET to args. Every list query ends with them.
func (s *Store) page(ctx context.Context, op string, req store.PageRequest, query string, args ...any) (store.TransactionPage, error) {
	offset, err := store.ParseOffsetCursor(req.Cursor)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	size := req.Size()

	rows, err := s.pool.Query(ctx, query, append(args, size+1, offset)...)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	txns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	return store.TrimPage(txns, offset, size), nil
}

func scanTransaction(row pgx.CollectableRow) (core.Transaction, error) {
	var t core.Transaction
	var amount string
	if err := row.Scan(&t.TransactionID, &t.UserID, &amount, &t.Category,
		&t.Description, &t.Date, &t.CreatedAt, &t.PaymentMethod); err != nil {
		return core.Transaction{}, err
	}
	m, err := core.ParseMoney(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", t.TransactionID, amount, err)
	}
	t.Amount = m
	return t, nil
}

const budgetColumns = `user_id, category, limit_amount::text, notify_email, created_at, updated_at`

const upsertBudget = `
INSERT INTO budgets (user_id, category, limit_amount, notify_email, created_at, updated_at)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
ON CONFLICT (user_id, category) DO UPDATE SET
    limit_amount = EXCLUDED.limit_amount,
    notify_email = EXCLUDED.notify_email,
    updated_at   = EXCLUDED.updated_at
RETURNING ` + budgetColumns

func (s *Store) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	rows, err := s.pool.Query(ctx, upsertBudget,
		b.UserID, b.Category, b.Limit.String(), b.NotifyEmail, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "upsert budget", Err: err}
	}
	out, err := pgx.CollectExactlyOneRow(rows, scanBudget)
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "upsert budget", Err: err}
	}
	return out, nil
}

func (s *Store) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	return s.budgets(ctx, "list budgets",
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY category`, userID)
}

func (s *Store) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND category = $2`, userID, category)
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBudget)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Budget{}, false, nil
	}
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	return b, true, nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Budget, error) {
	return s.budgets(ctx, "list all budgets",
		`SELECT `+budgetColumns+` FROM budgets ORDER BY user_id, category`)
}

func (s *Store) budgets(ctx context.Context, op, query string, args ...any) ([]core.Budget, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &core.StoreReadError{Op: op, Err: err}
	}
	out, err := pgx.CollectRows(rows, scanBudget)
	if err != nil {
		return nil, &core.StoreReadError{Op: op, Err: err}
	}
	if out == nil {
		out = []core.Budget{}
	}
	return out, nil
}

func scanBudget(row pgx.CollectableRow) (core.Budget, error) {
	var b core.Budget
	var limit string
	if err := row.Scan(&b.UserID, &b.Category, &limit, &b.NotifyEmail, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return core.Budget{}, err
	}
	m, err := core.ParseMoney(limit)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %s/%s limit %q: %w", b.UserID, b.Category, limit, err)
	}
	b.Limit = m
	return b, nil
}
