package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by Store.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	TransactionID string
	UserID        string
	Amount        string
	Category      string
	Description   string
	Date          string
	CreatedAt     string
	PaymentMethod string
}

// BudgetRow mirrors the budgets table.
type BudgetRow struct {
	UserID      string
	Category    string
	LimitAmount string
	NotifyEmail string
	CreatedAt   string
	UpdatedAt   string
}

const insertTransaction = `
INSERT INTO transactions (transaction_id, user_id, amount, category, description, date, created_at, payment_method)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, r TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		r.TransactionID, r.UserID, r.Amount, r.Category, r.Description, r.Date, r.CreatedAt, r.PaymentMethod)
	return err
}

const transactionColumns = `transaction_id, user_id, amount, category, description, date, created_at, payment_method`

const listByDateRange = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = ?
  AND (? = '' OR date >= ?)
  AND (? = '' OR date <= ?)
ORDER BY date DESC, transaction_id DESC
LIMIT ? OFFSET ?`

type ListByDateRangeParams struct {
	UserID string
	Start  string
	End    string
	Limit  int
	Offset int
}

func (q *Queries) ListByDateRange(ctx context.Context, p ListByDateRangeParams) ([]TransactionRow, error) {
	return q.listTransactions(ctx, listByDateRange,
		p.UserID, p.Start, p.Start, p.End, p.End, p.Limit, p.Offset)
}

const listByCategoryAndMonth = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = ? AND category = ? AND substr(date, 1, length(?)) = ?
ORDER BY date DESC, transaction_id DESC
LIMIT ? OFFSET ?`

type ListByCategoryAndMonthParams struct {
	UserID      string
	Category    string
	MonthPrefix string
	Limit       int
	Offset      int
}

func (q *Queries) ListByCategoryAndMonth(ctx context.Context, p ListByCategoryAndMonthParams) ([]TransactionRow, error) {
	return q.listTransactions(ctx, listByCategoryAndMonth,
		p.UserID, p.Category, p.MonthPrefix, p.MonthPrefix, p.Limit, p.Offset)
}

const listByCategory = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = ? AND category = ?
  AND (? = '' OR date >= ?)
  AND (? = '' OR date <= ?)
ORDER BY date DESC, transaction_id DESC
LIMIT ? OFFSET ?`

type ListByCategoryParams struct {
	UserID   string
	Category string
	Start    string
	End      string
	Limit    int
	Offset   int
}

func (q *Queries) ListByCategory(ctx context.Context, p ListByCategoryParams) ([]TransactionRow, error) {
	return q.listTransactions(ctx, listByCategory,
		p.UserID, p.Category, p.Start, p.Start, p.End, p.End, p.Limit, p.Offset)
}

func (q *Queries) listTransactions(ctx context.Context, query string, args ...any) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionRow
	for rows.Next() {
		var r TransactionRow
		if err := rows.Scan(&r.TransactionID, &r.UserID, &r.Amount, &r.Category,
			&r.Description, &r.Date, &r.CreatedAt, &r.PaymentMethod); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const upsertBudget = `
INSERT INTO budgets (user_id, category, limit_amount, notify_email, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, category) DO UPDATE SET
    limit_amount = excluded.limit_amount,
    notify_email = excluded.notify_email,
    updated_at   = excluded.updated_at
RETURNING user_id, category, limit_amount, notify_email, created_at, updated_at`

func (q *Queries) UpsertBudget(ctx context.Context, r BudgetRow) (BudgetRow, error) {
	row := q.db.QueryRowContext(ctx, upsertBudget,
		r.UserID, r.Category, r.LimitAmount, r.NotifyEmail, r.CreatedAt, r.UpdatedAt)
	var out BudgetRow
	err := row.Scan(&out.UserID, &out.Category, &out.LimitAmount, &out.NotifyEmail, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

const budgetColumns = `user_id, category, limit_amount, notify_email, created_at, updated_at`

const getBudget = `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ? AND category = ?`

func (q *Queries) GetBudget(ctx context.Context, userID, category string) (BudgetRow, error) {
	row := q.db.QueryRowContext(ctx, getBudget, userID, category)
	var out BudgetRow
	err := row.Scan(&out.UserID, &out.Category, &out.LimitAmount, &out.NotifyEmail, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

const listBudgetsByUser = `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ? ORDER BY category`

func (q *Queries) ListBudgetsByUser(ctx context.Context, userID string) ([]BudgetRow, error) {
	return q.listBudgets(ctx, listBudgetsByUser, userID)
}

const listAllBudgets = `SELECT ` + budgetColumns + ` FROM budgets ORDER BY user_id, category`

func (q *Queries) ListAllBudgets(ctx context.Context) ([]BudgetRow, error) {
	return q.listBudgets(ctx, listAllBudgets)
}

func (q *Queries) listBudgets(ctx context.Context, query string, args ...any) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BudgetRow
	for rows.Next() {
		var r BudgetRow
		if err := rows.Scan(&r.UserID, &r.Category, &r.LimitAmount, &r.NotifyEmail, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
