package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/core"
	"moneyminder/internal/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "moneyminder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, s *Store, id, category, date, amount string) {
	t.Helper()
	require.NoError(t, s.Put(context.Background(), core.Transaction{
		UserID: "u1", TransactionID: id, Category: category, Date: date,
		Amount: core.MustParseMoney(amount), CreatedAt: date + "T10:00:00+0530", PaymentMethod: "card",
	}))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, RunMigrations(path))

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestMigrateDownAndBackUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	s, err := Open(path)
	require.NoError(t, err)
	insert(t, s, "a", "food", "2024-06-10", "1")
	require.NoError(t, s.Close())

	require.NoError(t, MigrateDown(path))
	require.NoError(t, MigrateDown(path), "reverting an empty schema is a no-op")
	version, _, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.Zero(t, version)

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	page, err := s.QueryByUserAndDateRange(context.Background(), "u1", "", "", store.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "down migration drops the ledger")
}

func TestTransactionRoundTripKeepsExactAmount(t *testing.T) {
	s := openTemp(t)
	insert(t, s, "a", "food", "2024-06-10", "77.777777777777")

	page, err := s.QueryByUserAndDateRange(context.Background(), "u1", "2024-06-01", "2024-06-30", store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	got := page.Items[0]
	assert.Equal(t, "77.777777777777", got.Amount.String())
	assert.Equal(t, "card", got.PaymentMethod)
	assert.Equal(t, "2024-06-10T10:00:00+0530", got.CreatedAt)
}

func TestDateRangeBoundaries(t *testing.T) {
	s := openTemp(t)
	insert(t, s, "in-end", "food", "2024-06-30", "1")
	insert(t, s, "out", "food", "2024-07-01", "1")
	insert(t, s, "in-start", "food", "2024-06-01", "1")

	page, err := s.QueryByUserAndDateRange(context.Background(), "u1", "2024-06-01", "2024-06-30", store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "in-end", page.Items[0].TransactionID)
	assert.Equal(t, "in-start", page.Items[1].TransactionID)
}

func TestDateRangeEmptyBoundIsOpen(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	insert(t, s, "may", "food", "2024-05-31", "1")
	insert(t, s, "jun", "food", "2024-06-15", "1")
	insert(t, s, "jul", "food", "2024-07-01", "1")

	page, err := s.QueryByUserAndDateRange(ctx, "u1", "2024-06-01", "", store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "jul", page.Items[0].TransactionID)
	assert.Equal(t, "jun", page.Items[1].TransactionID)

	page, err = s.QueryByUserAndDateRange(ctx, "u1", "", "2024-06-15", store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "jun", page.Items[0].TransactionID)
	assert.Equal(t, "may", page.Items[1].TransactionID)

	page, err = s.QueryByUserAndDateRange(ctx, "u1", "", "", store.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}

func TestCategoryQueries(t *testing.T) {
	s := openTemp(t)
	insert(t, s, "a", "food", "2024-06-03", "40")
	insert(t, s, "b", "food", "2024-06-04", "30")
	insert(t, s, "c", "food", "2024-05-30", "5")
	insert(t, s, "d", "transport", "2024-06-04", "20")
	ctx := context.Background()

	month, err := s.QueryByUserCategoryAndMonth(ctx, "u1", "food", "2024-06", store.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, month.Items, 2)
	assert.Equal(t, "70", core.Aggregate(month.Items).Get("food").String())

	all, err := s.QueryByUserAndCategory(ctx, "u1", "food", core.DateWindow{}, store.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	since, err := s.QueryByUserAndCategory(ctx, "u1", "food", core.DateWindow{Start: "2024-06-04"}, store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, since.Items, 1)
	assert.Equal(t, "b", since.Items[0].TransactionID)
}

func TestPaging(t *testing.T) {
	s := openTemp(t)
	for _, d := range []string{"01", "02", "03", "04", "05"} {
		insert(t, s, d, "food", "2024-06-"+d, "1")
	}
	ctx := context.Background()

	var ids []string
	req := store.PageRequest{Limit: 2}
	for {
		page, err := s.QueryByUserAndDateRange(ctx, "u1", "2024-06-01", "2024-06-30", req)
		require.NoError(t, err)
		for _, tx := range page.Items {
			ids = append(ids, tx.TransactionID)
		}
		if !page.HasMore() {
			break
		}
		req.Cursor = page.NextCursor
	}
	assert.Equal(t, []string{"05", "04", "03", "02", "01"}, ids)
}

func TestDuplicateTransactionIsWriteError(t *testing.T) {
	s := openTemp(t)
	insert(t, s, "a", "food", "2024-06-03", "1")
	err := s.Put(context.Background(), core.Transaction{UserID: "u1", TransactionID: "a", Amount: core.MoneyFromInt(1), Category: "food", Date: "2024-06-03"})
	var we *core.StoreWriteError
	assert.ErrorAs(t, err, &we)
}

func TestBudgets(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "u1", "food")
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := s.Upsert(ctx, core.Budget{UserID: "u1", Category: "food", Limit: core.MustParseMoney("50"), NotifyEmail: "u1@example.com", CreatedAt: "t1", UpdatedAt: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "t1", first.CreatedAt)

	second, err := s.Upsert(ctx, core.Budget{UserID: "u1", Category: "food", Limit: core.MustParseMoney("75.5"), NotifyEmail: "u1@example.com", CreatedAt: "t2", UpdatedAt: "t2"})
	require.NoError(t, err)
	assert.Equal(t, "t1", second.CreatedAt)
	assert.Equal(t, "t2", second.UpdatedAt)
	assert.Equal(t, "75.5", second.Limit.String())

	got, ok, err := s.Get(ctx, "u1", "food")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1@example.com", got.NotifyEmail)

	_, err = s.Upsert(ctx, core.Budget{UserID: "u2", Category: "rent", Limit: core.MoneyFromInt(0), CreatedAt: "t3", UpdatedAt: "t3"})
	require.NoError(t, err)

	mine, err := s.GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
