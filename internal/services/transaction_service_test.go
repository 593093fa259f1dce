package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/store/memory"
)

func TestCreateExceedingBudgetSendsOneAlert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.budgets.Upsert(ctx, alice, core.BudgetInput{Category: "food", Limit: num("50")})
	require.NoError(t, err)

	_, err = f.txns.Create(ctx, alice, core.TransactionInput{Amount: num("40"), Category: "food"})
	require.NoError(t, err)
	assert.Empty(t, f.outbox.emails(), "80% of the limit does not alert")

	_, err = f.txns.Create(ctx, alice, core.TransactionInput{Amount: num("30"), Category: "food"})
	require.NoError(t, err)

	sent := f.outbox.emails()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
	assert.Equal(t, "Budget Alert: You've spent $70 on food, exceeding your budget of $50", sent[0].Text)

	_, err = f.txns.Create(ctx, alice, core.TransactionInput{Amount: num("20"), Category: "transport"})
	require.NoError(t, err)
	assert.Len(t, f.outbox.emails(), 1, "unbudgeted category never alerts")
}

func TestCreateKeepsTransactionWhenNotificationFails(t *testing.T) {
	f := newFixture()
	f.outbox.fail = errors.New("ses down")
	ctx := context.Background()

	_, err := f.budgets.Upsert(ctx, alice, core.BudgetInput{Category: "food", Limit: num("10")})
	require.NoError(t, err)

	created, err := f.txns.Create(ctx, alice, core.TransactionInput{Amount: num("25"), Category: "food"})
	require.NoError(t, err)

	list, err := f.txns.List(ctx, "alice", ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, created.TransactionID, list.Transactions[0].TransactionID)
}

type failingChecker struct{}

func (failingChecker) Check(context.Context, core.Principal, string, core.Money) (alert.CheckResult, error) {
	return alert.CheckResult{}, &core.StoreReadError{Op: "get budget", Err: errors.New("timeout")}
}

func TestCreateSurvivesCheckFailure(t *testing.T) {
	st := memory.New()
	svc := NewTransactionService(st, failingChecker{}, june, log.Discard()).
		WithIDGenerator(func() string { return "fixed" })

	got, err := svc.Create(context.Background(), alice, core.TransactionInput{Amount: num("5"), Category: "fun"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.TransactionID)
	assert.Equal(t, "2024-06-15", got.Date)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	_, err := f.txns.Create(context.Background(), alice, core.TransactionInput{Category: "food"})
	assert.True(t, core.IsValidation(err))

	list, err := f.txns.List(context.Background(), "alice", ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.Count, "nothing is written on validation failure")
}

func TestListDefaultsAndFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, in := range []core.TransactionInput{
		{Amount: num("1"), Category: "food", Date: "2024-06-01"},
		{Amount: num("2"), Category: "food", Date: "2024-05-31"},
		{Amount: num("3"), Category: "transport", Date: "2024-06-10"},
		{Amount: num("4"), Category: "food", Date: "2024-06-20"},
	} {
		_, err := f.txns.Create(ctx, alice, in)
		require.NoError(t, err)
	}

	month, err := f.txns.List(ctx, "alice", ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, month.Count, "defaults to month start through today")

	food, err := f.txns.List(ctx, "alice", ListFilter{Category: "food", StartDate: "2024-05-01", EndDate: "2024-06-30"})
	require.NoError(t, err)
	assert.Equal(t, 3, food.Count)
	assert.Equal(t, "2024-06-20", food.Transactions[0].Date)

	paged, err := f.txns.List(ctx, "alice", ListFilter{StartDate: "2024-05-01", EndDate: "2024-06-30", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, paged.Count)
	assert.NotEmpty(t, paged.NextCursor)

	_, err = f.txns.List(ctx, "alice", ListFilter{StartDate: "2024-06-30", EndDate: "2024-06-01"})
	assert.True(t, core.IsValidation(err))
	_, err = f.txns.List(ctx, "", ListFilter{})
	assert.True(t, core.IsValidation(err))
}
