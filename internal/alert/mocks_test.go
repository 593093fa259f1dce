package alert

import (
	"context"

	"github.com/stretchr/testify/mock"

	"moneyminder/internal/core"
	"moneyminder/internal/notify"
	"moneyminder/internal/store"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, e notify.Email) error {
	return m.Called(ctx, e).Error(0)
}

type mockBudgets struct{ mock.Mock }

func (m *mockBudgets) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(core.Budget), args.Error(1)
}

func (m *mockBudgets) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]core.Budget), args.Error(1)
}

func (m *mockBudgets) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	args := m.Called(ctx, userID, category)
	return args.Get(0).(core.Budget), args.Bool(1), args.Error(2)
}

func (m *mockBudgets) ListAll(ctx context.Context) ([]core.Budget, error) {
	args := m.Called(ctx)
	return args.Get(0).([]core.Budget), args.Error(1)
}

type mockTxns struct{ mock.Mock }

func (m *mockTxns) Put(ctx context.Context, t core.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTxns) QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page store.PageRequest) (store.TransactionPage, error) {
	args := m.Called(ctx, userID, start, end, page)
	return args.Get(0).(store.TransactionPage), args.Error(1)
}

func (m *mockTxns) QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page store.PageRequest) (store.TransactionPage, error) {
	args := m.Called(ctx, userID, category, monthPrefix, page)
	return args.Get(0).(store.TransactionPage), args.Error(1)
}

func (m *mockTxns) QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page store.PageRequest) (store.TransactionPage, error) {
	args := m.Called(ctx, userID, category, window, page)
	return args.Get(0).(store.TransactionPage), args.Error(1)
}
