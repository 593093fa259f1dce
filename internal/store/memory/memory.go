// Package memory keeps transactions and budgets in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"moneyminder/internal/core"
	"moneyminder/internal/store"
)

type budgetKey struct{ user, category string }

// Store implements both store ports. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	txns    map[string][]core.Transaction
	budgets map[budgetKey]core.Budget
}

func New() *Store {
	return &Store{
		txns:    make(map[string][]core.Transaction),
		budgets: make(map[budgetKey]core.Budget),
	}
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.BudgetStore      = (*Store)(nil)
)

func (s *Store) Put(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return &core.StoreWriteError{Op: "put transaction", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[t.UserID] = append(s.txns[t.UserID], t)
	return nil
}

func (s *Store) QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page store.PageRequest) (store.TransactionPage, error) {
	w := core.DateWindow{Start: start, End: end}
	return s.query(ctx, "query by date range", userID, page, func(t core.Transaction) bool {
		return w.Contains(t.Date)
	})
}

func (s *Store) QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page store.PageRequest) (store.TransactionPage, error) {
	return s.query(ctx, "query by category and month", userID, page, func(t core.Transaction) bool {
		return t.Category == category && strings.HasPrefix(t.Date, monthPrefix)
	})
}

func (s *Store) QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page store.PageRequest) (store.TransactionPage, error) {
	return s.query(ctx, "query by category", userID, page, func(t core.Transaction) bool {
		return t.Category == category && window.Contains(t.Date)
	})
}

func (s *Store) query(ctx context.Context, op, userID string, req store.PageRequest, keep func(core.Transaction) bool) (store.TransactionPage, error) {
	if err := ctx.Err(); err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	s.mu.RLock()
	var matched []core.Transaction
	for _, t := range s.txns[userID] {
		if keep(t) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	store.SortNewestFirst(matched)
	page, err := store.PageSlice(matched, req)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	return page, nil
}

func (s *Store) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "upsert budget", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := budgetKey{b.UserID, b.Category}
	if prev, ok := s.budgets[key]; ok && prev.CreatedAt != "" {
		b.CreatedAt = prev.CreatedAt
	}
	s.budgets[key] = b
	return b, nil
}

func (s *Store) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.StoreReadError{Op: "get budgets", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.Budget{}
	for k, b := range s.budgets {
		if k.user == userID {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return out, nil
}

func (s *Store) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[budgetKey{userID, category}]
	return b, ok, nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.StoreReadError{Op: "list budgets", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sortBudgets(out)
	return out, nil
}

func sortBudgets(bs []core.Budget) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].UserID != bs[j].UserID {
			return bs[i].UserID < bs[j].UserID
		}
		return bs[i].Category < bs[j].Category
	})
}
