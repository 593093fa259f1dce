package services

import (
	"context"
	"fmt"
	"strings"

	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/store"
)

// BudgetService manages per-category monthly limits.
type BudgetService struct {
	budgets store.BudgetStore
	clock   core.Clock
	logger  *log.Logger
}

func NewBudgetService(budgets store.BudgetStore, clock core.Clock, logger *log.Logger) *BudgetService {
	return &BudgetService{
		budgets: budgets,
		clock:   clock,
		logger:  logger.WithComponent(log.ComponentBudget),
	}
}

// BudgetList is every budget of one user.
type BudgetList struct {
	Budgets []core.Budget `json:"budgets"`
	Count   int           `json:"count"`
}

// Upsert creates the budget or replaces its limit.
func (s *BudgetService) Upsert(ctx context.Context, p core.Principal, in core.BudgetInput) (core.Budget, error) {
	b, err := core.NewBudget(p, in, s.clock.Now())
	if err != nil {
		return core.Budget{}, err
	}
	stored, err := s.budgets.Upsert(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget saved",
		log.FieldOperation, log.OpUpsert,
		log.FieldUserID, stored.UserID,
		log.FieldCategory, stored.Category,
		log.FieldLimit, stored.Limit.String())
	return stored, nil
}

func (s *BudgetService) List(ctx context.Context, userID string) (BudgetList, error) {
	if strings.TrimSpace(userID) == "" {
		return BudgetList{}, &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}
	bs, err := s.budgets.GetAll(ctx, userID)
	if err != nil {
		return BudgetList{}, fmt.Errorf("list budgets: %w", err)
	}
	return BudgetList{Budgets: bs, Count: len(bs)}, nil
}

// Get reports a missing budget with ok == false.
func (s *BudgetService) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return core.Budget{}, false, &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return core.Budget{}, false, &core.ValidationError{Field: "category", Err: core.ErrEmptyCategory}
	}
	b, ok, err := s.budgets.Get(ctx, userID, category)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("get budget: %w", err)
	}
	return b, ok, nil
}
