package services

import (
	"context"
	"fmt"
	"strings"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/sheets"
	"moneyminder/internal/store"
)

// AnalyticsService reports spending and budget compliance.
type AnalyticsService struct {
	txns    store.TransactionStore
	budgets store.BudgetStore
	clock   core.Clock
	logger  *log.Logger
}

func NewAnalyticsService(txns store.TransactionStore, budgets store.BudgetStore, clock core.Clock, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{
		txns:    txns,
		budgets: budgets,
		clock:   clock,
		logger:  logger.WithComponent(log.ComponentAnalytics),
	}
}

// AnalyzeSpending totals spending per category over window. Empty bounds
// default to the current month up to today.
func (s *AnalyticsService) AnalyzeSpending(ctx context.Context, userID string, window core.DateWindow) (core.SpendingReport, error) {
	if strings.TrimSpace(userID) == "" {
		return core.SpendingReport{}, &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}
	def := core.DefaultWindow(s.clock.Now())
	if window.Start == "" {
		window.Start = def.Start
	}
	if window.End == "" {
		window.End = def.End
	}
	if err := window.Validate(); err != nil {
		return core.SpendingReport{}, err
	}

	txns, err := store.CollectAll(ctx, func(req store.PageRequest) (store.TransactionPage, error) {
		return s.txns.QueryByUserAndDateRange(ctx, userID, window.Start, window.End, req)
	})
	if err != nil {
		return core.SpendingReport{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.NewSpendingReport(window, txns), nil
}

// BudgetStatus evaluates every budget of the user against the current month.
func (s *AnalyticsService) BudgetStatus(ctx context.Context, userID string) (core.BudgetStatusReport, error) {
	return s.budgetStatusFor(ctx, userID, core.MonthPrefix(s.clock.Now()))
}

func (s *AnalyticsService) budgetStatusFor(ctx context.Context, userID, month string) (core.BudgetStatusReport, error) {
	if strings.TrimSpace(userID) == "" {
		return core.BudgetStatusReport{}, &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}

	budgets, err := s.budgets.GetAll(ctx, userID)
	if err != nil {
		return core.BudgetStatusReport{}, fmt.Errorf("load budgets: %w", err)
	}

	window := core.MonthWindow(month)
	txns, err := store.CollectAll(ctx, func(req store.PageRequest) (store.TransactionPage, error) {
		return s.txns.QueryByUserAndDateRange(ctx, userID, window.Start, window.End, req)
	})
	if err != nil {
		return core.BudgetStatusReport{}, fmt.Errorf("load %s transactions: %w", month, err)
	}

	statuses := core.Evaluate(budgets, core.Aggregate(txns))
	for _, st := range statuses {
		if alert.Classify(st.Spent, st.Limit) == alert.SeverityOK {
			continue
		}
		s.logger.WarnContext(ctx, "Budget at or over limit",
			log.NewFields().
				WithUser(userID).
				WithBudget(st.Category, st.Limit.String(), st.Spent.String(), st.PercentageUsed.String()).
				ToSlice()...)
	}
	return core.BudgetStatusReport{Month: month, BudgetStatus: statuses}, nil
}

// ExportMonth writes the user's current month report through w and returns
// the writer's reference for it.
func (s *AnalyticsService) ExportMonth(ctx context.Context, userID string, w sheets.ReportWriter) (string, error) {
	now := s.clock.Now()
	month := core.MonthPrefix(now)

	status, err := s.budgetStatusFor(ctx, userID, month)
	if err != nil {
		return "", err
	}
	spending, err := s.AnalyzeSpending(ctx, userID, core.DefaultWindow(now))
	if err != nil {
		return "", err
	}

	ref, err := w.WriteBudgetReport(ctx, userID, status, spending)
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	s.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldUserID, userID,
		log.FieldMonth, month,
		"ref", ref)
	return ref, nil
}
