package services

import (
	"context"
	"fmt"
	"strings"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/store"
)

// BudgetChecker runs the post-write budget evaluation.
type BudgetChecker interface {
	Check(ctx context.Context, p core.Principal, category string, amount core.Money) (alert.CheckResult, error)
}

// TransactionService records transactions and evaluates the affected budget
// after each write.
type TransactionService struct {
	txns    store.TransactionStore
	checker BudgetChecker
	clock   core.Clock
	newID   core.IDGenerator
	logger  *log.Logger
}

func NewTransactionService(txns store.TransactionStore, checker BudgetChecker, clock core.Clock, logger *log.Logger) *TransactionService {
	return &TransactionService{
		txns:    txns,
		checker: checker,
		clock:   clock,
		newID:   core.NewUUID,
		logger:  logger.WithComponent(log.ComponentTransaction),
	}
}

// WithIDGenerator overrides how transaction ids are minted.
func (s *TransactionService) WithIDGenerator(gen core.IDGenerator) *TransactionService {
	s.newID = gen
	return s
}

// Create validates and stores a transaction, then checks its budget. A
// failed check is logged; the stored transaction is returned regardless.
func (s *TransactionService) Create(ctx context.Context, p core.Principal, in core.TransactionInput) (core.Transaction, error) {
	t, err := core.NewTransaction(p, in, s.clock.Now(), s.newID)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.txns.Put(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, t.UserID,
		log.FieldTransactionID, t.TransactionID,
		log.FieldCategory, t.Category,
		log.FieldAmount, t.Amount.String())

	if s.checker == nil {
		return t, nil
	}
	res, err := s.checker.Check(ctx, p, t.Category, t.Amount)
	if err != nil {
		s.logger.ErrorContext(ctx, "Budget check failed",
			log.FieldUserID, t.UserID,
			log.FieldCategory, t.Category,
			log.FieldError, err)
		return t, nil
	}
	if res.Budgeted {
		s.logger.DebugContext(ctx, "Budget checked",
			log.FieldCategory, t.Category,
			log.FieldSeverity, string(res.Decision.Severity))
	}
	return t, nil
}

// ListFilter narrows a transaction listing. Empty dates default to the
// current month up to today.
type ListFilter struct {
	StartDate string
	EndDate   string
	Category  string
	Limit     int
	Cursor    string
}

// TransactionList is one page of a listing.
type TransactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
	NextCursor   string             `json:"nextCursor,omitempty"`
}

func (s *TransactionService) List(ctx context.Context, userID string, f ListFilter) (TransactionList, error) {
	if strings.TrimSpace(userID) == "" {
		return TransactionList{}, &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}

	window := core.DefaultWindow(s.clock.Now())
	if f.StartDate != "" {
		window.Start = f.StartDate
	}
	if f.EndDate != "" {
		window.End = f.EndDate
	}
	if err := window.Validate(); err != nil {
		return TransactionList{}, err
	}

	req := store.PageRequest{Limit: f.Limit, Cursor: f.Cursor}
	var (
		page store.TransactionPage
		err  error
	)
	if category := strings.TrimSpace(f.Category); category != "" {
		page, err = s.txns.QueryByUserAndCategory(ctx, userID, category, window, req)
	} else {
		page, err = s.txns.QueryByUserAndDateRange(ctx, userID, window.Start, window.End, req)
	}
	if err != nil {
		return TransactionList{}, fmt.Errorf("list transactions: %w", err)
	}

	return TransactionList{
		Transactions: page.Items,
		Count:        len(page.Items),
		NextCursor:   page.NextCursor,
	}, nil
}
