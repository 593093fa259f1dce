// Package memory keeps exported reports in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneyminder/internal/core"
	"moneyminder/internal/sheets"
)

// Report is one captured export.
type Report struct {
	UserID   string
	Status   core.BudgetStatusReport
	Spending core.SpendingReport
	Rows     [][]any
}

// Store implements sheets.ReportWriter.
type Store struct {
	mu      sync.Mutex
	reports []Report
}

var _ sheets.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// WriteBudgetReport stores the report and returns a synthetic reference.
func (s *Store) WriteBudgetReport(_ context.Context, userID string, status core.BudgetStatusReport, spending core.SpendingReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, Report{
		UserID:   userID,
		Status:   status,
		Spending: spending,
		Rows:     sheets.BuildRows(userID, status, spending),
	})
	return fmt.Sprintf("mem:%s:%d", sheets.TabName(status.Month), len(s.reports)), nil
}

// Reports returns a copy of everything written so far.
func (s *Store) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}
