// Package sheets exports budget reports to spreadsheets.
package sheets

import (
	"context"

	"moneyminder/internal/core"
)

// ReportWriter publishes one user's monthly report and returns a reference
// to where it was written.
type ReportWriter interface {
	WriteBudgetReport(ctx context.Context, userID string, status core.BudgetStatusReport, spending core.SpendingReport) (ref string, err error)
}
