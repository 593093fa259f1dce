package sheets

import (
	"fmt"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
)

// TabName is the sheet a month's report is written to.
func TabName(month string) string {
	return month + " Budget"
}

// BuildRows lays a report out as spreadsheet rows: a header, one row per
// budget, then spending per category with totals.
func BuildRows(userID string, status core.BudgetStatusReport, spending core.SpendingReport) [][]any {
	rows := [][]any{
		{"MoneyMinder budget report", status.Month},
		{"User", userID},
		{},
		{"Category", "Limit", "Spent", "Remaining", "% Used", "Status"},
	}
	for _, st := range status.BudgetStatus {
		rows = append(rows, []any{
			st.Category,
			st.Limit.String(),
			st.Spent.String(),
			st.Remaining.String(),
			st.PercentageUsed.String(),
			string(alert.Classify(st.Spent, st.Limit)),
		})
	}

	rows = append(rows,
		[]any{},
		[]any{"Spending", fmt.Sprintf("%s to %s", spending.StartDate, spending.EndDate)},
		[]any{"Category", "Spent"},
	)
	for _, cat := range spending.SpendingByCategory.Categories() {
		rows = append(rows, []any{cat, spending.SpendingByCategory.Get(cat).String()})
	}
	rows = append(rows,
		[]any{"Total", spending.TotalSpent.String()},
		[]any{"Transactions", spending.TransactionCount},
	)
	return rows
}
