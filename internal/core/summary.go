package core

import "sort"

// Spending maps a category to the total spent in it.
type Spending map[string]Money

// SpendingReport is the result of analysing a user's spending over a window.
type SpendingReport struct {
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	SpendingByCategory Spending `json:"spendingByCategory"`
	TotalSpent         Money    `json:"totalSpent"`
	TransactionCount   int      `json:"transactionCount"`
}

// BudgetStatusReport compares the budgets of a user with a month of spending.
type BudgetStatusReport struct {
	Month        string         `json:"month"`
	BudgetStatus []BudgetStatus `json:"budgetStatus"`
}

// Aggregate sums transaction amounts per category. The result does not
// depend on input order.
func Aggregate(txns []Transaction) Spending {
	out := make(Spending)
	for _, t := range txns {
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// Total is the sum over all categories.
func (s Spending) Total() Money {
	total := Money{}
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// Get returns the amount for category, zero when absent.
func (s Spending) Get(category string) Money {
	return s[category]
}

// Categories returns the category names in sorted order.
func (s Spending) Categories() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Evaluate joins budgets with spending, one status per budget in input
// order. Categories that have spending but no budget are left out.
func Evaluate(budgets []Budget, spending Spending) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, StatusFor(b, spending.Get(b.Category)))
	}
	return out
}

// StatusFor computes the status of a single budget given what was spent.
func StatusFor(b Budget, spent Money) BudgetStatus {
	return BudgetStatus{
		Category:       b.Category,
		Limit:          b.Limit,
		Spent:          spent,
		Remaining:      b.Limit.Sub(spent),
		PercentageUsed: spent.Percent(b.Limit),
	}
}

// NewSpendingReport aggregates txns over window.
func NewSpendingReport(window DateWindow, txns []Transaction) SpendingReport {
	spending := Aggregate(txns)
	return SpendingReport{
		StartDate:          window.Start,
		EndDate:            window.End,
		SpendingByCategory: spending,
		TotalSpent:         spending.Total(),
		TransactionCount:   len(txns),
	}
}
