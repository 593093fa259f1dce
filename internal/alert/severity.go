// Package alert decides when a budget breach warrants a notification and
// dispatches it.
package alert

import "moneyminder/internal/core"

// Severity grades how close spending is to a budget limit.
type Severity string

const (
	SeverityOK        Severity = "ok"
	SeverityNearLimit Severity = "near-limit"
	SeverityExceeded  Severity = "exceeded"
)

// NearLimitPercent is the share of the limit at which a budget is near-limit.
const NearLimitPercent = 90

var (
	hundred   = core.MoneyFromInt(100)
	nearLimit = core.MoneyFromInt(NearLimitPercent)
)

// Classify compares raw totals, never the rounded percentage. A zero limit
// is always ok.
func Classify(spent, limit core.Money) Severity {
	if !limit.IsPositive() {
		return SeverityOK
	}
	if spent.GreaterThan(limit) {
		return SeverityExceeded
	}
	if spent.Mul(hundred).GreaterThanOrEqual(limit.Mul(nearLimit)) {
		return SeverityNearLimit
	}
	return SeverityOK
}

// Input is everything a decision depends on.
type Input struct {
	UserID     string
	Category   string
	Amount     core.Money // amount of the triggering transaction, zero for sweeps
	Budget     core.Budget
	MonthSpent core.Money
}

// Decision is the outcome of evaluating one (user, category, month).
type Decision struct {
	UserID       string
	Category     string
	Amount       core.Money
	Severity     Severity
	Status       core.BudgetStatus
	ShouldNotify bool
}

// Decide is a pure function of its input. Only exceeded budgets notify.
func Decide(in Input) Decision {
	sev := Classify(in.MonthSpent, in.Budget.Limit)
	category := in.Category
	if category == "" {
		category = in.Budget.Category
	}
	return Decision{
		UserID:       in.UserID,
		Category:     category,
		Amount:       in.Amount,
		Severity:     sev,
		Status:       core.StatusFor(in.Budget, in.MonthSpent),
		ShouldNotify: sev == SeverityExceeded,
	}
}
