package alert

import (
	"context"
	"fmt"

	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/store"
)

// CheckResult describes the evaluation that followed one transaction write.
type CheckResult struct {
	// Budgeted is false when the category has no budget; nothing else is set then.
	Budgeted bool
	Decision Decision
	Dispatch DispatchResult
}

// Checker evaluates a category's current month after a transaction is written.
type Checker struct {
	budgets    store.BudgetStore
	txns       store.TransactionStore
	dispatcher *Dispatcher
	clock      core.Clock
	logger     *log.Logger
}

func NewChecker(budgets store.BudgetStore, txns store.TransactionStore, dispatcher *Dispatcher, clock core.Clock, logger *log.Logger) *Checker {
	return &Checker{
		budgets:    budgets,
		txns:       txns,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger.WithComponent(log.ComponentAlert),
	}
}

// Check loads the budget and this month's spending for category and alerts
// the principal when the budget is exceeded. Store failures are returned;
// notification failures only show up in the result.
func (c *Checker) Check(ctx context.Context, p core.Principal, category string, amount core.Money) (CheckResult, error) {
	budget, ok, err := c.budgets.Get(ctx, p.UserID, category)
	if err != nil {
		return CheckResult{}, fmt.Errorf("load budget: %w", err)
	}
	if !ok {
		return CheckResult{}, nil
	}

	month := core.MonthPrefix(c.clock.Now())
	txns, err := store.CollectAll(ctx, func(req store.PageRequest) (store.TransactionPage, error) {
		return c.txns.QueryByUserCategoryAndMonth(ctx, p.UserID, category, month, req)
	})
	if err != nil {
		return CheckResult{}, fmt.Errorf("load %s spending: %w", month, err)
	}

	dec := Decide(Input{
		UserID:     p.UserID,
		Category:   category,
		Amount:     amount,
		Budget:     budget,
		MonthSpent: core.Aggregate(txns).Get(category),
	})

	res := CheckResult{Budgeted: true, Decision: dec}
	switch dec.Severity {
	case SeverityNearLimit:
		c.logger.WarnContext(ctx, "Budget near limit",
			log.NewFields().
				WithUser(p.UserID).
				WithBudget(category, dec.Status.Limit.String(), dec.Status.Spent.String(), dec.Status.PercentageUsed.String()).
				ToSlice()...)
	case SeverityExceeded:
		res.Dispatch = c.dispatcher.Dispatch(ctx, p.Email, dec)
	}
	return res, nil
}
