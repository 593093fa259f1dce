package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/store"
)

// SweepConfig holds configuration for the sweep processor
type SweepConfig struct {
	// Interval between sweeps when running as a loop (default: 1h)
	Interval time.Duration

	// Concurrency bounds how many users are evaluated at once (default: 4)
	Concurrency int
}

// DefaultSweepConfig returns sensible defaults
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Interval:    time.Hour,
		Concurrency: 4,
	}
}

// SweepResult summarises one pass over every budget.
type SweepResult struct {
	Users    int `json:"users"`
	Budgets  int `json:"budgets"`
	Exceeded int `json:"exceeded"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

// SweepProcessor evaluates every user's budgets against the current month
// and alerts on the exceeded ones, either once or on a fixed interval.
type SweepProcessor struct {
	budgets    store.BudgetStore
	txns       store.TransactionStore
	dispatcher *alert.Dispatcher
	clock      core.Clock
	config     SweepConfig
	logger     *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSweepProcessor(
	budgets store.BudgetStore,
	txns store.TransactionStore,
	dispatcher *alert.Dispatcher,
	clock core.Clock,
	config SweepConfig,
	logger *log.Logger,
) *SweepProcessor {
	def := DefaultSweepConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.Concurrency <= 0 {
		config.Concurrency = def.Concurrency
	}
	return &SweepProcessor{
		budgets:    budgets,
		txns:       txns,
		dispatcher: dispatcher,
		clock:      clock,
		config:     config,
		logger:     logger.WithComponent(log.ComponentSweep),
	}
}

// Sweep runs one pass. Failures for a single user are logged and counted;
// only failing to list budgets aborts the pass.
func (p *SweepProcessor) Sweep(ctx context.Context) (SweepResult, error) {
	started := time.Now()

	all, err := p.budgets.ListAll(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list budgets: %w", err)
	}

	byUser := make(map[string][]core.Budget)
	var users []string
	for _, b := range all {
		if _, seen := byUser[b.UserID]; !seen {
			users = append(users, b.UserID)
		}
		byUser[b.UserID] = append(byUser[b.UserID], b)
	}

	month := core.MonthPrefix(p.clock.Now())
	res := SweepResult{Users: len(users), Budgets: len(all)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)
	for _, user := range users {
		user := user
		budgets := byUser[user]
		g.Go(func() error {
			exceeded, notified, err := p.sweepUser(gctx, user, month, budgets)
			mu.Lock()
			defer mu.Unlock()
			res.Exceeded += exceeded
			res.Notified += notified
			if err != nil {
				res.Failed++
				p.logger.ErrorContext(gctx, "Sweep failed for user",
					log.FieldUserID, user,
					log.FieldMonth, month,
					log.FieldError, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	p.logger.InfoContext(ctx, "Sweep complete",
		log.NewFields().
			WithOperation(log.OpSweep).
			WithDuration(time.Since(started)).
			ToSlice()...)
	p.logger.InfoContext(ctx, "Sweep totals",
		log.FieldMonth, month,
		"users", res.Users,
		"budgets", res.Budgets,
		"exceeded", res.Exceeded,
		"notified", res.Notified,
		"failed", res.Failed)
	return res, nil
}

// sweepUser returns counts of exceeded and notified budgets. Notification
// failures count as a user failure once the whole user has been processed.
func (p *SweepProcessor) sweepUser(ctx context.Context, userID, month string, budgets []core.Budget) (int, int, error) {
	window := core.MonthWindow(month)
	txns, err := store.CollectAll(ctx, func(req store.PageRequest) (store.TransactionPage, error) {
		return p.txns.QueryByUserAndDateRange(ctx, userID, window.Start, window.End, req)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("load transactions: %w", err)
	}
	spending := core.Aggregate(txns)

	var exceeded, notified int
	var firstErr error
	for _, b := range budgets {
		dec := alert.Decide(alert.Input{
			UserID:     userID,
			Budget:     b,
			MonthSpent: spending.Get(b.Category),
		})
		if !dec.ShouldNotify {
			continue
		}
		exceeded++
		out := p.dispatcher.Dispatch(ctx, b.NotifyEmail, dec)
		if out.Sent {
			notified++
		} else if out.Err != nil && firstErr == nil {
			firstErr = out.Err
		}
	}
	return exceeded, notified, firstErr
}

// Start begins the sweep loop. Returns an error if already running.
func (p *SweepProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sweep processor is already running")
	}
	p.running = true
	stop, done := make(chan struct{}), make(chan struct{})
	p.stopCh, p.doneCh = stop, done
	p.mu.Unlock()

	go p.runLoop(ctx, stop, done)

	p.logger.InfoContext(ctx, "Sweep processor started",
		"interval", p.config.Interval.String(),
		"concurrency", p.config.Concurrency)
	return nil
}

// Stop signals the loop and waits for the current pass to finish. When ctx
// expires first the processor stays running and Stop may be called again.
func (p *SweepProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	if p.stopCh != nil {
		close(p.stopCh)
		p.stopCh = nil
	}
	done := p.doneCh
	p.mu.Unlock()

	select {
	case <-done:
		p.logger.InfoContext(ctx, "Sweep processor stopped")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Sweep processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *SweepProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SweepProcessor) runLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.runOnce(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *SweepProcessor) runOnce(ctx context.Context) {
	if _, err := p.Sweep(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Sweep pass failed", log.FieldError, err)
	}
}
