package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"moneyminder/internal/alert"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/notify"
	"moneyminder/internal/store/memory"
)

var (
	ist   = time.FixedZone("IST", 5*3600+1800)
	june  = core.FixedClock{T: time.Date(2024, 6, 15, 10, 0, 0, 0, ist)}
	alice = core.Principal{UserID: "alice", Email: "alice@example.com"}
)

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

// outbox records every email handed to it. When hold is set, Send reports on
// entered and blocks until hold is closed.
type outbox struct {
	mu      sync.Mutex
	sent    []notify.Email
	fail    error
	hold    chan struct{}
	entered chan struct{}
}

func (o *outbox) Send(_ context.Context, e notify.Email) error {
	if o.hold != nil {
		o.entered <- struct{}{}
		<-o.hold
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.sent = append(o.sent, e)
	return nil
}

func (o *outbox) emails() []notify.Email {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Email(nil), o.sent...)
}

type fixture struct {
	store     *memory.Store
	outbox    *outbox
	txns      *TransactionService
	budgets   *BudgetService
	analytics *AnalyticsService
	sweep     *SweepProcessor
}

func newFixture() *fixture {
	logger := log.Discard()
	st := memory.New()
	box := &outbox{}
	dispatcher := alert.NewDispatcher(box, alert.DefaultSettings(), logger)
	checker := alert.NewChecker(st, st, dispatcher, june, logger)
	return &fixture{
		store:     st,
		outbox:    box,
		txns:      NewTransactionService(st, checker, june, logger),
		budgets:   NewBudgetService(st, june, logger),
		analytics: NewAnalyticsService(st, st, june, logger),
		sweep:     NewSweepProcessor(st, st, dispatcher, june, SweepConfig{Concurrency: 2}, logger),
	}
}
