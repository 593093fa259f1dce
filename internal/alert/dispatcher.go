package alert

import (
	"context"
	"errors"

	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/notify"
)

// ErrNoRecipient is wrapped in a NotificationError when there is nobody to
// notify.
var ErrNoRecipient = errors.New("no recipient email")

// DispatchResult reports what happened to one decision. Err is always a
// *core.NotificationError when set.
type DispatchResult struct {
	Sent bool
	Err  error
}

// Dispatcher turns exceeded decisions into emails. Failures are logged and
// reported, never returned as errors.
type Dispatcher struct {
	sender   notify.Sender
	settings Settings
	logger   *log.Logger
}

func NewDispatcher(sender notify.Sender, settings Settings, logger *log.Logger) *Dispatcher {
	if settings.CurrencySymbol == "" {
		settings = DefaultSettings()
	}
	return &Dispatcher{
		sender:   sender,
		settings: settings,
		logger:   logger.WithComponent(log.ComponentAlert),
	}
}

// Dispatch sends one alert for d when it asks for one.
func (d *Dispatcher) Dispatch(ctx context.Context, to string, dec Decision) DispatchResult {
	if !dec.ShouldNotify {
		return DispatchResult{}
	}
	if to == "" {
		return d.fail(ctx, to, dec, ErrNoRecipient)
	}

	email, err := Compose(to, dec, d.settings)
	if err != nil {
		return d.fail(ctx, to, dec, err)
	}
	if err := d.sender.Send(ctx, email); err != nil {
		return d.fail(ctx, to, dec, err)
	}

	d.logger.InfoContext(ctx, "Budget alert sent",
		log.NewFields().
			WithOperation(log.OpNotify).
			WithUser(dec.UserID).
			WithBudget(dec.Category, dec.Status.Limit.String(), dec.Status.Spent.String(), dec.Status.PercentageUsed.String()).
			ToSlice()...)
	return DispatchResult{Sent: true}
}

func (d *Dispatcher) fail(ctx context.Context, to string, dec Decision, err error) DispatchResult {
	nerr := &core.NotificationError{To: to, Err: err}
	d.logger.ErrorContext(ctx, "Failed to send budget alert",
		log.NewFields().
			WithOperation(log.OpNotify).
			WithUser(dec.UserID).
			WithError(nerr).
			ToSlice()...)
	return DispatchResult{Err: nerr}
}
