package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/viper"

	"moneyminder/internal/alert"
	"moneyminder/internal/backend"
	"moneyminder/internal/core"
	"moneyminder/internal/services"
)

// app holds the services for one command invocation.
type app struct {
	transactions *services.TransactionService
	budgets      *services.BudgetService
	analytics    *services.AnalyticsService
	sweep        *services.SweepProcessor
	close        func()
}

func newApp(ctx context.Context) (*app, error) {
	bcfg, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger)
	stores, err := factory.CreateStores(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	sender, err := factory.CreateSender(ctx, bcfg)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	clock := core.NewSystemClock(appConfig.Location())
	dispatcher := alert.NewDispatcher(sender.Sender, alert.Settings{CurrencySymbol: appConfig.AlertCurrencySymbol}, logger)
	checker := alert.NewChecker(stores.Budgets, stores.Transactions, dispatcher, clock, logger)

	return &app{
		transactions: services.NewTransactionService(stores.Transactions, checker, clock, logger),
		budgets:      services.NewBudgetService(stores.Budgets, clock, logger),
		analytics:    services.NewAnalyticsService(stores.Transactions, stores.Budgets, clock, logger),
		sweep: services.NewSweepProcessor(stores.Budgets, stores.Transactions, dispatcher, clock,
			services.SweepConfig{Interval: appConfig.SweepInterval, Concurrency: appConfig.SweepConcurrency}, logger),
		close: func() {
			if sender.Cleanup != nil {
				if err := sender.Cleanup(); err != nil {
					logger.Error("Failed to close notifier", "error", err)
				}
			}
			if err := stores.Close(); err != nil {
				logger.Error("Failed to close storage", "error", err)
			}
		},
	}, nil
}

var errNoUser = &core.ValidationError{Field: "user", Err: errors.New("set --user or MONEYMINDER_USER")}

// principal is the acting user taken from --user and --email.
func principal() (core.Principal, error) {
	p := core.Principal{
		UserID: strings.TrimSpace(viper.GetString("user")),
		Email:  strings.TrimSpace(viper.GetString("email")),
	}
	if p.UserID == "" {
		return core.Principal{}, errNoUser
	}
	return p, nil
}

func jsonOutput() bool {
	return strings.EqualFold(viper.GetString("output"), "json")
}
