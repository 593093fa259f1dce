package main

import (
	"os"

	"github.com/spf13/cobra"

	"moneyminder/internal/core"
)

func analyzeCmd() *cobra.Command {
	var window core.DateWindow

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Total spending per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			r, err := a.analytics.AnalyzeSpending(cmd.Context(), p.UserID, window)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, r)
			}
			return printSpending(r)
		},
	}
	cmd.Flags().StringVar(&window.Start, "start", "", "first date, YYYY-MM-DD (default: first of the month)")
	cmd.Flags().StringVar(&window.End, "end", "", "last date, YYYY-MM-DD (default: today)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare this month's spending with every budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			r, err := a.analytics.BudgetStatus(cmd.Context(), p.UserID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, r)
			}
			return printStatus(r)
		},
	}
}
