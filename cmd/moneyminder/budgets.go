package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moneyminder/internal/cli"
	"moneyminder/internal/core"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly category budgets",
	}
	cmd.AddCommand(budgetsSetCmd())
	cmd.AddCommand(budgetsListCmd())
	cmd.AddCommand(budgetsGetCmd())
	return cmd
}

func budgetsSetCmd() *cobra.Command {
	var category, limit string

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Create a budget or replace its limit",
		Example: `  moneyminder budgets set --category food --limit 500`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			in := core.BudgetInput{Category: category}
			if limit = strings.TrimSpace(limit); limit != "" {
				n := json.Number(limit)
				in.Limit = &n
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			b, err := a.budgets.Upsert(cmd.Context(), p, in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, b)
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Budget for %s set to %s", b.Category, b.Limit)))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "spending category")
	cmd.Flags().StringVar(&limit, "limit", "", "monthly limit, zero or more")
	return cmd
}

func budgetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every budget of the user",
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

			list, err := a.budgets.List(cmd.Context(), p.UserID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, list)
			}
			return printBudgets(list.Budgets)
		},
	}
}

func budgetsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get CATEGORY",
		Short: "Show the budget of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			b, ok, err := a.budgets.Get(cmd.Context(), p.UserID, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no budget for category %q", args[0])
			}
			if jsonOutput() {
				return printJSON(os.Stdout, b)
			}
			return printBudgets([]core.Budget{b})
		},
	}
}
