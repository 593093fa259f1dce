package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moneyminder/internal/cli"
	"moneyminder/internal/core"
	"moneyminder/internal/services"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and list transactions",
	}
	cmd.AddCommand(transactionsAddCmd())
	cmd.AddCommand(transactionsListCmd())
	return cmd
}

func transactionsAddCmd() *cobra.Command {
	var in core.TransactionInput
	var amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction and check its category budget",
		Example: `  moneyminder transactions add --amount 12.50 --category food
  moneyminder tx add --amount 40 --category rent --date 2024-06-01 --method card`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			if amount = strings.TrimSpace(amount); amount != "" {
				n := json.Number(amount)
				in.Amount = &n
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			t, err := a.transactions.Create(cmd.Context(), p, in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, t)
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Recorded %s on %s (%s)", t.Amount, t.Category, t.TransactionID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "positive amount, e.g. 12.50")
	cmd.Flags().StringVar(&in.Category, "category", "", "spending category")
	cmd.Flags().StringVar(&in.Description, "description", "", "free-text note")
	cmd.Flags().StringVar(&in.Date, "date", "", "YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&in.PaymentMethod, "method", "", "payment method (default: other)")
	return cmd
}

func transactionsListCmd() *cobra.Command {
	var f services.ListFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Long: `List one page of transactions. Without dates the current month up to
today is listed. Pass the printed cursor to --cursor for the next page.`,
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

			list, err := a.transactions.List(cmd.Context(), p.UserID, f)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, list)
			}
			return printTransactions(list.Transactions, list.NextCursor)
		},
	}

	cmd.Flags().StringVar(&f.StartDate, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.EndDate, "end", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.Category, "category", "", "only this category")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size (default 100, max 1000)")
	cmd.Flags().StringVar(&f.Cursor, "cursor", "", "continue from a previous page")
	return cmd
}
