package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"moneyminder/internal/alert"
	"moneyminder/internal/cli"
	"moneyminder/internal/core"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, headers ...any) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, cli.HeaderStyle.Render(fmt.Sprint(h)))
	}
	fmt.Fprintln(tw)
	return tw
}

func printTransactions(txns []core.Transaction, next string) error {
	if len(txns) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No transactions."))
		return nil
	}
	tw := newTable(os.Stdout, "DATE", "CATEGORY", "AMOUNT", "METHOD", "DESCRIPTION", "ID")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.Date, t.Category, t.Amount, t.PaymentMethod, t.Description, t.TransactionID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if next != "" {
		fmt.Println(cli.SubtleStyle.Render("more: --cursor " + next))
	}
	return nil
}

func printBudgets(bs []core.Budget) error {
	if len(bs) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No budgets. Use 'moneyminder budgets set' to create one."))
		return nil
	}
	tw := newTable(os.Stdout, "CATEGORY", "LIMIT", "UPDATED")
	for _, b := range bs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Category, b.Limit, b.UpdatedAt)
	}
	return tw.Flush()
}

func printSpending(r core.SpendingReport) error {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Spending %s to %s", r.StartDate, r.EndDate)))
	tw := newTable(os.Stdout, "CATEGORY", "SPENT")
	for _, cat := range r.SpendingByCategory.Categories() {
		fmt.Fprintf(tw, "%s\t%s\n", cat, r.SpendingByCategory[cat])
	}
	fmt.Fprintf(tw, "%s\t%s\n", cli.HeaderStyle.Render("TOTAL"), r.TotalSpent)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d transactions", r.TransactionCount)))
	return nil
}

func printStatus(r core.BudgetStatusReport) error {
	fmt.Println(cli.FormatTitle("Budget status " + r.Month))
	if len(r.BudgetStatus) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No budgets."))
		return nil
	}
	tw := newTable(os.Stdout, "CATEGORY", "LIMIT", "SPENT", "REMAINING", "USED %")
	for _, s := range r.BudgetStatus {
		sev := string(alert.Classify(s.Spent, s.Limit))
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			cli.SeverityStyle(sev).Render(s.Category), s.Limit, s.Spent, s.Remaining, s.PercentageUsed)
	}
	return tw.Flush()
}
