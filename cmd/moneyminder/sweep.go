package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moneyminder/internal/cli"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate every budget once and alert on the exceeded ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.sweep.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, res)
			}
			line := fmt.Sprintf("%d users, %d budgets, %d exceeded, %d notified, %d failed",
				res.Users, res.Budgets, res.Exceeded, res.Notified, res.Failed)
			if res.Failed > 0 {
				fmt.Println(cli.WarningStyle.Render(line))
			} else {
				fmt.Println(cli.SuccessStyle.Render(line))
			}
			return nil
		},
	}
}
