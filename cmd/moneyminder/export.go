package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moneyminder/internal/cli"
	gsheet "moneyminder/internal/sheets/google"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write this month's budget report to a Google spreadsheet",
		Long: `Write this month's budget status and spending to a tab named
"<YYYY-MM> Budget", replacing its previous contents. Credentials come from
GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
GOOGLE_APPLICATION_CREDENTIALS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := principal()
			if err != nil {
				return err
			}
			if spreadsheetID == "" {
				spreadsheetID = appConfig.GoogleSpreadsheetID
			}

			writer, err := gsheet.New(cmd.Context(), gsheet.ConfigFromEnv(spreadsheetID))
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			ref, err := a.analytics.ExportMonth(cmd.Context(), p.UserID, writer)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, map[string]string{"ref": ref})
			}
			fmt.Println(cli.SuccessStyle.Render("Exported to " + ref))
			return nil
		},
	}
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "spreadsheet id (default: GOOGLE_SPREADSHEET_ID)")
	return cmd
}
