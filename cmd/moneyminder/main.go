package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"moneyminder/internal/cli"
	"moneyminder/internal/config"
	"moneyminder/internal/log"
)

var (
	cfgFile string
	version = "dev"

	appConfig *config.Config
	logger    *log.Logger

	rootCmd = &cobra.Command{
		Use:   "moneyminder",
		Short: "Track spending against monthly budgets",
		Long: `moneyminder records transactions, keeps per-category monthly budgets
and emails an alert when a category goes over its limit.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./moneyminder.yaml)")
	rootCmd.PersistentFlags().String("user", "", "acting user id (env MONEYMINDER_USER)")
	rootCmd.PersistentFlags().String("email", "", "alert address of the acting user (env MONEYMINDER_EMAIL)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: memory, sqlite, postgres, dynamodb")
	rootCmd.PersistentFlags().String("notifier", "", "alert notifier: log, ses, amqp")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")

	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("email", rootCmd.PersistentFlags().Lookup("email"))
	_ = viper.BindPFlag("data_backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("notifier", rootCmd.PersistentFlags().Lookup("notifier"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(budgetsCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error:"), err)
		os.Exit(cli.ExitCode(err))
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/moneyminder")
		}
		viper.SetConfigName("moneyminder")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MONEYMINDER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := config.Load()
	cfg.Merge(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg
	logger = cli.SetupLogger(cfg, log.ComponentApp)
	return nil
}
