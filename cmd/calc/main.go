package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     config.Config
	rootCmd = &cobra.Command{
		Use:   "calc",
		Short: "Decimal calculator with a live preview and a history log",
		Long: `calc edits arithmetic expressions one key at a time, shows the result
as you type and keeps every applied calculation in a local history.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/calculator/config.yaml)")

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(evalCmd())
	rootCmd.AddCommand(historyCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// .env is optional; existing variables win.
	_ = godotenv.Load()

	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}
	return nil
}

// setupLogging points the shared logger at stderr. The TUI skips it so log
// lines never land on the alternate screen.
func setupLogging() error {
	if err := observability.InitLogger(cfg.Logging.Level, "console"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}
