package main

import (
	"go-chi-calculator/internal/app"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/tui"

	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive keypad",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := app.Open(cfg, observability.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(calculator.NewSession(a.History), a.History)
		},
	}
}
