package main

import (
	"fmt"
	"text/tabwriter"

	"go-chi-calculator/internal/app"
	"go-chi-calculator/internal/observability"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear recorded calculations",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded calculations, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(); err != nil {
				return err
			}
			a, err := app.Open(cfg, observability.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			calcs, err := a.History.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(calcs) == 0 {
				fmt.Fprintln(out, "No calculations recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tEXPRESSION\tRESULT")
			for _, c := range calcs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID,
					c.CreatedAt.Local().Format("2006-01-02 15:04:05"), c.Expression, c.Result)
			}
			return w.Flush()
		},
	}
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded calculation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(); err != nil {
				return err
			}
			a, err := app.Open(cfg, observability.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.History.Clear(cmd.Context()); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}
