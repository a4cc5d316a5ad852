package main

import (
	"fmt"
	"strings"

	"go-chi-calculator/internal/calculator"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression once",
		Long: `Evaluate an expression built from decimal numbers and + - * /.
Multiplication and division bind tighter than addition and subtraction.`,
		Example: `  calc eval "2+3*4"
  calc eval -- "-5/2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(strings.Fields(strings.Join(args, "")), "")

			result, err := calculator.Evaluate(expr)
			if err != nil {
				color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), calculator.ErrorMessage(err))
				return fmt.Errorf("evaluate %q: %w", expr, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", expr,
				color.New(color.FgGreen, color.Bold).Sprint(calculator.FormatResult(result)))
			return nil
		},
	}
}
