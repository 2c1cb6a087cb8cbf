// Package cli implements the vikuld command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vikuld",
	Short: "Household dispute ledger daemon",
	Long: `vikuld runs the vikula2 service: a shared activity ledger for a
two-person household, with derived trust scores, a cosmetic shop and an
AI-assisted court for contested complaints.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
