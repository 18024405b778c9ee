package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbuian-api",
	Short: "Dbuian Fashion campus store backend",
	Long: `REST backend for the Dbuian Fashion campus store: product catalog,
shopping cart, cash-on-delivery orders, reviews and image uploads.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
