package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	rootCmd    = &cobra.Command{
		Use:   "reportforge",
		Short: "Reportforge - Assessment report assembler",
		Long: `Reportforge assembles multi-section assessment reports from tabular
test-score exports. It generates one LaTeX section per cognitive domain
with data, protects hand-edited sections from being overwritten, and
coordinates the two-phase document render.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
