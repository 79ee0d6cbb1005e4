package main

import (
	"fmt"
	"os"

	"github.com/ArnavKarwa07/Automated-EDA/internal/config"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/spf13/cobra"
)

var output string = "text" // "text" or "json"

var rootCmd = &cobra.Command{
	Use:   "edactl",
	Short: "edactl - Offline automated EDA from the command line",
	Long: `edactl runs the dashboard pipeline against a local CSV file without
a running server: profile a dataset, generate a self-contained HTML
dashboard and inspect its verification report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(config.GetEnv("LOG_LEVEL", "warn"), config.GetEnv("LOG_FILE", "edactl.log"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
