package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <file.csv>",
	Short: "Profile a local CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		frame, err := dataset.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("failed to parse CSV: %w", err)
		}

		rep := profile.Describe(frame)

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		printProfile(rep)
		return nil
	},
}

func printProfile(rep *profile.Report) {
	fmt.Printf("Rows:    %d\n", rep.Info.Rows)
	fmt.Printf("Columns: %d\n", rep.Info.Columns)
	fmt.Printf("Quality: %.1f/100\n", rep.Quality.Score)
	fmt.Printf("Missing: %.1f%%  Duplicates: %.1f%%\n", rep.Quality.MissingPct, rep.Quality.DuplicatePct)

	if len(rep.Quality.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, issue := range rep.Quality.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	if len(rep.Numeric) > 0 {
		fmt.Println("\nNumeric columns:")
		for name, s := range rep.Numeric {
			fmt.Printf("  %-24s mean=%-10.2f std=%-10.2f min=%-10.2f max=%-10.2f %s\n",
				name, s.Mean, s.Std, s.Min, s.Max, s.Distribution)
		}
	}

	if len(rep.Categorical) > 0 {
		fmt.Println("\nCategorical columns:")
		for name, s := range rep.Categorical {
			fmt.Printf("  %-24s unique=%-6d mode=%s\n", name, s.UniqueCount, s.Mode)
		}
	}

	if len(rep.StrongPairs) > 0 {
		fmt.Println("\nStrong correlations:")
		for _, p := range rep.StrongPairs {
			fmt.Printf("  %s / %s: %.2f\n", p.ColumnA, p.ColumnB, p.Correlation)
		}
	}
}
