package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dashboard"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/spf13/cobra"
)

var (
	generateType     string
	generateTitle    string
	generateOut      string
	generateAI       bool
	generateTimeout  time.Duration
	generateVerifyTo string
)

var generateCmd = &cobra.Command{
	Use:   "generate <file.csv>",
	Short: "Generate an HTML dashboard from a local CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		frame, err := dataset.ReadCSV(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse CSV: %w", err)
		}

		if generateTitle == "" {
			generateTitle = filepath.Base(args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		var provider llm.Provider
		if generateAI {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("--ai requires GEMINI_API_KEY to be set")
			}
			gemini, err := llm.NewGeminiProvider(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
			if err != nil {
				return fmt.Errorf("failed to configure Gemini: %w", err)
			}
			provider = gemini
		}

		pipeline := dashboard.NewPipeline(provider)
		result, err := pipeline.Run(ctx, dashboard.Input{
			Frame:         frame,
			Title:         generateTitle,
			DashboardType: generateType,
		}, func(ev dashboard.ProgressEvent) {
			if output == "text" && ev.Status == "completed" {
				fmt.Printf("  %-10s done\n", ev.Step)
			}
		})
		if err != nil {
			return err
		}

		if err := os.WriteFile(generateOut, []byte(result.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write dashboard: %w", err)
		}

		if generateVerifyTo != "" {
			buf, err := json.MarshalIndent(result.Verification, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(generateVerifyTo, buf, 0644); err != nil {
				return fmt.Errorf("failed to write verification report: %w", err)
			}
		}

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"output":       generateOut,
				"generator":    result.Generator,
				"charts":       len(result.ChartSpecs),
				"verification": result.Verification,
				"errors":       result.Errors,
			})
		}

		fmt.Printf("\nDashboard written to %s\n", generateOut)
		fmt.Printf("Generator: %s  Charts: %d  Verification: %.0f%%\n",
			result.Generator, len(result.ChartSpecs), result.Verification.Score*100)
		for _, check := range result.Verification.Checks {
			mark := "ok"
			if !check.Passed {
				mark = "FAIL"
			}
			fmt.Printf("  [%-4s] %s\n", mark, check.Name)
		}
		if len(result.Errors) > 0 {
			fmt.Println("\nRecovered errors:")
			for _, e := range result.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateType, "type", "exploratory", "Dashboard type: executive, data_quality, exploratory or timeseries")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "Dashboard title (defaults to the file name)")
	generateCmd.Flags().StringVar(&generateOut, "out", "dashboard.html", "Output HTML path")
	generateCmd.Flags().BoolVar(&generateAI, "ai", false, "Use Gemini for insights and dashboard generation")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 5*time.Minute, "Generation timeout")
	generateCmd.Flags().StringVar(&generateVerifyTo, "verify-out", "", "Also write the verification report as JSON")
}
