package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

var (
	lintJSON   bool
	lintIgnore []string
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Check the content contract of the site",
	Long: `Lint checks every page against the content contract: parseable front
matter with a title, tagged code fences, internal links that resolve, and a
redirect table pointing at real pages. The run is read-only.

The exit code is 1 when any error-severity finding exists, so lint slots
directly into CI.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := siteRoot(args)

		report, err := folio.Lint(cmd.Context(), root, lintIgnore)
		if err != nil {
			fatal("Lint failed", err)
		}

		if lintJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Failed to encode JSON", err)
			}
		} else {
			for _, f := range report.Findings {
				fmt.Println(f)
			}
			if len(report.Findings) > 0 {
				fmt.Println()
			}
			fmt.Printf("%d errors, %d warnings\n", report.Errors, report.Warnings)
		}

		if report.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output the report as JSON")
	lintCmd.Flags().StringArrayVar(&lintIgnore, "ignore", nil, "Glob patterns to skip (stacks on folio.yaml)")
}
