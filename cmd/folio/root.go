package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	noGit   bool
	adapter string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "A Git-backed content engine for Markdown documentation",
	Long: `Folio treats a directory of Markdown pages as a content database.
It orchestrates filesystem writes and Git commits for transactional integrity,
and checks the content contract of the site: front matter, links, and code
fences.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// siteRoot resolves the directory a command operates on: an explicit argument
// wins, otherwise the nearest site root above the working directory, otherwise
// the working directory itself.
func siteRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	wd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	if root, err := folio.FindSiteRoot(wd); err == nil {
		return root
	}
	return wd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noGit, "no-git", false, "Operate without Git versioning")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "fs", "Storage adapter")
}
