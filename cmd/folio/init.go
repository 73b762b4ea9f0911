package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a documentation site",
	Long: `Initialize a new Folio site in the current directory. By default this
also runs 'git init' so every write becomes a commit; pass --no-git for a
plain directory site.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		_, err = folio.Init(cwd,
			folio.WithAutoInit(true),
			folio.WithVersioning(!noGit),
			folio.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize site", err)
		}

		fmt.Println("Initialized empty Folio site in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
