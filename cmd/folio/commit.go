package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/git"
	"github.com/spf13/cobra"
)

var (
	commitMsg string
)

// commitCmd represents the commit command
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit manual edits",
	Long: `Commit stages and commits everything changed in the site, edits made
outside of Folio included.`,
	Run: func(cmd *cobra.Command, args []string) {
		if commitMsg == "" {
			fmt.Println("Error: --message is required")
			cmd.Usage()
			os.Exit(1)
		}

		root := siteRoot(nil)

		client := git.NewClient(root, "", slog.Default())
		if !client.IsRepo() {
			fatal("Failed to commit", fmt.Errorf("%s is not a git repository", root))
		}

		if err := client.Add("."); err != nil {
			fatal("Failed to stage changes", err)
		}

		status, err := client.Status()
		if err != nil {
			fatal("Failed to check status", err)
		}
		if strings.TrimSpace(status) == "" {
			fmt.Println("Nothing to commit, site is clean.")
			return
		}

		if err := client.Commit(folio.AppendFooter(commitMsg)); err != nil {
			fatal("Failed to commit", err)
		}

		fmt.Println("Committed changes.")
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
}
