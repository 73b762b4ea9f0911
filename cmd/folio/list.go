package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	filterTag  string
	listDrafts bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages of the site",
	Long: `List every page with its title, straight from the site index. Draft
pages are hidden unless --drafts is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root := siteRoot(nil)

		service, err := folio.New(root, folio.WithReadOnly(true), folio.WithMustExist(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		entries, err := service.Index(cmd.Context())
		if err != nil {
			fatal("Failed to index site", err)
		}

		var filtered []core.IndexEntry
		for _, entry := range entries {
			if entry.Draft && !listDrafts {
				continue
			}
			if filterTag != "" && !slices.Contains(entry.Tags, filterTag) {
				continue
			}
			filtered = append(filtered, entry)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, entry := range filtered {
			line := entry.ID
			if entry.Title != "" {
				line += " - " + entry.Title
			}
			if entry.Draft {
				line += " [draft]"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter pages by tag")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include draft pages")
}
