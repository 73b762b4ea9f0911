package main

import (
	"fmt"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a page from the site",
	Long:  `Delete permanently removes a page from the site and stages the deletion in Git.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		root := siteRoot(nil)

		service, err := folio.New(root,
			folio.WithAdapter(adapter),
			folio.WithVersioning(!noGit),
			folio.WithMustExist(true),
		)
		if err != nil {
			fatal("Failed to open site", err)
		}

		if err := service.DeletePage(cmd.Context(), id); err != nil {
			fatal("Failed to delete page", err)
		}

		fmt.Printf("Page deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
