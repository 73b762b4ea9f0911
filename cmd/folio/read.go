package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a page",
	Long:  `Read a page by its ID. Outputs raw markdown content by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		root := siteRoot(nil)

		// Reading must not mutate the site, so Git and the dev sandbox are
		// both out of the picture.
		service, err := folio.New(root, folio.WithReadOnly(true), folio.WithMustExist(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		page, err := service.GetPage(cmd.Context(), id)
		if err != nil {
			fatal("Failed to read page", err)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(page); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Print(page.Content)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
