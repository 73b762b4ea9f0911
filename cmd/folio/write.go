package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
	"github.com/spf13/cobra"
)

var (
	writeID      string
	writeContent string
	writeTitle   string
	writeExcerpt string
	changeReason string
	writeType    string
	writeScope   string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a page",
	Long: `Create or update a page with the given ID and content. Title and
excerpt land in the front matter; the change reason shapes the commit message.`,
	Run: func(cmd *cobra.Command, args []string) {
		if writeID == "" {
			fmt.Println("Error: --id is required")
			cmd.Usage()
			os.Exit(1)
		}

		root := siteRoot(nil)

		service, err := folio.New(root,
			folio.WithAdapter(adapter),
			folio.WithVersioning(!noGit),
			folio.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open site", err)
		}

		var metadata core.Metadata
		if writeTitle != "" || writeExcerpt != "" {
			metadata = core.Metadata{}
			if writeTitle != "" {
				metadata["title"] = writeTitle
			}
			if writeExcerpt != "" {
				metadata["excerpt"] = writeExcerpt
			}
		}

		// Logic to construct message
		var finalMsg string
		if writeType != "" {
			if changeReason == "" {
				changeReason = fmt.Sprintf("update %s", writeID)
			}
			finalMsg = folio.FormatChangeReason(writeType, writeScope, changeReason, "")
		} else {
			if changeReason != "" {
				finalMsg = folio.AppendFooter(changeReason)
			} else {
				scope := "pages"
				if writeScope != "" {
					scope = writeScope
				}
				finalMsg = folio.FormatChangeReason(folio.CommitTypeDocs, scope, fmt.Sprintf("update %s", writeID), "")
			}
		}

		// Pass commit message via context (Adapter specific requirement)
		ctx := context.WithValue(cmd.Context(), core.ChangeReasonKey, finalMsg)

		if err := service.SavePage(ctx, writeID, writeContent, metadata); err != nil {
			fatal("Failed to save page", err)
		}

		fmt.Printf("Page '%s' saved.\n", writeID)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "Page ID (site path)")
	writeCmd.Flags().StringVar(&writeContent, "content", "", "Page body")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Front matter title")
	writeCmd.Flags().StringVar(&writeExcerpt, "excerpt", "", "Front matter excerpt")
	writeCmd.Flags().StringVarP(&changeReason, "message", "m", "", "Change reason (audit note)")
	writeCmd.Flags().StringVarP(&writeType, "type", "t", "", "Change type (feat, fix, etc)")
	writeCmd.Flags().StringVarP(&writeScope, "scope", "s", "", "Commit scope")
	writeCmd.MarkFlagRequired("id")
}
