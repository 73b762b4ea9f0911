package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

// settleDelay coalesces event bursts (editor save, git checkout) into one
// lint run.
const settleDelay = 300 * time.Millisecond

var watchIgnore []string

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch the site and re-lint on every change",
	Long: `Watch lints the site, then re-lints whenever a markdown page changes.
Stop it with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := siteRoot(args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service, err := folio.New(root,
			folio.WithReadOnly(true),
			folio.WithMustExist(true),
			folio.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open site", err)
		}

		events, err := service.Watch(ctx, "**/*.md")
		if err != nil {
			fatal("Failed to watch site", err)
		}

		relint := func() {
			report, err := folio.Lint(ctx, root, watchIgnore)
			if err != nil {
				slog.Error("lint run failed", "error", err)
				return
			}
			for _, f := range report.Findings {
				fmt.Println(f)
			}
			fmt.Printf("%d errors, %d warnings\n", report.Errors, report.Warnings)
		}

		fmt.Println("Watching", root)
		relint()

		timer := time.NewTimer(settleDelay)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				slog.Debug("change detected", "event", e.String())
				timer.Reset(settleDelay)
			case <-timer.C:
				fmt.Printf("\nChange detected at %s\n", time.Now().Format("15:04:05"))
				relint()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringArrayVar(&watchIgnore, "ignore", nil, "Glob patterns to skip (stacks on folio.yaml)")
}
