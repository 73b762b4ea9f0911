package main

import (
	"fmt"

	"github.com/aretw0/folio"
	"github.com/spf13/cobra"
)

var (
	linksBroken  bool
	linksOrphans bool
	backlinksOf  string
)

var linksCmd = &cobra.Command{
	Use:   "links [path]",
	Short: "Query the cross-reference graph of the site",
	Long: `Links builds the site's cross-reference graph and answers queries
against it: pages nothing links to, internal links that resolve nowhere, and
the backlinks of a single page. Without flags it prints a summary.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := siteRoot(args)

		graph, err := folio.Links(cmd.Context(), root)
		if err != nil {
			fatal("Failed to build link graph", err)
		}

		switch {
		case backlinksOf != "":
			if !graph.HasPage(backlinksOf) {
				fatal("Failed to look up backlinks", fmt.Errorf("no page with ID %q", backlinksOf))
			}
			for _, id := range graph.Backlinks(backlinksOf) {
				fmt.Println(id)
			}
		case linksBroken:
			for _, b := range graph.Broken() {
				fmt.Printf("%s -> %s\n", b.From, b.Destination)
			}
		case linksOrphans:
			for _, id := range graph.Orphans() {
				fmt.Println(id)
			}
		default:
			fmt.Printf("pages: %d\n", len(graph.Pages()))
			fmt.Printf("broken links: %d\n", len(graph.Broken()))
			fmt.Printf("orphans: %d\n", len(graph.Orphans()))
			fmt.Printf("broken redirects: %d\n", len(graph.BrokenRedirects()))
		}
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.Flags().BoolVar(&linksBroken, "broken", false, "List internal links that do not resolve")
	linksCmd.Flags().BoolVar(&linksOrphans, "orphans", false, "List pages nothing links to")
	linksCmd.Flags().StringVar(&backlinksOf, "backlinks", "", "List the pages linking to the given ID")
}
