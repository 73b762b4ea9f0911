package folio_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
)

// Example_basic demonstrates how to open a site, save a page, and read it
// back. Versioning is disabled here to keep the example self-contained; with
// it enabled, every save becomes a Git commit.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "folio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	site, err := folio.New(tmpDir, folio.WithAutoInit(true), folio.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	err = site.SavePage(ctx, "guides/install", "Run the installer and follow the prompts.", core.Metadata{
		"title":   "Install",
		"excerpt": "Set it up in five minutes.",
		"tags":    []string{"setup"},
	})
	if err != nil {
		log.Fatal(err)
	}

	page, err := site.GetPage(ctx, "guides/install")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found page: %s (%s)\n", page.ID, page.Title())
	// Output:
	// Found page: guides/install (Install)
}

// ExampleNewTypedRepository demonstrates the generic typed wrapper for
// type-safe front matter access.
func ExampleNewTypedRepository() {
	tmpDir, err := os.MkdirTemp("", "folio-typed-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	repo, err := folio.Init(filepath.Join(tmpDir, "site"), folio.WithAutoInit(true), folio.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}

	guides := folio.NewTypedRepository[folio.FrontMatter](repo)
	ctx := context.Background()

	err = guides.Save(ctx, &folio.PageModel[folio.FrontMatter]{
		ID:      "guides/tuning",
		Content: "Measure before you tune.",
		Meta: folio.FrontMatter{
			Title:   "Tuning",
			Excerpt: "Make it fast without guessing.",
			Weight:  2,
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	page, err := guides.Get(ctx, "guides/tuning")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Page title: %s\n", page.Meta.Title)
	// Output:
	// Page title: Tuning
}

// ExampleLint demonstrates checking a site's content contract.
func ExampleLint() {
	tmpDir, err := os.MkdirTemp("", "folio-lint-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// A page without a title violates the front matter contract.
	page := []byte("---\nexcerpt: An orphaned stub.\n---\nDraft text.\n")
	if err := os.WriteFile(filepath.Join(tmpDir, "stub.md"), page, 0644); err != nil {
		log.Fatal(err)
	}

	report, err := folio.Lint(context.Background(), tmpDir, nil)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range report.Findings {
		fmt.Println(f)
	}
	// Output:
	// stub.md: warning links/orphan: no page links here
	// stub.md:1: error frontmatter/title: missing required field "title"
}
