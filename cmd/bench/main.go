package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/folio"
)

func main() {
	count := flag.Int("count", 1000, "Number of pages to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark site after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "folio_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d pages in %s...\n", *count, benchDir)
	startGen := time.Now()

	// Direct file writes to simulate an existing site. Each page links to the
	// previous one so the link graph has real edges to chew on.
	if err := os.MkdirAll(filepath.Join(benchDir, "pages"), 0755); err != nil {
		panic(err)
	}
	for i := 0; i < *count; i++ {
		content := fmt.Sprintf("---\ntitle: Page %d\nexcerpt: Benchmark page %d.\ntags: [benchmark]\n---\nSee [the previous page](page_%d.md).\n\n```go\nfmt.Println(%d)\n```\n", i, i, max(i-1, 0), i)
		filename := filepath.Join(benchDir, "pages", fmt.Sprintf("page_%d.md", i))
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	// Gitless to measure pure parsing/io speed, not git overhead.
	service, err := folio.New(benchDir,
		folio.WithLogger(logger),
		folio.WithAutoInit(true),
		folio.WithVersioning(false),
	)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	// Run 1: cold, populates the persistent index.
	fmt.Println("Running List (Run 1 - Cold)...")
	startList := time.Now()
	list, err := service.ListPages(ctx)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startList)
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", cold, len(list))

	// Run 2: warm, through a fresh service so only the on-disk index can
	// help, same as a new CLI invocation.
	service2, err := folio.New(benchDir,
		folio.WithLogger(logger),
		folio.WithAutoInit(true),
		folio.WithVersioning(false),
	)
	if err != nil {
		panic(err)
	}

	fmt.Println("Running List (Run 2 - Warm)...")
	startList2 := time.Now()
	list2, err := service2.ListPages(ctx)
	if err != nil {
		panic(err)
	}
	warm := time.Since(startList2)
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", warm, len(list2))

	fmt.Println("Running Lint...")
	startLint := time.Now()
	report, err := folio.Lint(ctx, benchDir, nil)
	if err != nil {
		panic(err)
	}
	lintDur := time.Since(startLint)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d pages):\n", *count)
	fmt.Printf("  Cold List: %v\n", cold)
	fmt.Printf("  Warm List: %v\n", warm)
	fmt.Printf("  Lint:      %v (%d errors, %d warnings)\n", lintDur, report.Errors, report.Warnings)
	fmt.Printf("--------------------------------------------------\n")
}
