package md

import (
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	// Joining lines keeps the expected line numbers readable: index+1.
	body := []byte(strings.Join([]string{
		"# Getting Started",                                                      // 1
		"",                                                                       // 2
		"Install the CLI, then read [configuration](./configuration.md) and the", // 3
		"[API reference](/reference/api#endpoints).",                             // 4
		"",                                                                       // 5
		"## Install",                                                             // 6
		"",                                                                       // 7
		"```bash",                                                                // 8
		"curl -sSL https://get.example.com | sh",                                 // 9
		"```",                                                                    // 10
		"",                                                                       // 11
		"## Install",                                                             // 12
		"",                                                                       // 13
		`![architecture](images/arch.png "Overview")`,                            // 14
		"",                                                                       // 15
		"```",                                                                    // 16
		"no language here",                                                       // 17
		"```",                                                                    // 18
	}, "\n"))

	a := Analyze(body)

	if !a.HasH1 {
		t.Error("expected HasH1 to be true")
	}

	wantHeadings := []Heading{
		{Level: 1, Text: "Getting Started", Anchor: "getting-started", Line: 1},
		{Level: 2, Text: "Install", Anchor: "install", Line: 6},
		{Level: 2, Text: "Install", Anchor: "install-1", Line: 12},
	}
	if len(a.Headings) != len(wantHeadings) {
		t.Fatalf("expected %d headings, got %d: %+v", len(wantHeadings), len(a.Headings), a.Headings)
	}
	for i, want := range wantHeadings {
		if a.Headings[i] != want {
			t.Errorf("heading %d: expected %+v, got %+v", i, want, a.Headings[i])
		}
	}

	wantLinks := []Link{
		{Destination: "./configuration.md", Line: 3},
		{Destination: "/reference/api#endpoints", Line: 4},
		{Destination: "images/arch.png", Title: "Overview", Image: true, Line: 14},
	}
	if len(a.Links) != len(wantLinks) {
		t.Fatalf("expected %d links, got %d: %+v", len(wantLinks), len(a.Links), a.Links)
	}
	for i, want := range wantLinks {
		if a.Links[i] != want {
			t.Errorf("link %d: expected %+v, got %+v", i, want, a.Links[i])
		}
	}

	wantFences := []Fence{
		{Language: "bash", Line: 8},
		{Language: "", Line: 16},
	}
	if len(a.Fences) != len(wantFences) {
		t.Fatalf("expected %d fences, got %d: %+v", len(wantFences), len(a.Fences), a.Fences)
	}
	for i, want := range wantFences {
		if a.Fences[i] != want {
			t.Errorf("fence %d: expected %+v, got %+v", i, want, a.Fences[i])
		}
	}
}

func TestAnalyze_Autolink(t *testing.T) {
	a := Analyze([]byte("Visit https://example.com for details."))

	if len(a.Links) != 1 {
		t.Fatalf("expected 1 link, got %d: %+v", len(a.Links), a.Links)
	}
	if a.Links[0].Destination != "https://example.com" {
		t.Errorf("expected autolink destination, got %q", a.Links[0].Destination)
	}
	if a.Links[0].Line != 1 {
		t.Errorf("expected line 1, got %d", a.Links[0].Line)
	}
}

func TestAnalyze_CustomAnchor(t *testing.T) {
	a := Analyze([]byte("## Advanced Topics {#advanced}"))

	if len(a.Headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(a.Headings))
	}
	h := a.Headings[0]
	if h.Anchor != "advanced" {
		t.Errorf("expected explicit anchor to win, got %q", h.Anchor)
	}
	if h.Text != "Advanced Topics" {
		t.Errorf("expected attribute stripped from text, got %q", h.Text)
	}
}

func TestAnalyze_EmptyFenceLineUnknown(t *testing.T) {
	a := Analyze([]byte("```\n```\n"))

	if len(a.Fences) != 1 {
		t.Fatalf("expected 1 fence, got %d", len(a.Fences))
	}
	// An empty fence with no info string leaves nothing to anchor a
	// position to; 0 signals "unknown" to callers.
	if a.Fences[0].Line != 0 {
		t.Errorf("expected line 0 for empty unlabeled fence, got %d", a.Fences[0].Line)
	}
	if a.Fences[0].Language != "" {
		t.Errorf("expected empty language, got %q", a.Fences[0].Language)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)

	if a.HasH1 {
		t.Error("expected HasH1 to be false for empty body")
	}
	if len(a.Headings) != 0 || len(a.Links) != 0 || len(a.Fences) != 0 {
		t.Errorf("expected empty analysis, got %+v", a)
	}
}

func TestAnalysis_Accessors(t *testing.T) {
	body := []byte(strings.Join([]string{
		"## One",
		"",
		"[a](/a) [b](/b) [a again](/a)",
		"",
		"```go",
		"package main",
		"```",
		"",
		"```go",
		"package other",
		"```",
		"",
		"```json",
		"{}",
		"```",
	}, "\n"))

	a := Analyze(body)

	if !a.HasAnchor("one") {
		t.Error("expected anchor 'one' to exist")
	}
	if a.HasAnchor("two") {
		t.Error("did not expect anchor 'two'")
	}

	dests := a.Destinations()
	if len(dests) != 2 || dests[0] != "/a" || dests[1] != "/b" {
		t.Errorf("expected unique destinations [/a /b], got %v", dests)
	}

	langs := a.Languages()
	if len(langs) != 2 || langs[0] != "go" || langs[1] != "json" {
		t.Errorf("expected unique languages [go json], got %v", langs)
	}
}
