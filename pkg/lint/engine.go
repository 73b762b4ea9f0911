package lint

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/links"
	"github.com/aretw0/folio/pkg/md"
)

// Page is a single file handed to the engine, exactly as it sits on disk.
type Page struct {
	ID   string
	Path string // site-relative, used in findings
	Data []byte
}

// Config tunes an Engine.
type Config struct {
	// Severity overrides the default grading per rule ID. SeverityOff
	// disables a rule.
	Severity map[string]Severity
	// Languages extends the recognized fence languages.
	Languages []string
	// Ignore holds glob patterns of page paths to skip entirely.
	Ignore []string
	// Workers caps page-check parallelism. Zero means one per CPU.
	Workers int
}

// Engine runs the rule set over a site snapshot.
type Engine struct {
	severity  map[string]Severity
	languages map[string]bool
	ignore    []string
	workers   int
}

// New builds an Engine from config. Unknown rule IDs in the severity map are
// ignored so configs survive rule renames.
func New(cfg Config) *Engine {
	severity := make(map[string]Severity, len(defaultSeverity))
	for rule, sev := range defaultSeverity {
		severity[rule] = sev
	}
	for rule, sev := range cfg.Severity {
		if _, known := defaultSeverity[rule]; known {
			severity[rule] = sev
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Engine{
		severity:  severity,
		languages: languageSet(cfg.Languages),
		ignore:    cfg.Ignore,
		workers:   workers,
	}
}

// Run checks all pages and the site graph. The index entries and redirect
// table describe the whole site, including pages the ignore patterns skip,
// so links into skipped pages still resolve.
func (e *Engine) Run(ctx context.Context, pages []Page, entries []core.IndexEntry, redirects map[string]string) (*Report, error) {
	graph := links.NewGraph(entries, redirects)

	var (
		mu       sync.Mutex
		findings []Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, page := range pages {
		if e.skip(page.Path) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found := e.checkPage(page, graph)
			if len(found) > 0 {
				mu.Lock()
				findings = append(findings, found...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, broken := range graph.BrokenRedirects() {
		findings = e.append(findings, links.RedirectsFile, RuleRedirectsTarget, 0,
			"redirect %s points at missing page %s", broken.From, broken.To)
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Page != findings[j].Page {
			return findings[i].Page < findings[j].Page
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Rule < findings[j].Rule
	})

	report := &Report{Findings: findings}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			report.Errors++
		case SeverityWarning:
			report.Warnings++
		}
	}
	return report, nil
}

func (e *Engine) skip(pagePath string) bool {
	for _, pattern := range e.ignore {
		if match, err := doublestar.Match(pattern, pagePath); err == nil && match {
			return true
		}
	}
	return false
}

// append grades and records one finding, dropping it when the rule is off.
func (e *Engine) append(findings []Finding, pagePath, rule string, line int, format string, args ...interface{}) []Finding {
	sev := e.severity[rule]
	if sev == SeverityOff {
		return findings
	}
	return append(findings, Finding{
		Page:     pagePath,
		Rule:     rule,
		Severity: sev,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (e *Engine) checkPage(p Page, graph *links.Graph) []Finding {
	var out []Finding
	add := func(rule string, line int, format string, args ...interface{}) {
		out = e.append(out, p.Path, rule, line, format, args...)
	}

	meta, body, bodyLine, err := md.ParseFrontMatter(p.Data)
	if err != nil {
		// Nothing downstream is trustworthy without parseable front matter.
		add(RuleFrontMatterParse, 1, "%v", err)
		return out
	}

	switch title := meta["title"].(type) {
	case nil:
		add(RuleFrontMatterTitle, 1, "missing required field %q", "title")
	case string:
		if strings.TrimSpace(title) == "" {
			add(RuleFrontMatterTitle, 1, "title is empty")
		}
	default:
		add(RuleFrontMatterTitle, 1, "title must be a string, got %T", title)
	}
	if excerpt, _ := meta["excerpt"].(string); strings.TrimSpace(excerpt) == "" {
		add(RuleFrontMatterExcerpt, 1, "page has no excerpt")
	}

	analysis := md.Analyze(body)
	// Analysis lines are relative to the body; findings report file lines.
	at := func(line int) int {
		if line == 0 {
			return 0
		}
		return line + bodyLine - 1
	}

	for _, h := range analysis.Headings {
		if h.Level == 1 {
			add(RuleBodyNoH1, at(h.Line), "level 1 heading %q conflicts with the title, which already renders as the page heading", h.Text)
		}
	}

	for _, f := range analysis.Fences {
		switch {
		case f.Language == "":
			add(RuleCodeLanguage, at(f.Line), "code fence has no language tag")
		case !e.languages[strings.ToLower(f.Language)]:
			add(RuleCodeLanguage, at(f.Line), "unrecognized fence language %q", f.Language)
		}
	}

	for _, l := range analysis.Links {
		// Images and asset references (downloads, stylesheets) live outside
		// the page graph.
		if l.Image || !links.Internal(l.Destination) || links.Asset(l.Destination) {
			continue
		}
		target, fragment, ok := graph.Resolve(p.ID, l.Destination)
		if !ok {
			add(RuleLinksResolve, at(l.Line), "link destination %q does not resolve", l.Destination)
			continue
		}
		if fragment != "" && !graph.HasAnchor(target, fragment) {
			add(RuleLinksAnchor, at(l.Line), "anchor #%s not found in %s", fragment, target)
		}
	}

	if graph.Orphan(p.ID) {
		add(RuleLinksOrphan, 0, "no page links here")
	}

	return out
}
