// Package lint checks a documentation site against its content contract.
//
// Per-page rules validate front matter, heading structure, and code fences.
// Graph rules validate the cross-reference structure of the site as a whole.
// Every rule carries a stable ID so sites can tune severities in their config
// without forking the checks.
package lint

import "fmt"

// Rule IDs, grouped by the surface they check.
const (
	RuleFrontMatterParse   = "frontmatter/parse"
	RuleFrontMatterTitle   = "frontmatter/title"
	RuleFrontMatterExcerpt = "frontmatter/excerpt"
	RuleBodyNoH1           = "body/no-h1"
	RuleCodeLanguage       = "code/language"
	RuleLinksResolve       = "links/resolve"
	RuleLinksAnchor        = "links/anchor"
	RuleLinksOrphan        = "links/orphan"
	RuleRedirectsTarget    = "redirects/target"
)

// Severity grades a finding. SeverityOff disables a rule entirely.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityOff     Severity = "off"
)

// defaultSeverity is the built-in grading, before config overrides.
var defaultSeverity = map[string]Severity{
	RuleFrontMatterParse:   SeverityError,
	RuleFrontMatterTitle:   SeverityError,
	RuleFrontMatterExcerpt: SeverityWarning,
	RuleBodyNoH1:           SeverityWarning,
	RuleCodeLanguage:       SeverityError,
	RuleLinksResolve:       SeverityError,
	RuleLinksAnchor:        SeverityError,
	RuleLinksOrphan:        SeverityWarning,
	RuleRedirectsTarget:    SeverityError,
}

// Finding is a single rule violation.
type Finding struct {
	Page     string   `json:"page"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"` // 1-based in the file; 0 when unknown
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	loc := f.Page
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", f.Page, f.Line)
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, f.Severity, f.Rule, f.Message)
}

// Report is the outcome of a lint run.
type Report struct {
	Findings []Finding `json:"findings"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
}

// HasErrors reports whether any finding is an error. Warnings alone leave a
// site releasable.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}
