// Package md inspects Markdown page bodies.
//
// It extracts the facts the rest of the system reasons about (headings and
// their anchors, link destinations, fenced code block languages) by walking
// the goldmark AST. It never renders anything; rendering is the job of the
// external site pipeline.
package md

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading extracted from a body.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	Line   int
}

// Link is a link or image extracted from a body.
type Link struct {
	Destination string
	Title       string
	Image       bool
	Line        int
}

// Fence is a fenced code block extracted from a body.
// Language is "" when the fence carries no info string.
type Fence struct {
	Language string
	Line     int
}

// Analysis holds everything extracted from a single body.
// Line numbers are 1-based within the body; 0 means the position could not
// be determined (e.g. an empty, unlabeled fence).
type Analysis struct {
	Headings []Heading
	Links    []Link
	Fences   []Fence
	HasH1    bool
}

// mdParser is shared; goldmark parsers are safe for concurrent use once built.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

// Analyze walks the body and collects headings, links, and fences.
func Analyze(body []byte) *Analysis {
	a := &Analysis{}
	slugs := newSlugger()

	doc := mdParser.Parser().Parse(text.NewReader(body))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			txt := nodeText(node, body)
			anchor := ""
			// Explicit {#id} attributes win over derived slugs.
			if v, ok := node.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					anchor = string(b)
				}
			}
			if anchor == "" {
				anchor = slugs.slug(txt)
			}
			a.Headings = append(a.Headings, Heading{
				Level:  node.Level,
				Text:   txt,
				Anchor: anchor,
				Line:   lineOf(node, body),
			})
			if node.Level == 1 {
				a.HasH1 = true
			}

		case *ast.FencedCodeBlock:
			lang := ""
			if l := node.Language(body); l != nil {
				lang = string(l)
			}
			a.Fences = append(a.Fences, Fence{
				Language: lang,
				Line:     fenceLine(node, body),
			})

		case *ast.Link:
			a.Links = append(a.Links, Link{
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Line:        lineOf(node, body),
			})

		case *ast.Image:
			a.Links = append(a.Links, Link{
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Image:       true,
				Line:        lineOf(node, body),
			})

		case *ast.AutoLink:
			a.Links = append(a.Links, Link{
				Destination: string(node.URL(body)),
				Line:        lineOf(node, body),
			})
		}

		return ast.WalkContinue, nil
	})

	return a
}

// HasAnchor reports whether any heading in the body produces the given anchor.
func (a *Analysis) HasAnchor(anchor string) bool {
	for _, h := range a.Headings {
		if h.Anchor == anchor {
			return true
		}
	}
	return false
}

// Anchors returns the anchors of all headings, in document order.
func (a *Analysis) Anchors() []string {
	anchors := make([]string, 0, len(a.Headings))
	for _, h := range a.Headings {
		anchors = append(anchors, h.Anchor)
	}
	return anchors
}

// Destinations returns the unique raw link destinations, in first-seen order.
func (a *Analysis) Destinations() []string {
	seen := make(map[string]bool, len(a.Links))
	var dests []string
	for _, l := range a.Links {
		if !seen[l.Destination] {
			seen[l.Destination] = true
			dests = append(dests, l.Destination)
		}
	}
	return dests
}

// Languages returns the unique fence languages, in first-seen order.
// Unlabeled fences contribute the empty string once.
func (a *Analysis) Languages() []string {
	seen := make(map[string]bool, len(a.Fences))
	var langs []string
	for _, f := range a.Fences {
		if !seen[f.Language] {
			seen[f.Language] = true
			langs = append(langs, f.Language)
		}
	}
	return langs
}

// --- Position helpers ---

// lineAt converts a byte offset into a 1-based line number.
func lineAt(src []byte, off int) int {
	if off > len(src) {
		off = len(src)
	}
	return 1 + bytes.Count(src[:off], []byte("\n"))
}

// firstTextOffset finds the byte offset of the first text segment under n.
// Returns -1 if the subtree holds no source-backed text.
func firstTextOffset(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off := firstTextOffset(c); off >= 0 {
			return off
		}
	}
	return -1
}

// lineOf locates a node's line via its text, falling back to the nearest
// ancestor that carries line segments.
func lineOf(n ast.Node, src []byte) int {
	if off := firstTextOffset(n); off >= 0 {
		return lineAt(src, off)
	}
	for p := n; p != nil; p = p.Parent() {
		if lp, ok := p.(interface{ Lines() *text.Segments }); ok && lp.Lines().Len() > 0 {
			return lineAt(src, lp.Lines().At(0).Start)
		}
	}
	return 0
}

// fenceLine locates the opening fence line. The AST does not keep the fence
// marker itself, so we derive it from the info string or the first code line.
func fenceLine(n *ast.FencedCodeBlock, src []byte) int {
	if n.Info != nil {
		return lineAt(src, n.Info.Segment.Start)
	}
	if n.Lines().Len() > 0 {
		return lineAt(src, n.Lines().At(0).Start) - 1
	}
	return 0
}

// nodeText extracts the plain text of a node's subtree.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	collectText(n, src, &buf)
	return buf.String()
}

func collectText(n ast.Node, src []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.String:
			buf.Write(t.Value)
		default:
			collectText(c, src, buf)
		}
	}
}
