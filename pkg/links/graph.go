// Package links builds and queries the cross-reference graph of a
// documentation site.
//
// The graph is computed from index entries, not page bodies: the fs adapter
// already extracts link destinations and heading anchors per page, so graph
// queries never touch the filesystem.
package links

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

// Internal reports whether a link destination points inside the site.
// Destinations with a URL scheme (https, mailto, ...) and protocol-relative
// URLs are external; everything else, including fragment-only references,
// is internal.
func Internal(dest string) bool {
	if dest == "" {
		return false
	}
	if strings.HasPrefix(dest, "//") {
		return false
	}
	if u, err := url.Parse(dest); err == nil && u.Scheme != "" {
		return false
	}
	return true
}

// Asset reports whether an internal destination references a static file
// rather than a page. Any extension other than .md (images, archives,
// stylesheets) lives outside the page graph.
func Asset(dest string) bool {
	raw, _, _ := strings.Cut(dest, "#")
	ext := path.Ext(raw)
	return ext != "" && ext != ".md"
}

// Graph is the resolved cross-reference structure of a site snapshot.
type Graph struct {
	pages     map[string]*core.IndexEntry
	anchors   map[string]map[string]bool
	redirects map[string]string
	backlinks map[string][]string
	targets   map[string]bool // redirect targets, reachable without a page link
}

// NewGraph builds the graph from index entries and a redirect table.
// Redirect keys and values are site paths; they are normalized like link
// destinations.
func NewGraph(entries []core.IndexEntry, redirects map[string]string) *Graph {
	g := &Graph{
		pages:     make(map[string]*core.IndexEntry, len(entries)),
		anchors:   make(map[string]map[string]bool, len(entries)),
		redirects: make(map[string]string, len(redirects)),
		backlinks: make(map[string][]string),
		targets:   make(map[string]bool, len(redirects)),
	}

	for i := range entries {
		entry := &entries[i]
		g.pages[entry.ID] = entry

		set := make(map[string]bool, len(entry.Headings))
		for _, anchor := range entry.Headings {
			set[anchor] = true
		}
		g.anchors[entry.ID] = set
	}

	for from, to := range redirects {
		target := normalizeID(to)
		g.redirects[normalizeID(from)] = target
		g.targets[target] = true
	}

	// Backlinks come from every resolvable internal page link.
	seen := make(map[string]map[string]bool)
	for i := range entries {
		entry := &entries[i]
		for _, dest := range entry.Links {
			if !Internal(dest) || Asset(dest) {
				continue
			}
			target, _, ok := g.Resolve(entry.ID, dest)
			if !ok || target == entry.ID {
				continue
			}
			if seen[target] == nil {
				seen[target] = make(map[string]bool)
			}
			if seen[target][entry.ID] {
				continue
			}
			seen[target][entry.ID] = true
			g.backlinks[target] = append(g.backlinks[target], entry.ID)
		}
	}
	for _, sources := range g.backlinks {
		sort.Strings(sources)
	}

	return g
}

// Resolve maps a link destination, as written in the page with ID from, to a
// page ID. The fragment (without '#') is returned separately; fragment-only
// destinations resolve to the source page itself. ok is false when no page,
// directory index, or redirect serves the destination.
func (g *Graph) Resolve(from, dest string) (target, fragment string, ok bool) {
	raw, fragment, _ := strings.Cut(dest, "#")

	if raw == "" {
		if _, exists := g.pages[from]; exists {
			return from, fragment, true
		}
		return "", fragment, false
	}

	var candidate string
	if strings.HasPrefix(raw, "/") {
		candidate = normalizeID(raw)
	} else {
		candidate = path.Join(path.Dir(from), normalizeID(raw))
	}
	if candidate == "" || candidate == "." || strings.HasPrefix(candidate, "..") {
		return "", fragment, false
	}

	if _, exists := g.pages[candidate]; exists {
		return candidate, fragment, true
	}

	// A bare directory reference serves its index page.
	indexID := path.Join(candidate, "index")
	if _, exists := g.pages[indexID]; exists {
		return indexID, fragment, true
	}

	// Moved pages keep working through the redirect table. The target's
	// existence is the table's own lint concern, not the referrer's.
	if to, exists := g.redirects[candidate]; exists {
		return to, fragment, true
	}

	return "", fragment, false
}

// HasAnchor reports whether the page carries the given heading anchor.
func (g *Graph) HasAnchor(id, anchor string) bool {
	return g.anchors[id][anchor]
}

// HasPage reports whether an entry exists for the given page ID.
func (g *Graph) HasPage(id string) bool {
	_, ok := g.pages[id]
	return ok
}

// Pages returns all page IDs in the graph, sorted.
func (g *Graph) Pages() []string {
	ids := make([]string, 0, len(g.pages))
	for id := range g.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Backlinks returns the IDs of pages linking to id, sorted.
func (g *Graph) Backlinks(id string) []string {
	return g.backlinks[id]
}

// Orphan reports whether a page is unreachable: no backlinks, not an index
// page, and not the target of a redirect.
func (g *Graph) Orphan(id string) bool {
	if _, exists := g.pages[id]; !exists {
		return false
	}
	if isIndex(id) {
		return false
	}
	if g.targets[id] {
		return false
	}
	return len(g.backlinks[id]) == 0
}

// Orphans returns all unreachable page IDs, sorted.
func (g *Graph) Orphans() []string {
	var orphans []string
	for id := range g.pages {
		if g.Orphan(id) {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// BrokenLink is an internal link whose destination does not resolve.
type BrokenLink struct {
	From        string // page ID carrying the link
	Destination string // destination as written
}

// Broken returns every internal page link that fails to resolve, sorted by
// source page then destination. Asset references are not checked; they are
// not pages.
func (g *Graph) Broken() []BrokenLink {
	var broken []BrokenLink
	for id, entry := range g.pages {
		for _, dest := range entry.Links {
			if !Internal(dest) || Asset(dest) {
				continue
			}
			if _, _, ok := g.Resolve(id, dest); !ok {
				broken = append(broken, BrokenLink{From: id, Destination: dest})
			}
		}
	}
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].From != broken[j].From {
			return broken[i].From < broken[j].From
		}
		return broken[i].Destination < broken[j].Destination
	})
	return broken
}

// BrokenRedirect is a redirect whose target page does not exist.
type BrokenRedirect struct {
	From string
	To   string
}

// BrokenRedirects returns redirect table rows pointing at missing pages,
// sorted by source.
func (g *Graph) BrokenRedirects() []BrokenRedirect {
	var broken []BrokenRedirect
	for from, to := range g.redirects {
		if _, exists := g.pages[to]; exists {
			continue
		}
		// A redirect may chain onto another redirect source.
		if _, exists := g.redirects[to]; exists {
			continue
		}
		broken = append(broken, BrokenRedirect{From: from, To: to})
	}
	sort.Slice(broken, func(i, j int) bool { return broken[i].From < broken[j].From })
	return broken
}

// normalizeID strips the decorations a link destination may carry relative to
// the page ID it addresses.
func normalizeID(raw string) string {
	id := strings.TrimPrefix(raw, "/")
	id = strings.TrimSuffix(id, "/")
	id = strings.TrimSuffix(id, ".md")
	return id
}

func isIndex(id string) bool {
	return id == "index" || strings.HasSuffix(id, "/index")
}
