package core

import "time"

// IndexEntry is the per-page summary maintained by indexing repositories.
// It carries the front matter fields listings need plus the extracted body
// facts (heading anchors, raw link destinations, fence languages) that feed
// the link graph and the content lint without re-reading every file.
type IndexEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Slug         string    `json:"slug,omitempty"`
	Redirect     string    `json:"redirect,omitempty"`
	Draft        bool      `json:"draft,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Headings     []string  `json:"headings,omitempty"`
	Links        []string  `json:"links,omitempty"`
	Languages    []string  `json:"languages,omitempty"`
	LastModified time.Time `json:"lastModified"`
}
