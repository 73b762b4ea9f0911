package core

import "strings"

// Metadata represents the flexible front matter key-value pairs of a page.
type Metadata map[string]any

// Page is the central entity of the domain.
// It represents a single documentation page identified by its site path,
// relative, slash-separated, and without extension (e.g. "guides/analyzing-results").
// It is agnostic to storage format; the default adapter keeps pages as Markdown
// files with a YAML front matter block.
type Page struct {
	ID       string
	Content  string
	Metadata Metadata
}

// Title returns the front matter title, or "" if absent.
func (p Page) Title() string {
	return p.metaString("title")
}

// Excerpt returns the front matter excerpt (the summary shown in listings
// and fed to the search index), or "" if absent.
func (p Page) Excerpt() string {
	return p.metaString("excerpt")
}

// Slug returns an explicit front matter slug override, or "" if absent.
func (p Page) Slug() string {
	return p.metaString("slug")
}

// Redirect returns the front matter redirect target, or "" if absent.
// A page carrying a redirect is a stub that forwards readers elsewhere.
func (p Page) Redirect() string {
	return p.metaString("redirect")
}

// Draft reports whether the page is marked as a draft.
func (p Page) Draft() bool {
	v, ok := p.Metadata["draft"].(bool)
	return ok && v
}

// Weight returns the front matter ordering weight, or 0 if absent.
// YAML decodes numbers as int or float64 depending on their shape.
func (p Page) Weight() int {
	switch v := p.Metadata["weight"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Tags returns the front matter tags, tolerating both []string and the
// []interface{} shape YAML produces.
func (p Page) Tags() []string {
	switch v := p.Metadata["tags"].(type) {
	case []string:
		return v
	case []interface{}:
		var tags []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

func (p Page) metaString(key string) string {
	if v, ok := p.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// ValidateID checks that an ID is a usable site path.
// IDs are relative, slash-separated, and must not escape the content root.
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if strings.HasPrefix(id, "/") {
		return ErrAbsoluteID
	}
	for _, seg := range strings.Split(id, "/") {
		if seg == ".." {
			return ErrTraversalID
		}
	}
	return nil
}
