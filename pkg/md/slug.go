package md

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the anchor a hosting platform generates for a heading:
// NFC-normalize, lowercase, drop everything but letters, digits, hyphens and
// underscores, and turn spaces into hyphens. Case folding is language-neutral
// so anchors stay stable regardless of the author's locale.
func Slugify(heading string) string {
	s := norm.NFC.String(heading)
	s = cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// slugger deduplicates anchors within one document the way hosting platforms
// do: the first "setup" keeps its slug, later ones become setup-1, setup-2.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

func (s *slugger) slug(heading string) string {
	base := Slugify(heading)
	n, dup := s.seen[base]
	s.seen[base]++
	if !dup {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
