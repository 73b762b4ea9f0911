// Package folio is the composition root for the Folio content engine.
//
// It connects the core domain (pages, transactions, events) with the
// infrastructure adapters (filesystem persistence, Git versioning) using the
// Hexagonal Architecture pattern.
//
// Philosophy:
//
// Folio treats a documentation site as a transactional content database. A
// site is a tree of Markdown pages with YAML front matter; Folio gives tools
// a typed, versioned, observable API over that tree instead of ad-hoc file
// handling. While the default implementation uses the filesystem and Git,
// the core is agnostic and supports other backends via core.Repository.
//
// Features:
//
//   - Hexagonal architecture: the domain is isolated from persistence details.
//   - Versioned writes: every save and delete becomes a Git commit with a
//     meaningful message.
//   - Metadata first: native front matter parsing, a persistent content
//     index, and typed access via generics.
//   - Content contract: a lint engine checks front matter, headings, code
//     fences, internal links, and redirects.
//   - Reactive: watch the site for edits with debounced, author-only events.
//
// Usage:
//
//	svc, err := folio.New("./docs",
//		folio.WithAutoInit(true),
//		folio.WithLogger(logger),
//	)
//
//	err = svc.SavePage(ctx, "guides/install", body, core.Metadata{
//		"title":   "Install",
//		"excerpt": "Set it up in five minutes.",
//	})
package folio
