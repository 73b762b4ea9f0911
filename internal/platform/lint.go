package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/lint"
	"github.com/aretw0/folio/pkg/links"
)

// Lint checks the site at uri and returns the report. The run is forced
// read-only; linting never mutates a site. Extra ignore patterns are applied
// on top of the site config's own.
func Lint(ctx context.Context, uri string, ignore []string, opts ...Option) (*lint.Report, error) {
	fsRepo, err := openSite(uri, opts)
	if err != nil {
		return nil, err
	}

	siteCfg, err := LoadSiteConfig(fsRepo.Path)
	if err != nil {
		return nil, err
	}
	redirects, err := links.LoadRedirects(fsRepo.Path)
	if err != nil {
		return nil, err
	}

	raw, err := fsRepo.RawPages(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := fsRepo.Index(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]lint.Page, len(raw))
	for i, p := range raw {
		pages[i] = lint.Page{ID: p.ID, Path: p.Path, Data: p.Data}
	}

	patterns := append(append([]string{}, siteCfg.Ignore...), ignore...)
	engine := lint.New(lint.Config{
		Severity:  siteCfg.Rules,
		Languages: siteCfg.Languages,
		Ignore:    patterns,
	})
	return engine.Run(ctx, pages, entries, redirects)
}

// Graph builds the cross-reference graph of the site at uri, read-only.
func Graph(ctx context.Context, uri string, opts ...Option) (*links.Graph, error) {
	fsRepo, err := openSite(uri, opts)
	if err != nil {
		return nil, err
	}

	redirects, err := links.LoadRedirects(fsRepo.Path)
	if err != nil {
		return nil, err
	}
	entries, err := fsRepo.Index(ctx)
	if err != nil {
		return nil, err
	}

	return links.NewGraph(entries, redirects), nil
}

// openSite opens the filesystem adapter read-only for content inspection.
func openSite(uri string, opts []Option) (*fs.Repository, error) {
	repo, err := Init(uri, append(append([]Option{}, opts...), WithReadOnly(true))...)
	if err != nil {
		return nil, err
	}
	fsRepo, ok := repo.(*fs.Repository)
	if !ok {
		return nil, fmt.Errorf("content inspection requires the filesystem adapter")
	}
	return fsRepo, nil
}
