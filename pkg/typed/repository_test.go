package typed_test

import (
	"context"
	"testing"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

type GuideMeta struct {
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Weight  int      `json:"weight,omitempty"`
	Draft   bool     `json:"draft,omitempty"`
}

func setupRepo(t *testing.T) (core.Repository, string) {
	t.Helper()
	tmpDir := t.TempDir()

	repo := fs.NewRepository(fs.Config{
		Path:      tmpDir,
		Gitless:   true,
		SystemDir: ".folio",
	})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repo, tmpDir
}

func TestTypedRepository(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	guides := typed.NewRepository[GuideMeta](repo)

	install := &typed.PageModel[GuideMeta]{
		ID:      "guides/install",
		Content: "Run the installer.",
		Meta: GuideMeta{
			Title:   "Install",
			Excerpt: "Set it up in five minutes.",
			Tags:    []string{"setup"},
			Weight:  1,
		},
	}

	if err := guides.Save(ctx, install); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	retrieved, err := guides.Get(ctx, "guides/install")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.Meta.Title != "Install" {
		t.Errorf("expected title Install, got %q", retrieved.Meta.Title)
	}
	if retrieved.Meta.Weight != 1 {
		t.Errorf("expected weight 1, got %d", retrieved.Meta.Weight)
	}
	if len(retrieved.Meta.Tags) != 1 || retrieved.Meta.Tags[0] != "setup" {
		t.Errorf("expected tags [setup], got %v", retrieved.Meta.Tags)
	}

	tuning := &typed.PageModel[GuideMeta]{
		ID:   "guides/tuning",
		Meta: GuideMeta{Title: "Tuning", Draft: true},
	}
	if err := guides.Save(ctx, tuning); err != nil {
		t.Fatal(err)
	}

	list, err := guides.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	foundInstall, foundTuning := false, false
	for _, g := range list {
		switch g.Meta.Title {
		case "Install":
			foundInstall = true
		case "Tuning":
			foundTuning = true
			if !g.Meta.Draft {
				t.Error("expected tuning to stay a draft through the round trip")
			}
		}
	}
	if !foundInstall || !foundTuning {
		t.Errorf("List missing pages, found: %+v", list)
	}
}

func TestActiveRecordSave(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	guides := typed.NewRepository[GuideMeta](repo)
	page := &typed.PageModel[GuideMeta]{
		ID:   "notes/scratch",
		Meta: GuideMeta{Title: "Scratch"},
	}
	if err := guides.Save(ctx, page); err != nil {
		t.Fatal(err)
	}

	// The first save attaches the saver; the model can persist itself now.
	page.Content = "edited"
	if err := page.Save(ctx); err != nil {
		t.Fatalf("active-record save failed: %v", err)
	}

	retrieved, err := guides.Get(ctx, "notes/scratch")
	if err != nil {
		t.Fatal(err)
	}
	if retrieved.Content != "edited" {
		t.Errorf("expected edited content, got %q", retrieved.Content)
	}
}

func TestDetachedModelRefusesSave(t *testing.T) {
	page := &typed.PageModel[GuideMeta]{ID: "loose", Meta: GuideMeta{Title: "Loose"}}
	if err := page.Save(context.Background()); err == nil {
		t.Error("expected detached model to refuse saving")
	}
}

func TestDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	guides := typed.NewRepository[GuideMeta](repo)
	if err := guides.Save(ctx, &typed.PageModel[GuideMeta]{ID: "gone", Meta: GuideMeta{Title: "Gone"}}); err != nil {
		t.Fatal(err)
	}
	if err := guides.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := guides.Get(ctx, "gone"); err == nil {
		t.Error("expected the page to be gone")
	}
}
