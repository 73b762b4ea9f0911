package typed_test

import (
	"context"
	"testing"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

func setupService(t *testing.T) (*core.Service, string) {
	t.Helper()
	repo, path := setupRepo(t)
	return core.NewService(repo), path
}

func TestTypedServiceTransactions(t *testing.T) {
	svc, _ := setupService(t)
	guides := typed.NewService[GuideMeta](svc)
	ctx := context.Background()

	err := guides.WithTransaction(ctx, func(tx *typed.Transaction[GuideMeta]) error {
		intro := &typed.PageModel[GuideMeta]{
			ID:   "handbook/intro",
			Meta: GuideMeta{Title: "Introduction", Weight: 1},
		}
		if err := tx.Save(ctx, intro); err != nil {
			return err
		}

		outro := &typed.PageModel[GuideMeta]{
			ID:   "handbook/outro",
			Meta: GuideMeta{Title: "Closing Notes", Weight: 99},
		}
		return tx.Save(ctx, outro)
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	list, err := guides.List(ctx)
	if err != nil {
		t.Fatal(err)
	}

	found := 0
	for _, p := range list {
		if p.ID == "handbook/intro" || p.ID == "handbook/outro" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected both staged pages after commit, found %d", found)
	}
}

func TestTypedServiceTransactionRollback(t *testing.T) {
	svc, _ := setupService(t)
	guides := typed.NewService[GuideMeta](svc)
	ctx := context.Background()

	err := guides.WithTransaction(ctx, func(tx *typed.Transaction[GuideMeta]) error {
		p := &typed.PageModel[GuideMeta]{
			ID:   "handbook/doomed",
			Meta: GuideMeta{Title: "Should Not Exist"},
		}
		if err := tx.Save(ctx, p); err != nil {
			return err
		}
		return context.Canceled // trigger rollback
	})
	if err == nil {
		t.Error("expected the transaction error to surface")
	}

	if _, err := guides.Get(ctx, "handbook/doomed"); err == nil {
		t.Error("page must not exist after rollback")
	}
}

func TestTypedServiceTransactionReads(t *testing.T) {
	svc, _ := setupService(t)
	guides := typed.NewService[GuideMeta](svc)
	ctx := context.Background()

	err := guides.WithTransaction(ctx, func(tx *typed.Transaction[GuideMeta]) error {
		staged := &typed.PageModel[GuideMeta]{
			ID:   "handbook/pending",
			Meta: GuideMeta{Title: "Pending"},
		}
		if err := tx.Save(ctx, staged); err != nil {
			return err
		}

		// Reads inside the transaction see staged state.
		got, err := tx.Get(ctx, "handbook/pending")
		if err != nil {
			return err
		}
		if got.Meta.Title != "Pending" {
			t.Errorf("expected staged title, got %q", got.Meta.Title)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestTypedServiceCRUD(t *testing.T) {
	svc, _ := setupService(t)
	guides := typed.NewService[GuideMeta](svc)
	ctx := context.Background()

	page := &typed.PageModel[GuideMeta]{
		ID:      "faq",
		Content: "Q and A.",
		Meta:    GuideMeta{Title: "FAQ", Excerpt: "Answers."},
	}
	if err := guides.Save(ctx, page); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := guides.Get(ctx, "faq")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Meta.Excerpt != "Answers." {
		t.Errorf("expected excerpt to round-trip, got %q", got.Meta.Excerpt)
	}

	if err := guides.Delete(ctx, "faq"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := guides.Get(ctx, "faq"); err == nil {
		t.Error("expected the page to be gone")
	}
}
