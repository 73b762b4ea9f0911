package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"log/slog"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadOnlyMode ensures that ReadOnly mode effectively blocks all write operations
// and does not persist index additions to disk.
func TestReadOnlyMode(t *testing.T) {
	tempDir := t.TempDir()

	// Pre-populate the site with valid data so we can test Reading.
	prepareSite(t, tempDir)

	// Initialize in Read-Only Mode
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo, err := folio.Init(tempDir, folio.WithReadOnly(true), folio.WithLogger(logger))
	require.NoError(t, err)

	ctx := context.Background()

	// Reading works
	page, err := repo.Get(ctx, "existing_page")
	require.NoError(t, err)
	assert.Equal(t, "original content", page.Content)

	// Saves fail
	newPage := core.Page{
		ID:      "new_page.md",
		Content: "forbidden content",
	}
	err = repo.Save(ctx, newPage)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReadOnly), "Expected ErrReadOnly, got: %v", err)

	_, err = os.Stat(filepath.Join(tempDir, "new_page.md"))
	assert.True(t, os.IsNotExist(err), "File should not exist")

	// Deletes fail
	err = repo.Delete(ctx, "existing_page")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReadOnly))

	_, err = os.Stat(filepath.Join(tempDir, "existing_page.md"))
	assert.NoError(t, err, "File should still exist")

	// Sync fails
	syncable, ok := repo.(core.Syncable)
	assert.True(t, ok, "Repo should implement Syncable")
	if ok {
		err = syncable.Sync(ctx)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrReadOnly))
	}

	// Index persistence is blocked. Create a "ghost" file behind the scenes
	// (simulating an external change).
	ghostFile := filepath.Join(tempDir, "ghost.md")
	os.WriteFile(ghostFile, []byte("ghost"), 0644)

	// List sees it, because read-only reconciliation still updates the
	// in-memory index.
	pages, err := repo.List(ctx)
	require.NoError(t, err)
	foundGhost := false
	for _, p := range pages {
		if p.ID == "ghost" {
			foundGhost = true
			break
		}
	}
	assert.True(t, foundGhost, "List should find the ghost file (ID: ghost)")

	// But the index on disk must not learn about it.
	indexBytes, err := os.ReadFile(filepath.Join(tempDir, ".folio", "index.json"))
	if err == nil {
		assert.NotContains(t, string(indexBytes), "ghost", "Index on disk should NOT be updated in ReadOnly mode")
	}
}

func prepareSite(t *testing.T, dir string) {
	// Gitless keeps the preparation free of commit identity requirements.
	repo, err := folio.Init(dir, folio.WithAutoInit(true), folio.WithVersioning(false))
	require.NoError(t, err)

	err = repo.Save(context.Background(), core.Page{
		ID:      "existing_page.md",
		Content: "original content",
	})
	require.NoError(t, err)

	// Flush the index to disk
	_, err = repo.List(context.Background())
	require.NoError(t, err)
}
