package fs

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic writes data to a file atomically: the bytes land in a
// pending file in the same directory, get fsynced, and replace the target in
// a single rename. Readers (and the watcher) never observe a partial page.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	pending, err := renameio.NewPendingFile(filename, renameio.WithPermissions(perm))
	if err != nil {
		return fmt.Errorf("failed to create pending file: %w", err)
	}
	defer func() {
		// No-op once the replace succeeded; removes the temp file otherwise.
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("failed to write pending file: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	return nil
}
