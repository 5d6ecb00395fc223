package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFile writes content to path by writing to a sibling temp file and
// renaming it into place, so a reader never observes a partially written
// generated source/header file (spec.md §1 scope note: atomic rename is
// out of the synthesis engine's scope but belongs somewhere in the CLI
// shell that drives it).
func WriteFile(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, content, perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("assemble: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("assemble: rename into place: %w", err)
	}
	return nil
}
