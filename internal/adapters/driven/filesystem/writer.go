package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.FileWriter = (*Writer)(nil)

// Writer writes files relative to an output directory, creating it on demand.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: output directory is empty", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	return &Writer{root: abs}, nil
}

// Write replaces the file at the relative path with content.
// Paths escaping the output directory are rejected.
func (w *Writer) Write(path string, content []byte) error {
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (w *Writer) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: invalid output path %q", domain.ErrInvalidInput, path)
	}
	target := filepath.Join(w.root, path)
	rel, err := filepath.Rel(w.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes output directory", domain.ErrInvalidInput, path)
	}
	return target, nil
}
