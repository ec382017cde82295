package sitemap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const contentTypeXML = "application/xml"

// Artifact is a fully assembled output file.
type Artifact struct {
	Path        string
	Content     []byte
	ContentType string
	Checksum    string
}

// ArtifactWriter persists an artifact in a single call. Implementations must
// not leave a partially written artifact visible at Path.
type ArtifactWriter interface {
	WriteFile(ctx context.Context, artifact Artifact) error
}

// FileWriter writes artifacts to the local filesystem through a temporary
// file in the destination directory followed by a rename.
type FileWriter struct {
	// Root is prepended to relative artifact paths.
	Root string
	Perm os.FileMode
}

// NewFileWriter returns a FileWriter rooted at root.
func NewFileWriter(root string) *FileWriter {
	return &FileWriter{Root: root, Perm: 0o644}
}

func (w *FileWriter) WriteFile(ctx context.Context, artifact Artifact) error {
	if strings.TrimSpace(artifact.Path) == "" {
		return errors.New("sitemap: write requires path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := artifact.Path
	if !filepath.IsAbs(target) && w.Root != "" {
		target = filepath.Join(w.Root, target)
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sitemap: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("sitemap: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(artifact.Content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sitemap: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sitemap: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sitemap: close temp file: %w", err)
	}

	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("sitemap: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("sitemap: rename into place: %w", err)
	}
	committed = true
	return nil
}

var _ ArtifactWriter = (*FileWriter)(nil)
