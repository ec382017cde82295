package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

var (
	ErrSlugMissing       = errors.New("markdown loader: slug could not be derived")
	ErrUnknownCollection = errors.New("markdown loader: unknown collection")
)

// LoaderConfig configures how Markdown files are discovered.
type LoaderConfig struct {
	// DefaultCollection applies when the front matter carries no type.
	DefaultCollection interfaces.Collection
	// Pattern limits discovered files by base name (defaults to "*.md").
	Pattern string
	// IncludeDrafts loads entries marked draft: true.
	IncludeDrafts bool
	Logger        interfaces.Logger
}

// Loader reads Markdown entries from a filesystem.
type Loader struct {
	fs        fs.FS
	cfg       LoaderConfig
	converter *Converter
	logger    interfaces.Logger
}

// Result is one loaded entry.
type Result struct {
	Path     string
	Entity   interfaces.Entity
	Checksum string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	if cfg.DefaultCollection == "" {
		cfg.DefaultCollection = interfaces.CollectionGlossary
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{fs: filesystem, cfg: cfg, converter: NewConverter(), logger: logger}
}

// LoadFile parses a single entry. Drafts return a nil result unless
// IncludeDrafts is set.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if meta.Draft && !l.cfg.IncludeDrafts {
		return nil, nil
	}
	entity, err := l.entity(name, meta, body, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sum := sha256.Sum256(data)
	return &Result{Path: name, Entity: entity, Checksum: hex.EncodeToString(sum[:])}, nil
}

// LoadDirectory loads every matching file under dir, sorted by path. Drafts
// are skipped unless configured otherwise.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Result, error) {
	var results []*Result
	err := fs.WalkDir(l.fs, dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := path.Match(l.cfg.Pattern, path.Base(p)); !ok {
			return nil
		}
		result, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		if result == nil {
			l.logger.Debug("markdown draft skipped", "path", p)
			return nil
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

func (l *Loader) entity(name string, meta FrontMatter, body []byte, modified time.Time) (interfaces.Entity, error) {
	collection := interfaces.Collection(strings.TrimSpace(meta.Type))
	if collection == "" {
		collection = l.cfg.DefaultCollection
	}
	if !collection.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	title := strings.TrimSpace(meta.Title)
	if collection == interfaces.CollectionAuthor && strings.TrimSpace(meta.Name) != "" {
		title = strings.TrimSpace(meta.Name)
	}
	entrySlug, err := deriveSlug(meta.Slug, title, name)
	if err != nil {
		return nil, err
	}

	updated := meta.Updated
	if updated.IsZero() {
		updated = modified.UTC()
	}
	seo := interfaces.SEO{Title: meta.SEOTitle, Description: meta.SEODescription}
	id := "md-" + string(collection) + "-" + entrySlug

	switch collection {
	case interfaces.CollectionArticle:
		return &interfaces.Article{
			ID: id, Slug: entrySlug, Title: title, Category: meta.Category,
			Excerpt: meta.Excerpt, Content: l.converter.Convert(body), Tags: meta.Tags,
			Author: interfaces.AuthorRef{Slug: meta.Author}, ImageURL: meta.Image, SEO: seo,
			PublishedAt: meta.Date, UpdatedAt: updated,
		}, nil
	case interfaces.CollectionAuthor:
		return &interfaces.Author{
			ID: id, Slug: entrySlug, Name: title, Role: meta.Role,
			Bio: strings.TrimSpace(string(body)), Image: meta.Image, UpdatedAt: updated,
		}, nil
	default:
		return &interfaces.GlossaryTerm{
			ID: id, Slug: entrySlug, Title: title, Category: meta.Category,
			Excerpt: meta.Excerpt, Content: l.converter.Convert(body), SEO: seo,
			UpdatedAt: updated,
		}, nil
	}
}

// deriveSlug prefers the explicit slug, then the title, then the file name.
func deriveSlug(explicit, title, name string) (string, error) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	for _, candidate := range []string{explicit, title, base} {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		normalized, err := slug.Normalize(candidate)
		if err == nil && normalized != "" {
			return normalized, nil
		}
	}
	return "", ErrSlugMissing
}
