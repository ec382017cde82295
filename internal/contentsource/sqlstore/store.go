// Package sqlstore mirrors content entities into a SQL database through bun,
// so pages and sitemaps can be served while the content store is offline.
package sqlstore

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Store is a ContentSource backed by the editorial_entries table.
type Store struct {
	db     *bun.DB
	repo   repository.Repository[*Entry]
	logger interfaces.Logger
}

var _ interfaces.ContentSource = (*Store)(nil)

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	logger        interfaces.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCache puts a read-through cache in front of the repository.
func WithCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(o *storeOptions) {
		o.cacheService = service
		o.keySerializer = serializer
	}
}

// NewEntryRepository builds the bun repository for Entry records.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "entry_key"
		},
		GetIdentifierValue: func(e *Entry) string {
			return e.Key
		},
	})
}

// New returns a Store over db. Call Migrate before first use.
func New(db *bun.DB, opts ...Option) *Store {
	options := storeOptions{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&options)
	}

	repo := NewEntryRepository(db)
	if options.cacheService != nil && options.keySerializer != nil {
		repo = repositorycache.New(repo, options.cacheService, options.keySerializer)
	}
	return &Store{db: db, repo: repo, logger: options.logger}
}

// Migrate creates the entries table and its indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("sqlstore: create table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_editorial_entries_collection ON editorial_entries(collection, published_at)"); err != nil {
		return fmt.Errorf("sqlstore: create index: %w", err)
	}
	return nil
}

// Upsert stores entity, replacing the existing row for its collection and
// slug.
func (s *Store) Upsert(ctx context.Context, entity interfaces.Entity) error {
	if entity == nil || entity.EntitySlug() == "" {
		return goerrors.New("entity requires a slug", goerrors.CategoryValidation).
			WithTextCode("ENTITY_SLUG_REQUIRED")
	}
	entry, err := newEntry(entity)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByIdentifier(ctx, entry.Key)
	switch {
	case err == nil:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if _, err := s.repo.Update(ctx, entry); err != nil {
			return fmt.Errorf("sqlstore: update %s: %w", entry.Key, err)
		}
		s.logger.Debug("sqlstore entry updated", "key", entry.Key)
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		entry.ID = uuid.New()
		if _, err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("sqlstore: create %s: %w", entry.Key, err)
		}
		s.logger.Debug("sqlstore entry created", "key", entry.Key)
	default:
		return fmt.Errorf("sqlstore: lookup %s: %w", entry.Key, err)
	}
	return nil
}

func (s *Store) FetchBySlug(ctx context.Context, collection interfaces.Collection, slug string) (interfaces.Entity, error) {
	entry, err := s.repo.GetByIdentifier(ctx, entryKey(collection, slug))
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, fmt.Errorf("sqlstore: %s %q: %w", collection, slug, interfaces.ErrEntityNotFound)
		}
		return nil, fmt.Errorf("sqlstore: fetch %s %q: %w", collection, slug, err)
	}
	return entry.Entity()
}

func (s *Store) FetchAll(ctx context.Context, collection interfaces.Collection) ([]interfaces.Entity, error) {
	entries, err := s.list(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.Entity, 0, len(entries))
	for _, entry := range entries {
		entity, err := entry.Entity()
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// FetchSitemapSnapshot reads the indexed columns only; payloads are not
// decoded.
func (s *Store) FetchSitemapSnapshot(ctx context.Context) (*interfaces.SitemapSnapshot, error) {
	entries, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.collection ASC, ?TableAlias.published_at DESC, ?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: snapshot: %w", err)
	}

	snapshot := &interfaces.SitemapSnapshot{
		Articles:      []interfaces.SitemapItem{},
		Authors:       []interfaces.SitemapItem{},
		GlossaryTerms: []interfaces.SitemapItem{},
	}
	for _, entry := range entries {
		switch interfaces.Collection(entry.Collection) {
		case interfaces.CollectionArticle:
			snapshot.Articles = append(snapshot.Articles, entry.sitemapItem())
		case interfaces.CollectionAuthor:
			snapshot.Authors = append(snapshot.Authors, entry.sitemapItem())
		case interfaces.CollectionGlossary:
			snapshot.GlossaryTerms = append(snapshot.GlossaryTerms, entry.sitemapItem())
		}
	}
	return snapshot, nil
}

func (s *Store) list(ctx context.Context, collection interfaces.Collection) ([]*Entry, error) {
	entries, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.collection = ?", string(collection))
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if collection == interfaces.CollectionArticle {
				return q.OrderExpr("?TableAlias.published_at DESC, ?TableAlias.slug ASC")
			}
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list %s: %w", collection, err)
	}
	return entries, nil
}

// Mirror copies every collection from source into the store.
func (s *Store) Mirror(ctx context.Context, source interfaces.ContentSource) (int, error) {
	count := 0
	for _, collection := range interfaces.Collections() {
		entities, err := source.FetchAll(ctx, collection)
		if err != nil {
			return count, fmt.Errorf("sqlstore: mirror %s: %w", collection, err)
		}
		for _, entity := range entities {
			if err := s.Upsert(ctx, entity); err != nil {
				return count, err
			}
			count++
		}
	}
	s.logger.Info("sqlstore mirror complete", "entries", count)
	return count, nil
}
