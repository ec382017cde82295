package sanity

import (
	"context"
	"fmt"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Source adapts a Client to interfaces.ContentSource.
type Source struct {
	client *Client
	assets AssetURLBuilder
	logger interfaces.Logger
}

// SourceOption configures the source.
type SourceOption func(*Source)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSource builds a Source over a new client for cfg.
func NewSource(cfg Config, clientOpts []ClientOption, opts ...SourceOption) (*Source, error) {
	client, err := NewClient(cfg, clientOpts...)
	if err != nil {
		return nil, err
	}
	s := &Source{
		client: client,
		assets: NewAssetURLBuilder(cfg),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Assets returns the CDN URL builder for the source's dataset.
func (s *Source) Assets() interfaces.AssetResolver {
	return s.assets
}

// ResolveAssetURL implements interfaces.AssetResolver.
func (s *Source) ResolveAssetURL(ref string) (string, bool) {
	return s.assets.ResolveAssetURL(ref)
}

func (s *Source) FetchBySlug(ctx context.Context, collection interfaces.Collection, slug string) (interfaces.Entity, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("sanity: unknown collection %q", collection)
	}
	logger := logging.WithEntity(s.logger, collection, slug)
	query := bySlugQuery(collection)
	params := map[string]any{"slug": slug}

	var (
		entity interfaces.Entity
		found  bool
		err    error
	)
	switch collection {
	case interfaces.CollectionArticle:
		var record articleRecord
		if found, err = s.client.Query(ctx, query, params, &record); found {
			entity = record.entity()
		}
	case interfaces.CollectionAuthor:
		var record authorRecord
		if found, err = s.client.Query(ctx, query, params, &record); found {
			entity = record.entity()
		}
	default:
		var record glossaryRecord
		if found, err = s.client.Query(ctx, query, params, &record); found {
			entity = record.entity()
		}
	}
	if err != nil {
		logger.Warn("sanity fetch failed", "error", err)
		return nil, err
	}
	if !found {
		logger.Debug("sanity entity not found")
		return nil, fmt.Errorf("sanity: %s %q: %w", collection, slug, interfaces.ErrEntityNotFound)
	}
	return entity, nil
}

func (s *Source) FetchAll(ctx context.Context, collection interfaces.Collection) ([]interfaces.Entity, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("sanity: unknown collection %q", collection)
	}
	query := allQuery(collection)

	var entities []interfaces.Entity
	switch collection {
	case interfaces.CollectionArticle:
		var records []articleRecord
		if _, err := s.client.Query(ctx, query, nil, &records); err != nil {
			return nil, err
		}
		for _, r := range records {
			entities = append(entities, r.entity())
		}
	case interfaces.CollectionAuthor:
		var records []authorRecord
		if _, err := s.client.Query(ctx, query, nil, &records); err != nil {
			return nil, err
		}
		for _, r := range records {
			entities = append(entities, r.entity())
		}
	default:
		var records []glossaryRecord
		if _, err := s.client.Query(ctx, query, nil, &records); err != nil {
			return nil, err
		}
		for _, r := range records {
			entities = append(entities, r.entity())
		}
	}
	s.logger.Debug("sanity collection fetched", "collection", collection, "count", len(entities))
	return entities, nil
}

// FetchSitemapSnapshot issues the combined sitemap query. A null result is
// returned as a nil snapshot.
func (s *Source) FetchSitemapSnapshot(ctx context.Context) (*interfaces.SitemapSnapshot, error) {
	var envelope sitemapEnvelope
	found, err := s.client.Query(ctx, sitemapQuery, nil, &envelope)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return envelope.snapshot(), nil
}

var (
	_ interfaces.ContentSource = (*Source)(nil)
	_ interfaces.AssetResolver = (*Source)(nil)
)
