// Package memory provides an in-process content source, used for fixtures,
// previews and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Source holds entities keyed by collection and slug. It is safe for
// concurrent use.
type Source struct {
	mu          sync.RWMutex
	entities    map[interfaces.Collection]map[string]interfaces.Entity
	assets      map[string]string
	snapshotErr error
}

var (
	_ interfaces.ContentSource = (*Source)(nil)
	_ interfaces.AssetResolver = (*Source)(nil)
)

// New returns a source seeded with entities.
func New(entities ...interfaces.Entity) *Source {
	s := &Source{
		entities: make(map[interfaces.Collection]map[string]interfaces.Entity),
		assets:   make(map[string]string),
	}
	for _, entity := range entities {
		s.Put(entity)
	}
	return s
}

// Put stores entity, replacing any entity with the same collection and slug.
func (s *Source) Put(entity interfaces.Entity) {
	if entity == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := entity.EntityCollection()
	bySlug, ok := s.entities[collection]
	if !ok {
		bySlug = make(map[string]interfaces.Entity)
		s.entities[collection] = bySlug
	}
	bySlug[entity.EntitySlug()] = entity
}

// PutAsset maps an asset reference to its public URL.
func (s *Source) PutAsset(ref, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[ref] = url
}

// FailSnapshots makes FetchSitemapSnapshot return err until cleared with nil.
func (s *Source) FailSnapshots(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotErr = err
}

func (s *Source) FetchBySlug(ctx context.Context, collection interfaces.Collection, slug string) (interfaces.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[collection][slug]
	if !ok {
		return nil, fmt.Errorf("memory: %s %q: %w", collection, slug, interfaces.ErrEntityNotFound)
	}
	return entity, nil
}

// FetchAll returns articles newest first and other collections by slug.
func (s *Source) FetchAll(ctx context.Context, collection interfaces.Collection) ([]interfaces.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]interfaces.Entity, 0, len(s.entities[collection]))
	for _, entity := range s.entities[collection] {
		out = append(out, entity)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		ai, aok := out[i].(*interfaces.Article)
		aj, bok := out[j].(*interfaces.Article)
		if aok && bok && !ai.PublishedAt.Equal(aj.PublishedAt) {
			return ai.PublishedAt.After(aj.PublishedAt)
		}
		return out[i].EntitySlug() < out[j].EntitySlug()
	})
	return out, nil
}

func (s *Source) FetchSitemapSnapshot(ctx context.Context) (*interfaces.SitemapSnapshot, error) {
	s.mu.RLock()
	err := s.snapshotErr
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	snapshot := &interfaces.SitemapSnapshot{
		Articles:      []interfaces.SitemapItem{},
		Authors:       []interfaces.SitemapItem{},
		GlossaryTerms: []interfaces.SitemapItem{},
	}
	for _, collection := range interfaces.Collections() {
		entities, err := s.FetchAll(ctx, collection)
		if err != nil {
			return nil, err
		}
		for _, entity := range entities {
			switch e := entity.(type) {
			case *interfaces.Article:
				snapshot.Articles = append(snapshot.Articles, interfaces.SitemapItem{
					Slug: e.Slug, LastModified: e.UpdatedAt, Title: e.Title, ImageURL: e.ImageURL,
				})
			case *interfaces.Author:
				snapshot.Authors = append(snapshot.Authors, interfaces.SitemapItem{Slug: e.Slug, LastModified: e.UpdatedAt})
			case *interfaces.GlossaryTerm:
				snapshot.GlossaryTerms = append(snapshot.GlossaryTerms, interfaces.SitemapItem{Slug: e.Slug, LastModified: e.UpdatedAt})
			}
		}
	}
	return snapshot, nil
}

// ResolveAssetURL returns the URL registered for ref. Absolute http(s)
// references resolve to themselves.
func (s *Source) ResolveAssetURL(ref string) (string, bool) {
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.assets[ref]
	return url, ok && url != ""
}
