// Package pages assembles rendered, SEO-annotated pages from content
// entities.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/metadata"
	"github.com/soygarfield/go-editorial/internal/render"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

var ErrNotFound = errors.New("pages: not found")

const (
	pageNotFoundCode    = "PAGE_NOT_FOUND"
	pageSourceErrorCode = "PAGE_SOURCE_ERROR"
)

// Service exposes the public page use-cases.
type Service interface {
	Article(ctx context.Context, slug string) (*ArticlePage, error)
	Glossary(ctx context.Context, slug string) (*GlossaryPage, error)
	Home(ctx context.Context) (*HomePage, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSite overrides the site used for URLs and structured data.
func WithSite(site metadata.Site) ServiceOption {
	return func(s *service) {
		s.site = site
	}
}

type service struct {
	source   interfaces.ContentSource
	renderer *render.Renderer
	site     metadata.Site
	logger   interfaces.Logger
}

// NewService builds a Service reading from source. A nil renderer gets the
// built-in handlers.
func NewService(source interfaces.ContentSource, renderer *render.Renderer, opts ...ServiceOption) Service {
	if renderer == nil {
		renderer = render.New(nil)
	}
	s := &service{
		source:   source,
		renderer: renderer,
		site:     metadata.DefaultSite(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Article(ctx context.Context, slug string) (*ArticlePage, error) {
	entity, err := s.fetch(ctx, interfaces.CollectionArticle, slug)
	if err != nil {
		return nil, err
	}
	article, ok := entity.(*interfaces.Article)
	if !ok {
		return nil, notFound(interfaces.CollectionArticle, slug)
	}

	jsonld, err := metadata.MarshalScript(s.site.ArticleSchemas(article)...)
	if err != nil {
		return nil, fmt.Errorf("pages: article %q structured data: %w", slug, err)
	}

	page := &ArticlePage{
		Article:  article,
		Body:     s.renderer.RenderHTML(article.Content),
		ReadTime: metadata.ReadTime(article.ReadTime, article.Content),
		Head:     s.site.ArticleHead(article),
		JSONLD:   jsonld,
	}

	others, err := s.source.FetchAll(ctx, interfaces.CollectionArticle)
	if err != nil {
		// Side content is optional.
		s.logger.Warn("related articles unavailable", "slug", slug, "error", err)
		return page, nil
	}
	page.Related, page.Sidebar = selectRelated(article, others)
	return page, nil
}

func (s *service) Glossary(ctx context.Context, slug string) (*GlossaryPage, error) {
	entity, err := s.fetch(ctx, interfaces.CollectionGlossary, slug)
	if err != nil {
		return nil, err
	}
	term, ok := entity.(*interfaces.GlossaryTerm)
	if !ok {
		return nil, notFound(interfaces.CollectionGlossary, slug)
	}

	jsonld, err := metadata.MarshalScript(s.site.GlossarySchemas(term)...)
	if err != nil {
		return nil, fmt.Errorf("pages: glossary %q structured data: %w", slug, err)
	}
	return &GlossaryPage{
		Term:     term,
		Body:     s.renderer.RenderHTML(term.Content),
		ReadTime: metadata.EstimateReadTime(term.Content),
		Head:     s.site.GlossaryHead(term),
		JSONLD:   jsonld,
	}, nil
}

func (s *service) Home(ctx context.Context) (*HomePage, error) {
	jsonld, err := metadata.MarshalScript(s.site.HomeSchema())
	if err != nil {
		return nil, fmt.Errorf("pages: home structured data: %w", err)
	}
	entities, err := s.source.FetchAll(ctx, interfaces.CollectionArticle)
	if err != nil {
		return nil, sourceError(err, "home")
	}
	latest := make([]*interfaces.Article, 0, LatestLimit)
	for _, entity := range entities {
		if article, ok := entity.(*interfaces.Article); ok && len(latest) < LatestLimit {
			latest = append(latest, article)
		}
	}
	return &HomePage{Latest: latest, JSONLD: jsonld}, nil
}

func (s *service) fetch(ctx context.Context, collection interfaces.Collection, slug string) (interfaces.Entity, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, notFound(collection, slug)
	}
	entity, err := s.source.FetchBySlug(ctx, collection, slug)
	if err != nil {
		if errors.Is(err, interfaces.ErrEntityNotFound) {
			logging.WithEntity(s.logger, collection, slug).Debug("page not found")
			return nil, notFound(collection, slug)
		}
		return nil, sourceError(err, string(collection)+" "+slug)
	}
	if entity == nil {
		return nil, notFound(collection, slug)
	}
	return entity, nil
}

// selectRelated returns up to RelatedLimit articles sharing the category and
// up to SidebarLimit other articles, both in source order and excluding
// current.
func selectRelated(current *interfaces.Article, entities []interfaces.Entity) (related, sidebar []*interfaces.Article) {
	for _, entity := range entities {
		article, ok := entity.(*interfaces.Article)
		if !ok || article.Slug == current.Slug {
			continue
		}
		if len(related) < RelatedLimit && current.Category != "" && article.Category == current.Category {
			related = append(related, article)
		}
		if len(sidebar) < SidebarLimit {
			sidebar = append(sidebar, article)
		}
	}
	return related, sidebar
}

func notFound(collection interfaces.Collection, slug string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s %q", ErrNotFound, collection, slug), goerrors.CategoryNotFound, "page not found").
		WithTextCode(pageNotFoundCode)
}

func sourceError(err error, what string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "content source failed for "+what).
		WithTextCode(pageSourceErrorCode)
}
