package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/soygarfield/go-editorial/pkg/document"
)

// ErrEntityNotFound is returned by content sources when no entity matches the
// requested collection and slug.
var ErrEntityNotFound = errors.New("content: entity not found")

// Collection names a publishable collection in the content store.
type Collection string

const (
	CollectionArticle  Collection = "article"
	CollectionAuthor   Collection = "author"
	CollectionGlossary Collection = "glossaryTerm"
)

// Collections lists every publishable collection.
func Collections() []Collection {
	return []Collection{CollectionArticle, CollectionAuthor, CollectionGlossary}
}

// Valid reports whether the collection is publishable.
func (c Collection) Valid() bool {
	switch c {
	case CollectionArticle, CollectionAuthor, CollectionGlossary:
		return true
	default:
		return false
	}
}

// Entity is a read-only record fetched from the content store.
type Entity interface {
	EntitySlug() string
	EntityCollection() Collection
}

// ContentSource is the narrow read-only port to the external content store.
// Implementations own all transport concerns; callers may cancel through ctx.
type ContentSource interface {
	FetchBySlug(ctx context.Context, collection Collection, slug string) (Entity, error)
	FetchAll(ctx context.Context, collection Collection) ([]Entity, error)
	FetchSitemapSnapshot(ctx context.Context) (*SitemapSnapshot, error)
}

// AssetResolver turns an asset reference into a public URL.
type AssetResolver interface {
	ResolveAssetURL(ref string) (string, bool)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(ref string) (string, bool)

// ResolveAssetURL calls f(ref).
func (f AssetResolverFunc) ResolveAssetURL(ref string) (string, bool) {
	return f(ref)
}

// SEO carries author-supplied metadata overrides.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// AuthorRef is the denormalised author projection embedded in articles.
type AuthorRef struct {
	Name  string `json:"name,omitempty"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// Article is a long-form editorial entry.
type Article struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Content     document.Document `json:"content,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Author      AuthorRef         `json:"author"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	ReadTime    string            `json:"readTime,omitempty"`
	SEO         SEO               `json:"seo"`
	PublishedAt time.Time         `json:"publishedAt"`
	ModifiedAt  time.Time         `json:"modifiedAt,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt,omitempty"`
}

func (a *Article) EntitySlug() string           { return a.Slug }
func (a *Article) EntityCollection() Collection { return CollectionArticle }

// GlossaryTerm is a dictionary entry.
type GlossaryTerm struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Title     string            `json:"title"`
	Category  string            `json:"category"`
	Excerpt   string            `json:"excerpt,omitempty"`
	Content   document.Document `json:"content,omitempty"`
	SEO       SEO               `json:"seo"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

func (g *GlossaryTerm) EntitySlug() string           { return g.Slug }
func (g *GlossaryTerm) EntityCollection() Collection { return CollectionGlossary }

// Author is a contributor profile.
type Author struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Image     string    `json:"image,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (a *Author) EntitySlug() string           { return a.Slug }
func (a *Author) EntityCollection() Collection { return CollectionAuthor }

// SitemapItem is the minimal projection of an entity needed by the sitemap.
// A zero LastModified means the store did not report one.
type SitemapItem struct {
	Slug         string    `json:"slug"`
	LastModified time.Time `json:"lastmod"`
	Title        string    `json:"title,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
}

// SitemapSnapshot holds every publishable collection fetched in one round
// trip. A nil slice means the collection was missing from the response.
type SitemapSnapshot struct {
	Articles      []SitemapItem `json:"articles"`
	Authors       []SitemapItem `json:"authors"`
	GlossaryTerms []SitemapItem `json:"glossary"`
}
