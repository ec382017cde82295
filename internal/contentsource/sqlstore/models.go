package sqlstore

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Entry is one mirrored entity. The full entity is kept as JSON in Payload;
// the remaining columns exist for lookups and ordering.
type Entry struct {
	bun.BaseModel `bun:"table:editorial_entries,alias:ee"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key         string    `bun:"entry_key,notnull,unique" json:"entry_key"`
	Collection  string    `bun:"collection,notnull" json:"collection"`
	Slug        string    `bun:"slug,notnull" json:"slug"`
	Title       string    `bun:"title" json:"title"`
	Category    string    `bun:"category" json:"category,omitempty"`
	ImageURL    string    `bun:"image_url" json:"image_url,omitempty"`
	Payload     string    `bun:"payload,notnull" json:"payload"`
	PublishedAt time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ModifiedAt  time.Time `bun:"modified_at,nullzero" json:"modified_at,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

func entryKey(collection interfaces.Collection, slug string) string {
	return string(collection) + "/" + slug
}

func newEntry(entity interfaces.Entity) (*Entry, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: encode %s %q: %w", entity.EntityCollection(), entity.EntitySlug(), err)
	}

	entry := &Entry{
		Key:        entryKey(entity.EntityCollection(), entity.EntitySlug()),
		Collection: string(entity.EntityCollection()),
		Slug:       entity.EntitySlug(),
		Payload:    string(payload),
	}
	switch e := entity.(type) {
	case *interfaces.Article:
		entry.Title = e.Title
		entry.Category = e.Category
		entry.ImageURL = e.ImageURL
		entry.PublishedAt = e.PublishedAt
		entry.ModifiedAt = e.UpdatedAt
	case *interfaces.GlossaryTerm:
		entry.Title = e.Title
		entry.Category = e.Category
		entry.ModifiedAt = e.UpdatedAt
	case *interfaces.Author:
		entry.Title = e.Name
		entry.ModifiedAt = e.UpdatedAt
	}
	return entry, nil
}

// Entity decodes the stored payload back into its typed entity.
func (e *Entry) Entity() (interfaces.Entity, error) {
	var entity interfaces.Entity
	switch interfaces.Collection(e.Collection) {
	case interfaces.CollectionArticle:
		entity = &interfaces.Article{}
	case interfaces.CollectionGlossary:
		entity = &interfaces.GlossaryTerm{}
	case interfaces.CollectionAuthor:
		entity = &interfaces.Author{}
	default:
		return nil, fmt.Errorf("sqlstore: unknown collection %q", e.Collection)
	}
	if err := json.Unmarshal([]byte(e.Payload), entity); err != nil {
		return nil, fmt.Errorf("sqlstore: decode %s: %w", e.Key, err)
	}
	return entity, nil
}

func (e *Entry) sitemapItem() interfaces.SitemapItem {
	item := interfaces.SitemapItem{Slug: e.Slug, LastModified: e.ModifiedAt}
	if e.Collection == string(interfaces.CollectionArticle) {
		item.Title = e.Title
		item.ImageURL = e.ImageURL
	}
	return item
}
