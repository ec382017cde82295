package sanity

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const articleProjection = `{
  "id": _id,
  title,
  "slug": slug.current,
  category,
  excerpt,
  content,
  tags,
  "author": author->name,
  "authorSlug": author->slug.current,
  "authorImage": author->image.asset->url,
  "authorRole": author->role,
  "authorBio": author->bio,
  "imageUrl": mainImage.asset->url,
  readTime,
  seoTitle,
  seoDescription,
  date,
  modifiedDate,
  _updatedAt
}`

const glossaryProjection = `{
  "id": _id,
  title,
  "slug": slug.current,
  category,
  excerpt,
  content,
  seoTitle,
  seoDescription,
  _updatedAt
}`

const authorProjection = `{
  "id": _id,
  name,
  "slug": slug.current,
  role,
  bio,
  "image": image.asset->url,
  _updatedAt
}`

// sitemapQuery fetches every publishable collection in one round trip.
const sitemapQuery = `{
  "articles": *[_type == "article"] | order(date desc) {
    "slug": slug.current,
    "lastmod": _updatedAt,
    title,
    "imageUrl": mainImage.asset->url
  },
  "authors": *[_type == "author"] {
    "slug": slug.current,
    "lastmod": _updatedAt
  },
  "glossary": *[_type == "glossaryTerm"] {
    "slug": slug.current,
    "lastmod": _updatedAt
  }
}`

func bySlugQuery(collection interfaces.Collection) string {
	return `*[_type == "` + string(collection) + `" && slug.current == $slug][0]` + projection(collection)
}

func allQuery(collection interfaces.Collection) string {
	order := "order(title asc)"
	switch collection {
	case interfaces.CollectionArticle:
		order = "order(date desc)"
	case interfaces.CollectionAuthor:
		order = "order(name asc)"
	}
	return `*[_type == "` + string(collection) + `"] | ` + order + ` ` + projection(collection)
}

func projection(collection interfaces.Collection) string {
	switch collection {
	case interfaces.CollectionArticle:
		return articleProjection
	case interfaces.CollectionAuthor:
		return authorProjection
	default:
		return glossaryProjection
	}
}

type articleRecord struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Category       string          `json:"category"`
	Excerpt        string          `json:"excerpt"`
	Content        json.RawMessage `json:"content"`
	Tags           []string        `json:"tags"`
	Author         string          `json:"author"`
	AuthorSlug     string          `json:"authorSlug"`
	AuthorImage    string          `json:"authorImage"`
	AuthorRole     string          `json:"authorRole"`
	AuthorBio      string          `json:"authorBio"`
	ImageURL       string          `json:"imageUrl"`
	ReadTime       string          `json:"readTime"`
	SEOTitle       string          `json:"seoTitle"`
	SEODescription string          `json:"seoDescription"`
	Date           string          `json:"date"`
	ModifiedDate   string          `json:"modifiedDate"`
	UpdatedAt      string          `json:"_updatedAt"`
}

func (r articleRecord) entity() *interfaces.Article {
	return &interfaces.Article{
		ID:       r.ID,
		Slug:     r.Slug,
		Title:    r.Title,
		Category: r.Category,
		Excerpt:  r.Excerpt,
		Content:  decodeContent(r.Content),
		Tags:     r.Tags,
		Author: interfaces.AuthorRef{
			Name:  r.Author,
			Slug:  r.AuthorSlug,
			Image: r.AuthorImage,
			Role:  r.AuthorRole,
			Bio:   r.AuthorBio,
		},
		ImageURL:    r.ImageURL,
		ReadTime:    r.ReadTime,
		SEO:         interfaces.SEO{Title: r.SEOTitle, Description: r.SEODescription},
		PublishedAt: parseTime(r.Date),
		ModifiedAt:  parseTime(r.ModifiedDate),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

type glossaryRecord struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Category       string          `json:"category"`
	Excerpt        string          `json:"excerpt"`
	Content        json.RawMessage `json:"content"`
	SEOTitle       string          `json:"seoTitle"`
	SEODescription string          `json:"seoDescription"`
	UpdatedAt      string          `json:"_updatedAt"`
}

func (r glossaryRecord) entity() *interfaces.GlossaryTerm {
	return &interfaces.GlossaryTerm{
		ID:        r.ID,
		Slug:      r.Slug,
		Title:     r.Title,
		Category:  r.Category,
		Excerpt:   r.Excerpt,
		Content:   decodeContent(r.Content),
		SEO:       interfaces.SEO{Title: r.SEOTitle, Description: r.SEODescription},
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

type authorRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	UpdatedAt string `json:"_updatedAt"`
}

func (r authorRecord) entity() *interfaces.Author {
	return &interfaces.Author{
		ID:        r.ID,
		Slug:      r.Slug,
		Name:      r.Name,
		Role:      r.Role,
		Bio:       r.Bio,
		Image:     r.Image,
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

type sitemapRecord struct {
	Slug     string `json:"slug"`
	LastMod  string `json:"lastmod"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type sitemapEnvelope struct {
	Articles []sitemapRecord `json:"articles"`
	Authors  []sitemapRecord `json:"authors"`
	Glossary []sitemapRecord `json:"glossary"`
}

func (e sitemapEnvelope) snapshot() *interfaces.SitemapSnapshot {
	return &interfaces.SitemapSnapshot{
		Articles:      sitemapItems(e.Articles),
		Authors:       sitemapItems(e.Authors),
		GlossaryTerms: sitemapItems(e.Glossary),
	}
}

// sitemapItems keeps nil for a collection missing from the response.
func sitemapItems(records []sitemapRecord) []interfaces.SitemapItem {
	if records == nil {
		return nil
	}
	items := make([]interfaces.SitemapItem, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Slug) == "" {
			continue
		}
		items = append(items, interfaces.SitemapItem{
			Slug:         r.Slug,
			LastModified: parseTime(r.LastMod),
			Title:        r.Title,
			ImageURL:     r.ImageURL,
		})
	}
	return items
}

// decodeContent returns nil when the content is absent or not an array.
func decodeContent(raw json.RawMessage) document.Document {
	if len(raw) == 0 {
		return nil
	}
	doc, err := document.Decode(raw)
	if err != nil {
		return nil
	}
	return doc
}

// parseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t
	}
	return time.Time{}
}
