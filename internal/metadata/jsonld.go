package metadata

import (
	"html/template"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const schemaContext = "https://schema.org"

// Object is a schema.org node. Keys are emitted in sorted order, so equal
// objects always encode to equal bytes.
type Object map[string]any

// ArticleSchemas returns the breadcrumb trail followed by the BlogPosting
// for article.
func (s Site) ArticleSchemas(article *interfaces.Article) []Object {
	if article == nil {
		return nil
	}
	pageURL := s.ArticleURL(article.Slug)

	breadcrumb := s.breadcrumb(
		crumb{name: s.HomeLabel, url: s.URL("/")},
		crumb{name: article.Category, url: s.CategoryURL(article.Category)},
		crumb{name: article.Title, url: pageURL},
	)

	published := formatDate(article.PublishedAt)
	modified := formatDate(article.ModifiedAt)
	if modified == "" {
		modified = published
	}

	posting := Object{
		"@context": schemaContext,
		"@type":    "BlogPosting",
		"headline": firstNonEmpty(article.SEO.Title, article.Title),
		"author": Object{
			"@type": "Person",
			"name":  article.Author.Name,
			"url":   s.AuthorURL(article.Author.Slug),
		},
		"publisher":           s.publisher(),
		"description":         firstNonEmpty(article.SEO.Description, article.Excerpt),
		"isAccessibleForFree": "True",
		"mainEntityOfPage": Object{
			"@type": "WebPage",
			"@id":   pageURL,
		},
	}
	setIf(posting, "image", article.ImageURL)
	setIf(posting, "datePublished", published)
	setIf(posting, "dateModified", modified)

	return []Object{breadcrumb, posting}
}

// GlossarySchemas returns the breadcrumb trail followed by a DefinedTerm
// for term.
func (s Site) GlossarySchemas(term *interfaces.GlossaryTerm) []Object {
	if term == nil {
		return nil
	}
	pageURL := s.GlossaryURL(term.Slug)

	breadcrumb := s.breadcrumb(
		crumb{name: s.HomeLabel, url: s.URL("/")},
		crumb{name: s.GlossaryLabel, url: s.URL("/glosario")},
		crumb{name: term.Title, url: pageURL},
	)

	defined := Object{
		"@context":    schemaContext,
		"@type":       "DefinedTerm",
		"name":        term.Title,
		"description": firstNonEmpty(term.SEO.Description, term.Excerpt),
		"url":         pageURL,
		"inDefinedTermSet": Object{
			"@type": "DefinedTermSet",
			"name":  s.GlossaryName,
			"url":   s.URL("/glosario"),
		},
	}
	setIf(defined, "termCode", term.Category)

	return []Object{breadcrumb, defined}
}

// HomeSchema returns the WebSite and Organization graph for the home page.
func (s Site) HomeSchema() Object {
	websiteID := s.URL("/") + "/#website"
	organizationID := s.URL("/") + "/#organization"

	organization := Object{
		"@type": "Organization",
		"@id":   organizationID,
		"name":  s.Name,
		"url":   s.URL("/"),
		"logo":  Object{"@type": "ImageObject", "url": s.LogoURL()},
	}
	if len(s.SameAs) > 0 {
		organization["sameAs"] = append([]string(nil), s.SameAs...)
	}

	return Object{
		"@context": schemaContext,
		"@graph": []Object{
			{
				"@type":       "WebSite",
				"@id":         websiteID,
				"url":         s.URL("/"),
				"name":        s.Name,
				"description": s.Description,
				"publisher":   Object{"@id": organizationID},
				"inLanguage":  s.Language,
			},
			organization,
		},
	}
}

// MarshalScript encodes objects as a JSON-LD script element. A single
// object is emitted bare, several as an array.
func MarshalScript(objects ...Object) (template.HTML, error) {
	var payload any = objects
	if len(objects) == 1 {
		payload = objects[0]
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return template.HTML(`<script type="application/ld+json">` + string(data) + `</script>`), nil
}

type crumb struct {
	name string
	url  string
}

func (s Site) breadcrumb(crumbs ...crumb) Object {
	items := make([]Object, len(crumbs))
	for i, c := range crumbs {
		items[i] = Object{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.name,
			"item":     c.url,
		}
	}
	return Object{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

func (s Site) publisher() Object {
	return Object{
		"@type": "Organization",
		"name":  s.Name,
		"logo": Object{
			"@type": "ImageObject",
			"url":   s.LogoURL(),
		},
	}
}

// formatDate renders calendar dates as YYYY-MM-DD and instants with a clock
// component as RFC 3339. Zero times render empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func setIf(obj Object, key, value string) {
	if strings.TrimSpace(value) != "" {
		obj[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
