package pages

import (
	"html/template"

	"github.com/soygarfield/go-editorial/internal/metadata"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Selection limits for article page side content.
const (
	RelatedLimit = 2
	SidebarLimit = 3
	LatestLimit  = 6
)

// ArticlePage is everything an article template needs.
type ArticlePage struct {
	Article  *interfaces.Article
	Body     template.HTML
	ReadTime string
	Head     metadata.Head
	JSONLD   template.HTML
	// Related holds other articles of the same category.
	Related []*interfaces.Article
	// Sidebar holds the most recent other articles regardless of category.
	Sidebar []*interfaces.Article
}

// GlossaryPage is everything a glossary term template needs.
type GlossaryPage struct {
	Term     *interfaces.GlossaryTerm
	Body     template.HTML
	ReadTime string
	Head     metadata.Head
	JSONLD   template.HTML
}

// HomePage carries the site graph and the latest articles.
type HomePage struct {
	Latest []*interfaces.Article
	JSONLD template.HTML
}
