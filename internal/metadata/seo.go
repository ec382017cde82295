package metadata

import "github.com/soygarfield/go-editorial/pkg/interfaces"

// Head is the set of SEO fields a page injects into its document head.
type Head struct {
	Title       string
	Description string
	Image       string
	Canonical   string
}

// ArticleHead prefers the SEO overrides and falls back to the title and
// excerpt.
func (s Site) ArticleHead(article *interfaces.Article) Head {
	if article == nil {
		return Head{}
	}
	return Head{
		Title:       firstNonEmpty(article.SEO.Title, article.Title),
		Description: firstNonEmpty(article.SEO.Description, article.Excerpt),
		Image:       article.ImageURL,
		Canonical:   s.ArticleURL(article.Slug),
	}
}

// GlossaryHead defaults the title to "<title> | <glossary name>".
func (s Site) GlossaryHead(term *interfaces.GlossaryTerm) Head {
	if term == nil {
		return Head{}
	}
	title := term.SEO.Title
	if firstNonEmpty(title) == "" {
		title = term.Title + " | " + s.GlossaryName
	}
	return Head{
		Title:       title,
		Description: firstNonEmpty(term.SEO.Description, term.Excerpt),
		Canonical:   s.GlossaryURL(term.Slug),
	}
}
