package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Site holds the publication identity used to build absolute URLs and
// structured data.
type Site struct {
	BaseURL       string
	Name          string
	Description   string
	Language      string
	LogoPath      string
	HomeLabel     string
	GlossaryLabel string
	GlossaryName  string
	SameAs        []string
}

// DefaultSite returns the soygarfield.com identity.
func DefaultSite() Site {
	return Site{
		BaseURL:       "https://soygarfield.com",
		Name:          "Soy Garfield",
		Description:   "Consultoría estratégica de SEO e Inteligencia Artificial",
		Language:      "es",
		LogoPath:      "/assets/pietro.png",
		HomeLabel:     "Inicio",
		GlossaryLabel: "Glosario",
		GlossaryName:  "Glosario Digital Soy Garfield",
		SameAs: []string{
			"https://linkedin.com/in/pietrofiorillo",
			"https://twitter.com/pietrofiorillo",
		},
	}
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "" || path == "/" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (s Site) ArticleURL(slug string) string  { return s.URL("/article/" + slug) }
func (s Site) GlossaryURL(slug string) string { return s.URL("/glosario/" + slug) }

// AuthorURL returns the author profile URL, or the about page when the
// author has no slug.
func (s Site) AuthorURL(slug string) string {
	if strings.TrimSpace(slug) == "" {
		return s.URL("/about")
	}
	return s.URL("/author/" + slug)
}

// CategoryURL returns the category listing URL. The category is lower-cased
// regardless of how it was authored.
func (s Site) CategoryURL(category string) string {
	return s.URL("/category/" + CategoryPath(category))
}

// CategoryPath lower-cases category with Spanish casing rules.
func CategoryPath(category string) string {
	return cases.Lower(language.Spanish).String(strings.TrimSpace(category))
}

// LogoURL returns the absolute publisher logo URL.
func (s Site) LogoURL() string {
	return s.URL(s.LogoPath)
}
