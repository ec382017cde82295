package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata header of a Markdown entry.
type FrontMatter struct {
	Type           string         `yaml:"type"`
	Title          string         `yaml:"title"`
	Name           string         `yaml:"name"`
	Slug           string         `yaml:"slug"`
	Category       string         `yaml:"category"`
	Excerpt        string         `yaml:"excerpt"`
	Author         string         `yaml:"author"`
	Role           string         `yaml:"role"`
	Image          string         `yaml:"image"`
	Tags           []string       `yaml:"tags"`
	Date           time.Time      `yaml:"date"`
	Updated        time.Time      `yaml:"updated"`
	SEOTitle       string         `yaml:"seoTitle"`
	SEODescription string         `yaml:"seoDescription"`
	Draft          bool           `yaml:"draft"`
	Custom         map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into its front matter and Markdown body.
// Sources without a front matter block return a zero FrontMatter.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}
