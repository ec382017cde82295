package testsupport

import (
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SampleContent is an article body touching every built-in node type.
const SampleContent = `[
	{"_type":"block","_key":"b1","style":"h2","children":[{"_type":"span","text":"Qué es el SEO técnico"}]},
	{"_type":"block","_key":"b2","markDefs":[{"_key":"l1","_type":"link","href":"https://developers.google.com/search"}],
	 "children":[{"_type":"span","text":"El SEO técnico optimiza la "},{"_type":"span","text":"rastreabilidad","marks":["l1","strong"]},{"_type":"span","text":" de un sitio."}]},
	{"_type":"block","_key":"b3","listItem":"number","level":1,"children":[{"_type":"span","text":"Rastreo"}]},
	{"_type":"block","_key":"b4","listItem":"number","level":1,"children":[{"_type":"span","text":"Indexación"}]},
	{"_type":"image","_key":"i1","asset":{"_ref":"image-abc123-1200x630-png"},"alt":"Diagrama"},
	{"_type":"quote","_key":"q1","text":"El contenido es el rey","author":"Bill Gates"},
	{"_type":"checklist","_key":"c1","items":["Sitemap enviado","Robots revisado"]},
	{"_type":"codeBlock","_key":"k1","code":"User-agent: *\nDisallow:","language":"text"},
	{"_type":"table","_key":"t1","rows":[{"cells":["Métrica","Valor"],"isHeader":true},{"cells":["LCP","2.1s"]},{"cells":["CLS","0.05"]}]},
	{"_type":"cta","_key":"x1","title":"¿Hablamos?","text":"Auditoría gratuita","url":"https://soygarfield.com/contact","buttonText":"Contactar"},
	{"_type":"newsletter","_key":"n1"},
	{"_type":"youtube","_key":"y1","url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	{"_type":"divider","_key":"d1","style":"gradient"}
]`

// SampleDocument decodes SampleContent.
func SampleDocument() document.Document {
	doc, err := document.Decode([]byte(SampleContent))
	if err != nil {
		panic(err)
	}
	return doc
}

// WordsDocument returns a document holding exactly words tokens spread over
// normal blocks of at most perBlock words.
func WordsDocument(words, perBlock int) document.Document {
	if perBlock <= 0 {
		perBlock = 50
	}
	doc := document.Document{}
	for words > 0 {
		n := min(words, perBlock)
		doc = append(doc, document.Node{
			Kind:    document.KindBlock,
			Subtype: document.StyleNormal,
			Spans:   []document.Span{{Text: strings.TrimSpace(strings.Repeat("palabra ", n))}},
		})
		words -= n
	}
	return doc
}

// Date returns midnight UTC for the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SampleArticle returns an article in the SEO category with the sample body.
func SampleArticle() *interfaces.Article {
	return &interfaces.Article{
		ID:       "article-seo-tecnico",
		Slug:     "mi-articulo",
		Title:    "Guía de SEO técnico",
		Category: "SEO",
		Excerpt:  "Todo lo que necesitas saber sobre SEO técnico.",
		Content:  SampleDocument(),
		Tags:     []string{"seo", "tecnico"},
		Author: interfaces.AuthorRef{
			Name: "Pietro Fiorillo",
			Slug: "pietro-fiorillo",
			Role: "SEO & IA Architect",
		},
		ImageURL:    "https://cdn.sanity.io/images/test/production/abc123-1200x630.png",
		PublishedAt: Date(2026, time.January, 20),
		UpdatedAt:   time.Date(2026, time.February, 1, 10, 30, 0, 0, time.UTC),
	}
}

// SampleArticles returns a small catalogue spanning two categories, newest
// first.
func SampleArticles() []*interfaces.Article {
	base := SampleArticle()
	mk := func(slug, title, category string, day int) *interfaces.Article {
		a := *base
		a.ID = "article-" + slug
		a.Slug = slug
		a.Title = title
		a.Category = category
		a.PublishedAt = Date(2026, time.January, day)
		return &a
	}
	return []*interfaces.Article{
		mk("mi-articulo", "Guía de SEO técnico", "SEO", 20),
		mk("enlazado-interno", "Enlazado interno", "SEO", 18),
		mk("prompts-para-seo", "Prompts para SEO", "IA", 15),
		mk("core-web-vitals", "Core Web Vitals", "SEO", 10),
		mk("agentes-ia", "Agentes de IA", "IA", 5),
	}
}

// SampleGlossaryTerm returns a glossary entry without SEO overrides.
func SampleGlossaryTerm() *interfaces.GlossaryTerm {
	return &interfaces.GlossaryTerm{
		ID:       "glossary-crawl-budget",
		Slug:     "crawl-budget",
		Title:    "Crawl Budget",
		Category: "SEO",
		Excerpt:  "Cantidad de URLs que un buscador rastrea en un periodo.",
		Content: document.Document{{
			Kind:    document.KindBlock,
			Subtype: document.StyleNormal,
			Spans:   []document.Span{{Text: "El crawl budget depende de la salud del servidor."}},
		}},
		UpdatedAt: Date(2026, time.February, 3),
	}
}

// SampleAuthor returns the author referenced by SampleArticle.
func SampleAuthor() *interfaces.Author {
	return &interfaces.Author{
		ID:        "author-pietro",
		Slug:      "pietro-fiorillo",
		Name:      "Pietro Fiorillo",
		Role:      "SEO & IA Architect",
		UpdatedAt: Date(2026, time.January, 2),
	}
}

// SampleSnapshot returns a sitemap snapshot with one item per collection.
func SampleSnapshot() *interfaces.SitemapSnapshot {
	return &interfaces.SitemapSnapshot{
		Articles: []interfaces.SitemapItem{{
			Slug:         "mi-articulo",
			LastModified: time.Date(2026, time.February, 1, 10, 30, 0, 0, time.UTC),
			Title:        "SEO & IA <2026>",
			ImageURL:     "https://cdn.sanity.io/images/test/production/abc123-1200x630.png",
		}},
		Authors:       []interfaces.SitemapItem{{Slug: "pietro-fiorillo", LastModified: Date(2026, time.January, 2)}},
		GlossaryTerms: []interfaces.SitemapItem{{Slug: "crawl-budget"}},
	}
}
