package metadata

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
	"github.com/soygarfield/go-editorial/pkg/testsupport"
)

func crumbs(t *testing.T, obj Object) []Object {
	t.Helper()
	items, ok := obj["itemListElement"].([]Object)
	if !ok {
		t.Fatalf("itemListElement missing or wrong type: %T", obj["itemListElement"])
	}
	return items
}

func TestArticleSchemasOrderAndBreadcrumb(t *testing.T) {
	site := DefaultSite()
	article := testsupport.SampleArticle()

	schemas := site.ArticleSchemas(article)
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schema objects, got %d", len(schemas))
	}
	if schemas[0]["@type"] != "BreadcrumbList" || schemas[1]["@type"] != "BlogPosting" {
		t.Fatalf("unexpected order: %v, %v", schemas[0]["@type"], schemas[1]["@type"])
	}

	items := crumbs(t, schemas[0])
	if len(items) != 3 {
		t.Fatalf("expected 3 breadcrumb items, got %d", len(items))
	}
	if items[0]["item"] != "https://soygarfield.com" || items[0]["name"] != "Inicio" {
		t.Fatalf("unexpected root crumb %v", items[0])
	}
	if items[1]["item"] != "https://soygarfield.com/category/seo" {
		t.Fatalf("category crumb = %v", items[1]["item"])
	}
	if items[2]["item"] != "https://soygarfield.com/article/mi-articulo" || items[2]["position"] != 3 {
		t.Fatalf("unexpected entity crumb %v", items[2])
	}
}

func TestCategoryURLIsLowerCasedRegardlessOfAuthoring(t *testing.T) {
	site := DefaultSite()
	for _, category := range []string{"SEO", "seo", "Seo", " SEO "} {
		article := &interfaces.Article{Slug: "mi-articulo", Category: category}
		items := crumbs(t, site.ArticleSchemas(article)[0])
		if items[1]["item"] != "https://soygarfield.com/category/seo" {
			t.Fatalf("category %q produced %v", category, items[1]["item"])
		}
	}
}

func TestBlogPostingFallbacks(t *testing.T) {
	site := DefaultSite()
	article := testsupport.SampleArticle()

	posting := site.ArticleSchemas(article)[1]
	if posting["headline"] != article.Title {
		t.Fatalf("headline should fall back to title, got %v", posting["headline"])
	}
	if posting["description"] != article.Excerpt {
		t.Fatalf("description should fall back to excerpt, got %v", posting["description"])
	}
	if posting["datePublished"] != "2026-01-20" || posting["dateModified"] != "2026-01-20" {
		t.Fatalf("dates = %v / %v", posting["datePublished"], posting["dateModified"])
	}
	author := posting["author"].(Object)
	if author["url"] != "https://soygarfield.com/author/pietro-fiorillo" {
		t.Fatalf("author url = %v", author["url"])
	}
	page := posting["mainEntityOfPage"].(Object)
	if page["@id"] != "https://soygarfield.com/article/mi-articulo" {
		t.Fatalf("mainEntityOfPage = %v", page["@id"])
	}

	article.SEO = interfaces.SEO{Title: "SEO técnico en 2026", Description: "Resumen"}
	article.ModifiedAt = time.Date(2026, time.March, 2, 9, 15, 0, 0, time.UTC)
	article.Author.Slug = ""
	posting = site.ArticleSchemas(article)[1]
	if posting["headline"] != "SEO técnico en 2026" || posting["description"] != "Resumen" {
		t.Fatalf("SEO overrides ignored: %v", posting)
	}
	if posting["dateModified"] != "2026-03-02T09:15:00Z" {
		t.Fatalf("dateModified = %v", posting["dateModified"])
	}
	if posting["author"].(Object)["url"] != "https://soygarfield.com/about" {
		t.Fatalf("author without slug should link to /about")
	}
}

func TestArticleSchemasAreDeterministic(t *testing.T) {
	site := DefaultSite()
	article := testsupport.SampleArticle()

	first, err := MarshalScript(site.ArticleSchemas(article)...)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := MarshalScript(site.ArticleSchemas(article)...)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if first != second {
		t.Fatalf("schema encoding not deterministic")
	}
	if !strings.HasPrefix(string(first), `<script type="application/ld+json">[`) {
		t.Fatalf("expected array payload, got %s", first)
	}
}

func TestMarshalScriptEscapesMarkup(t *testing.T) {
	html, err := MarshalScript(Object{"name": "</script><b>x</b>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(string(html), `<script type="application/ld+json">`), `</script>`)
	if strings.Contains(body, "</script>") {
		t.Fatalf("payload must not close the script element: %s", html)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("payload not valid json: %v", err)
	}
	if decoded["name"] != "</script><b>x</b>" {
		t.Fatalf("round trip mismatch: %q", decoded["name"])
	}
}

func TestGlossarySchemasAndHead(t *testing.T) {
	site := DefaultSite()
	term := testsupport.SampleGlossaryTerm()

	schemas := site.GlossarySchemas(term)
	if len(schemas) != 2 || schemas[1]["@type"] != "DefinedTerm" {
		t.Fatalf("unexpected glossary schemas %v", schemas)
	}
	items := crumbs(t, schemas[0])
	if items[1]["item"] != "https://soygarfield.com/glosario" || items[2]["item"] != "https://soygarfield.com/glosario/crawl-budget" {
		t.Fatalf("unexpected glossary breadcrumb %v", items)
	}

	head := site.GlossaryHead(term)
	if head.Title != "Crawl Budget | Glosario Digital Soy Garfield" {
		t.Fatalf("default glossary title = %q", head.Title)
	}
	term.SEO.Title = "Qué es el crawl budget"
	if got := site.GlossaryHead(term).Title; got != "Qué es el crawl budget" {
		t.Fatalf("glossary SEO title override ignored: %q", got)
	}
}

func TestHomeSchemaGraph(t *testing.T) {
	site := DefaultSite()
	home := site.HomeSchema()
	graph, ok := home["@graph"].([]Object)
	if !ok || len(graph) != 2 {
		t.Fatalf("expected two graph nodes, got %v", home["@graph"])
	}
	if graph[0]["@id"] != "https://soygarfield.com/#website" {
		t.Fatalf("website id = %v", graph[0]["@id"])
	}
	org := graph[1]
	if org["logo"].(Object)["url"] != "https://soygarfield.com/assets/pietro.png" {
		t.Fatalf("logo url = %v", org["logo"])
	}
	if len(org["sameAs"].([]string)) != 2 {
		t.Fatalf("sameAs = %v", org["sameAs"])
	}
}
