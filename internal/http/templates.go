package http

import (
	"fmt"
	"html/template"
	"io"

	"github.com/soygarfield/go-editorial/internal/pages"
)

type homeView struct {
	Title string
	Page  *pages.HomePage
}

// WritePage renders an assembled page model as a full HTML document. It
// accepts *pages.ArticlePage, *pages.GlossaryPage and *pages.HomePage.
func WritePage(w io.Writer, siteName string, page any) error {
	switch p := page.(type) {
	case *pages.ArticlePage:
		return pageTemplates.ExecuteTemplate(w, "article", p)
	case *pages.GlossaryPage:
		return pageTemplates.ExecuteTemplate(w, "glossary", p)
	case *pages.HomePage:
		return pageTemplates.ExecuteTemplate(w, "home", homeView{Title: siteName, Page: p})
	default:
		return fmt.Errorf("http: unsupported page model %T", page)
	}
}

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Head.Title}}</title>
{{with .Head.Description}}<meta name="description" content="{{.}}">{{end}}
{{with .Head.Image}}<meta property="og:image" content="{{.}}">{{end}}
<link rel="canonical" href="{{.Head.Canonical}}">
{{.JSONLD}}
</head>{{end}}

{{define "cards"}}{{range .}}<li class="card"><a href="/article/{{.Slug}}">{{.Title}}</a></li>{{end}}{{end}}

{{define "article"}}{{template "head" .}}
<body>
<article class="article">
<h1>{{.Article.Title}}</h1>
<p class="article__meta">{{.Article.Author.Name}} · <span class="article__read-time">{{.ReadTime}}</span></p>
<div class="article__body">{{.Body}}</div>
</article>
{{with .Related}}<section class="related"><h2>Artículos relacionados</h2><ul>{{template "cards" .}}</ul></section>{{end}}
{{with .Sidebar}}<aside class="sidebar"><ul>{{template "cards" .}}</ul></aside>{{end}}
</body>
</html>{{end}}

{{define "glossary"}}{{template "head" .}}
<body>
<article class="glossary">
<h1>{{.Term.Title}}</h1>
{{with .Term.Excerpt}}<p class="glossary__excerpt">{{.}}</p>{{end}}
<div class="glossary__body">{{.Body}}</div>
</article>
</body>
</html>{{end}}

{{define "home"}}<!doctype html>
<html lang="es">
<head><meta charset="utf-8"><title>{{.Title}}</title>{{.Page.JSONLD}}</head>
<body><ul class="latest">{{template "cards" .Page.Latest}}</ul></body>
</html>{{end}}

{{define "notfound"}}<!doctype html>
<html lang="es"><head><meta charset="utf-8"><title>No encontrado</title></head>
<body><h1>not found</h1><p><a href="/">Inicio</a></p></body>
</html>{{end}}
`))
