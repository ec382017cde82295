package render

import (
	"bytes"
	"html/template"

	"github.com/soygarfield/go-editorial/pkg/document"
)

// Newsletter defaults used when the payload leaves them blank.
const (
	DefaultNewsletterTitle       = "Estrategia Semanal"
	DefaultNewsletterDescription = "Únete a +75,000 lectores"
)

// Divider styles.
const (
	DividerDots     = "dots"
	DividerGradient = "gradient"
	DividerLine     = "line"
)

var builtinTemplates = template.Must(template.New("builtin").Parse(`
{{- define "image" -}}
<figure class="portable portable--image"><img src="{{ .URL }}" alt="{{ .Alt }}" loading="lazy">{{ with .Caption }}<figcaption>{{ . }}</figcaption>{{ end }}</figure>
{{- end -}}

{{- define "quote" -}}
<blockquote class="portable portable--quote"><p>"{{ .Text }}"</p>{{ with .Author }}<footer><cite>{{ . }}</cite></footer>{{ end }}</blockquote>
{{- end -}}

{{- define "checklist" -}}
<div class="portable portable--checklist">{{ range . }}<div class="checklist__item"><span class="checklist__icon" aria-hidden="true">&#10003;</span><span class="checklist__text">{{ . }}</span></div>{{ end }}</div>
{{- end -}}

{{- define "codeBlock" -}}
<div class="portable portable--code">{{ with .Language }}<span class="code__language">{{ . }}</span>{{ end }}<pre><code>{{ .Code }}</code></pre></div>
{{- end -}}

{{- define "table" -}}
<div class="portable portable--table"><table><tbody>{{ range . }}<tr class="table__row {{ .Class }}">{{ $header := .Header }}{{ range .Cells }}{{ if $header }}<th>{{ . }}</th>{{ else }}<td>{{ . }}</td>{{ end }}{{ end }}</tr>{{ end }}</tbody></table></div>
{{- end -}}

{{- define "cta" -}}
<div class="portable portable--cta">{{ with .Title }}<h4 class="cta__title">{{ . }}</h4>{{ end }}{{ with .Text }}<p class="cta__text">{{ . }}</p>{{ end }}<a class="cta__button" href="{{ .URL }}">{{ .ButtonText }}</a></div>
{{- end -}}

{{- define "newsletter" -}}
<div class="portable portable--newsletter"><h4 class="newsletter__title">{{ .Title }}</h4><p class="newsletter__description">{{ .Description }}</p><form class="newsletter__form"><input type="email" name="email" placeholder="Email profesional"><button type="submit">Suscribirse</button></form></div>
{{- end -}}

{{- define "youtube" -}}
<div class="portable portable--youtube"><iframe src="https://www.youtube.com/embed/{{ . }}" title="YouTube video player" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" loading="lazy" allowfullscreen></iframe></div>
{{- end -}}

{{- define "divider" -}}
{{ if eq . "dots" }}<div class="portable portable--divider divider--dots"><span></span><span></span><span></span></div>{{ else if eq . "gradient" }}<div class="portable portable--divider divider--gradient"></div>{{ else }}<hr class="portable portable--divider divider--line">{{ end }}
{{- end -}}
`))

func execute(name string, data any) (template.HTML, bool) {
	var buf bytes.Buffer
	if err := builtinTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", false
	}
	return template.HTML(buf.String()), true
}

func renderImage(ctx Context, node document.Node) (template.HTML, bool) {
	url, ok := ctx.ResolveAsset(imageRef(node.Payload))
	if !ok {
		return "", false
	}
	return execute(document.TypeImage, struct {
		URL, Alt, Caption string
	}{
		URL:     url,
		Alt:     node.Payload.StringOr("alt", ""),
		Caption: node.Payload.StringOr("caption", ""),
	})
}

// imageRef prefers the asset reference, then an asset URL, then a bare url
// field.
func imageRef(p document.Payload) string {
	if asset, ok := p.Map("asset"); ok {
		if ref, ok := asset.String("_ref"); ok {
			return ref
		}
		if url, ok := asset.String("url"); ok {
			return url
		}
	}
	return p.StringOr("url", "")
}

func renderQuote(_ Context, node document.Node) (template.HTML, bool) {
	text, ok := node.Payload.String("text")
	if !ok {
		return "", false
	}
	return execute(document.TypeQuote, struct {
		Text, Author string
	}{Text: text, Author: node.Payload.StringOr("author", "")})
}

func renderChecklist(_ Context, node document.Node) (template.HTML, bool) {
	items, _ := node.Payload.Strings("items")
	if len(items) == 0 {
		return "", false
	}
	return execute(document.TypeChecklist, items)
}

func renderCodeBlock(_ Context, node document.Node) (template.HTML, bool) {
	code, ok := node.Payload.Raw("code")
	if !ok {
		return "", false
	}
	return execute(document.TypeCodeBlock, struct {
		Code, Language string
	}{Code: code, Language: node.Payload.StringOr("language", "")})
}

type tableRowView struct {
	Class  string
	Header bool
	Cells  []string
}

func renderTable(_ Context, node document.Node) (template.HTML, bool) {
	rows, ok := node.Payload.TableRows()
	if !ok || len(rows) == 0 {
		return "", false
	}
	views := make([]tableRowView, len(rows))
	for i, row := range rows {
		class := "table__row--even"
		if i%2 == 1 {
			class = "table__row--odd"
		}
		views[i] = tableRowView{Class: class, Header: row.IsHeader, Cells: row.Cells}
	}
	return execute(document.TypeTable, views)
}

func renderCTA(_ Context, node document.Node) (template.HTML, bool) {
	url, ok := safeURL(node.Payload.StringOr("url", ""))
	if !ok {
		return "", false
	}
	return execute(document.TypeCTA, struct {
		URL, Title, Text, ButtonText string
	}{
		URL:        url,
		Title:      node.Payload.StringOr("title", ""),
		Text:       node.Payload.StringOr("text", ""),
		ButtonText: node.Payload.StringOr("buttonText", ""),
	})
}

func renderNewsletter(_ Context, node document.Node) (template.HTML, bool) {
	return execute(document.TypeNewsletter, struct {
		Title, Description string
	}{
		Title:       node.Payload.StringOr("title", DefaultNewsletterTitle),
		Description: node.Payload.StringOr("description", DefaultNewsletterDescription),
	})
}

func renderYouTube(_ Context, node document.Node) (template.HTML, bool) {
	raw, ok := node.Payload.String("url")
	if !ok {
		return "", false
	}
	id, ok := ExtractYouTubeID(raw)
	if !ok {
		return "", false
	}
	return execute(document.TypeYouTube, id)
}

// DividerStyle maps a payload style to one of the three variants. Unknown
// values fall back to the plain line.
func DividerStyle(style string) string {
	switch style {
	case DividerDots, DividerGradient:
		return style
	default:
		return DividerLine
	}
}

func renderDivider(_ Context, node document.Node) (template.HTML, bool) {
	return execute(document.TypeDivider, DividerStyle(node.Payload.StringOr("style", "")))
}
