package render

import (
	"html/template"
	"strings"

	"github.com/soygarfield/go-editorial/pkg/document"
)

const externalLinkAttrs = ` target="_blank" rel="noindex nofollow"`

func wrapMark(open, closing string) MarkHandler {
	return func(_ document.Mark, inner template.HTML) template.HTML {
		return template.HTML(open + string(inner) + closing)
	}
}

// linkMark renders an anchor. Links starting with http open in a new
// browsing context and are marked non-indexable. Hrefs with a disallowed
// scheme leave the content undecorated.
func linkMark(mark document.Mark, inner template.HTML) template.HTML {
	href, ok := safeURL(mark.Href)
	if !ok {
		return inner
	}

	var b strings.Builder
	b.WriteString(`<a class="mark mark--link" href="`)
	b.WriteString(template.HTMLEscapeString(href))
	b.WriteString(`"`)
	if strings.HasPrefix(href, "http") {
		b.WriteString(externalLinkAttrs)
	}
	b.WriteString(">")
	b.WriteString(string(inner))
	b.WriteString("</a>")
	return template.HTML(b.String())
}
