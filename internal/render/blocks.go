package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/soygarfield/go-editorial/pkg/document"
)

func blockHandler(tag string) Handler {
	open := fmt.Sprintf(`<%s class="block block--%s">`, tag, tag)
	closing := "</" + tag + ">"
	return func(ctx Context, node document.Node) (template.HTML, bool) {
		inner := ctx.Inline(node.Spans)
		if inner == "" {
			return "", false
		}
		return template.HTML(open + string(inner) + closing), true
	}
}

// listHandler renders a list and threads a fresh 1-based counter through
// its items. Items that produce no output do not advance the counter.
func listHandler(tag, subtype string) Handler {
	open := fmt.Sprintf(`<%s class="list list--%s">`, tag, subtype)
	closing := "</" + tag + ">"
	return func(ctx Context, node document.Node) (template.HTML, bool) {
		inner := ctx.nested()

		var b strings.Builder
		position := 0
		for _, child := range node.Children {
			out, ok := inner.item(position + 1).Render(child)
			if !ok {
				continue
			}
			position++
			b.WriteString(string(out))
		}
		if position == 0 {
			return "", false
		}
		return template.HTML(open + b.String() + closing), true
	}
}

func listItemHandler(subtype string) Handler {
	numbered := subtype == document.ListNumber
	return func(ctx Context, node document.Node) (template.HTML, bool) {
		text := ctx.Inline(node.Spans)

		var nested strings.Builder
		for _, child := range node.Children {
			if out, ok := ctx.Render(child); ok {
				nested.WriteString(string(out))
			}
		}
		if text == "" && nested.Len() == 0 {
			return "", false
		}

		var b strings.Builder
		if numbered && ctx.Position > 0 {
			fmt.Fprintf(&b, `<li class="list__item list__item--number" value="%d"><span class="list__counter">%d</span>`, ctx.Position, ctx.Position)
		} else {
			fmt.Fprintf(&b, `<li class="list__item list__item--%s">`, subtype)
		}
		b.WriteString(`<div class="list__body">`)
		b.WriteString(string(text))
		b.WriteString(nested.String())
		b.WriteString(`</div></li>`)
		return template.HTML(b.String()), true
	}
}
