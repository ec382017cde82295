package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/soygarfield/go-editorial/internal/render"
	"github.com/soygarfield/go-editorial/pkg/document"
)

// Converter turns Markdown into a document.Document using goldmark's AST.
// It is stateless and safe for concurrent use.
type Converter struct {
	engine goldmark.Markdown
}

// NewConverter returns a converter with the GFM extensions enabled.
func NewConverter() *Converter {
	return &Converter{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Convert parses source and maps each top-level Markdown block to a node.
// Raw HTML is dropped.
func (c *Converter) Convert(source []byte) document.Document {
	root := c.engine.Parser().Parse(text.NewReader(source))
	b := &builder{source: source}
	doc := document.Document{}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if node, ok := b.block(child); ok {
			doc = append(doc, node)
		}
	}
	return doc
}

type builder struct {
	source []byte
	seq    int
}

func (b *builder) key() string {
	b.seq++
	return fmt.Sprintf("md%d", b.seq)
}

func (b *builder) block(n ast.Node) (document.Node, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		style := document.StyleH2
		if v.Level >= 3 {
			style = document.StyleH3
		}
		return document.Node{Key: b.key(), Kind: document.KindBlock, Subtype: style, Spans: b.spans(v)}, true
	case *ast.Paragraph, *ast.TextBlock:
		if node, ok := b.embed(n); ok {
			return node, true
		}
		return document.Node{Key: b.key(), Kind: document.KindBlock, Subtype: document.StyleNormal, Spans: b.spans(n)}, true
	case *ast.Blockquote:
		var parts []string
		for child := v.FirstChild(); child != nil; child = child.NextSibling() {
			if s := strings.TrimSpace(b.plain(child)); s != "" {
				parts = append(parts, s)
			}
		}
		return b.custom(document.TypeQuote, document.Payload{"text": strings.Join(parts, "\n")}), true
	case *ast.FencedCodeBlock:
		payload := document.Payload{"code": b.lines(v)}
		if lang := string(v.Language(b.source)); lang != "" {
			payload["language"] = lang
		}
		return b.custom(document.TypeCodeBlock, payload), true
	case *ast.CodeBlock:
		return b.custom(document.TypeCodeBlock, document.Payload{"code": b.lines(v)}), true
	case *ast.ThematicBreak:
		return b.custom(document.TypeDivider, document.Payload{"style": render.DividerLine}), true
	case *ast.List:
		if items, ok := b.checklist(v); ok {
			return b.custom(document.TypeChecklist, document.Payload{"items": items}), true
		}
		return b.list(v, 1), true
	case *east.Table:
		return b.custom(document.TypeTable, document.Payload{"rows": b.tableRows(v)}), true
	default:
		return document.Node{}, false
	}
}

func (b *builder) custom(subtype string, payload document.Payload) document.Node {
	return document.Node{Key: b.key(), Kind: document.KindCustom, Subtype: subtype, Payload: payload}
}

// embed recognises paragraphs holding a single image or a single YouTube link.
func (b *builder) embed(n ast.Node) (document.Node, bool) {
	only := n.FirstChild()
	if only == nil || only.NextSibling() != nil {
		return document.Node{}, false
	}
	switch v := only.(type) {
	case *ast.Image:
		return b.custom(document.TypeImage, document.Payload{
			"url": string(v.Destination),
			"alt": b.plain(v),
		}), true
	case *ast.AutoLink:
		url := string(v.URL(b.source))
		if _, ok := render.ExtractYouTubeID(url); ok {
			return b.custom(document.TypeYouTube, document.Payload{"url": url}), true
		}
	case *ast.Link:
		url := string(v.Destination)
		if _, ok := render.ExtractYouTubeID(url); ok {
			return b.custom(document.TypeYouTube, document.Payload{"url": url}), true
		}
	}
	return document.Node{}, false
}

func (b *builder) list(v *ast.List, level int) document.Node {
	subtype := document.ListBullet
	if v.IsOrdered() {
		subtype = document.ListNumber
	}
	list := document.Node{Kind: document.KindList, Subtype: subtype, Level: level}
	for item := v.FirstChild(); item != nil; item = item.NextSibling() {
		node := document.Node{Key: b.key(), Kind: document.KindListItem, Subtype: subtype, Level: level}
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				node.Children = append(node.Children, b.list(nested, level+1))
				continue
			}
			node.Spans = append(node.Spans, b.spans(child)...)
		}
		list.Children = append(list.Children, node)
	}
	return list
}

func (b *builder) checklist(v *ast.List) ([]any, bool) {
	items := []any{}
	for item := v.FirstChild(); item != nil; item = item.NextSibling() {
		block := item.FirstChild()
		if block == nil {
			return nil, false
		}
		if _, ok := block.FirstChild().(*east.TaskCheckBox); !ok {
			return nil, false
		}
		items = append(items, strings.TrimSpace(b.plain(block)))
	}
	return items, len(items) > 0
}

func (b *builder) tableRows(v *east.Table) []any {
	rows := []any{}
	for row := v.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		cells := []any{}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(b.plain(cell)))
		}
		rows = append(rows, map[string]any{"cells": cells, "isHeader": header})
	}
	return rows
}

func (b *builder) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(b.source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// spans flattens inline children, carrying the marks of enclosing
// emphasis, code and link nodes.
func (b *builder) spans(n ast.Node) []document.Span {
	var out []document.Span
	b.inline(n, nil, &out)
	return out
}

func (b *builder) inline(n ast.Node, marks []document.Mark, out *[]document.Span) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			value := string(v.Segment.Value(b.source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				value += " "
			}
			appendSpan(out, value, marks)
		case *ast.String:
			appendSpan(out, string(v.Value), marks)
		case *ast.CodeSpan:
			appendSpan(out, b.plain(v), withMark(marks, document.Mark{Subtype: document.MarkCode}))
		case *ast.Emphasis:
			subtype := document.MarkEm
			if v.Level >= 2 {
				subtype = document.MarkStrong
			}
			b.inline(v, withMark(marks, document.Mark{Subtype: subtype}), out)
		case *ast.Link:
			b.inline(v, withMark(marks, document.Mark{Subtype: document.MarkLink, Href: string(v.Destination)}), out)
		case *ast.AutoLink:
			url := string(v.URL(b.source))
			appendSpan(out, string(v.Label(b.source)), withMark(marks, document.Mark{Subtype: document.MarkLink, Href: url}))
		case *east.TaskCheckBox, *ast.RawHTML:
		default:
			b.inline(child, marks, out)
		}
	}
}

func (b *builder) plain(n ast.Node) string {
	var spans []document.Span
	b.inline(n, nil, &spans)
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

func withMark(marks []document.Mark, mark document.Mark) []document.Mark {
	out := make([]document.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

func appendSpan(out *[]document.Span, value string, marks []document.Mark) {
	if value == "" {
		return
	}
	*out = append(*out, document.Span{Text: value, Marks: marks})
}
