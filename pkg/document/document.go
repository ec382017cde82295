// Package document models authored rich content as an ordered tree of typed
// nodes. Every node is tagged by a (kind, subtype) pair; renderers and
// metadata derivers dispatch on that pair and never mutate the tree.
package document

// Kind is the first level of a node tag.
type Kind string

const (
	KindBlock    Kind = "block"
	KindList     Kind = "list"
	KindListItem Kind = "listItem"
	KindMark     Kind = "mark"
	KindCustom   Kind = "customType"
)

// Block styles.
const (
	StyleNormal = "normal"
	StyleH2     = "h2"
	StyleH3     = "h3"
)

// List types shared by list and listItem nodes.
const (
	ListBullet = "bullet"
	ListNumber = "number"
)

// Mark subtypes.
const (
	MarkCode   = "code"
	MarkLink   = "link"
	MarkStrong = "strong"
	MarkEm     = "em"
)

// Custom type subtypes.
const (
	TypeImage      = "image"
	TypeQuote      = "quote"
	TypeChecklist  = "checklist"
	TypeCodeBlock  = "codeBlock"
	TypeTable      = "table"
	TypeCTA        = "cta"
	TypeNewsletter = "newsletter"
	TypeYouTube    = "youtube"
	TypeDivider    = "divider"
)

// Document is an ordered sequence of nodes in authored reading order. A nil
// Document means the content was absent or not a sequence.
type Document []Node

// Node is a single content unit. Which fields are populated depends on the
// tag: blocks and list items carry Spans, lists carry list item Children,
// list items may carry nested lists in Children, custom types carry Payload.
type Node struct {
	Key      string  `json:"key,omitempty"`
	Kind     Kind    `json:"kind"`
	Subtype  string  `json:"subtype"`
	Spans    []Span  `json:"spans,omitempty"`
	Children []Node  `json:"children,omitempty"`
	Level    int     `json:"level,omitempty"`
	Payload  Payload `json:"payload,omitempty"`
}

// Span is an inline run of text with the marks applied to it, outermost first.
type Span struct {
	Key   string `json:"key,omitempty"`
	Text  string `json:"text"`
	Marks []Mark `json:"marks,omitempty"`
}

// Mark decorates a span. Href is only set for link marks.
type Mark struct {
	Subtype string `json:"subtype"`
	Href    string `json:"href,omitempty"`
}

// Is reports whether the node carries the given tag.
func (n Node) Is(kind Kind, subtype string) bool {
	return n.Kind == kind && n.Subtype == subtype
}

// Text concatenates the text of the node's spans.
func (n Node) Text() string {
	switch len(n.Spans) {
	case 0:
		return ""
	case 1:
		return n.Spans[0].Text
	}
	size := 0
	for _, span := range n.Spans {
		size += len(span.Text)
	}
	buf := make([]byte, 0, size)
	for _, span := range n.Spans {
		buf = append(buf, span.Text...)
	}
	return string(buf)
}

// Walk visits every node depth-first in reading order. Returning false from
// fn stops descent into that node's children.
func Walk(doc Document, fn func(Node) bool) {
	for _, node := range doc {
		walkNode(node, fn)
	}
}

func walkNode(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		walkNode(child, fn)
	}
}
