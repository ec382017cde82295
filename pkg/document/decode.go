package document

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrNotSequence is returned when content is not a JSON array of nodes.
var ErrNotSequence = errors.New("document: content is not a sequence")

// Decode converts the content store's block array into a Document. Blocks
// tagged with a list item type are grouped into list nodes by level, mark
// references are resolved against the block's mark definitions, and any
// other typed object becomes a custom type node carrying its fields as
// payload.
func Decode(data []byte) (Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrNotSequence
	}

	var raw any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, ErrNotSequence
	}
	return FromRaw(items), nil
}

// FromRaw converts already-decoded block objects into a Document. Entries
// that are not objects are dropped.
func FromRaw(items []any) Document {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		nodes = append(nodes, decodeNode(obj))
	}
	return groupLists(nodes)
}

func decodeNode(obj map[string]any) Node {
	typ, _ := obj["_type"].(string)
	key, _ := obj["_key"].(string)

	if typ != "block" {
		payload := make(Payload, len(obj))
		for field, value := range obj {
			if field == "_type" || field == "_key" {
				continue
			}
			payload[field] = value
		}
		return Node{Key: key, Kind: KindCustom, Subtype: typ, Payload: payload}
	}

	spans := decodeSpans(obj)
	if listItem, _ := obj["listItem"].(string); listItem != "" {
		return Node{
			Key:     key,
			Kind:    KindListItem,
			Subtype: listItem,
			Spans:   spans,
			Level:   intValue(obj["level"], 1),
		}
	}

	style, _ := obj["style"].(string)
	if style == "" {
		style = StyleNormal
	}
	return Node{Key: key, Kind: KindBlock, Subtype: style, Spans: spans}
}

func decodeSpans(obj map[string]any) []Span {
	defs := map[string]Mark{}
	if rawDefs, ok := obj["markDefs"].([]any); ok {
		for _, rawDef := range rawDefs {
			def, ok := rawDef.(map[string]any)
			if !ok {
				continue
			}
			defKey, _ := def["_key"].(string)
			defType, _ := def["_type"].(string)
			if defKey == "" || defType == "" {
				continue
			}
			href, _ := def["href"].(string)
			defs[defKey] = Mark{Subtype: defType, Href: href}
		}
	}

	children, _ := obj["children"].([]any)
	spans := make([]Span, 0, len(children))
	for _, rawChild := range children {
		child, ok := rawChild.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := child["_type"].(string); typ != "" && typ != "span" {
			continue
		}
		text, _ := child["text"].(string)
		key, _ := child["_key"].(string)
		span := Span{Key: key, Text: text}
		if rawMarks, ok := child["marks"].([]any); ok {
			for _, rawMark := range rawMarks {
				name, ok := rawMark.(string)
				if !ok || name == "" {
					continue
				}
				if def, ok := defs[name]; ok {
					span.Marks = append(span.Marks, def)
					continue
				}
				span.Marks = append(span.Marks, Mark{Subtype: name})
			}
		}
		spans = append(spans, span)
	}
	return spans
}

func intValue(value any, fallback int) int {
	switch v := value.(type) {
	case float64:
		if v >= 1 {
			return int(v)
		}
	case int:
		if v >= 1 {
			return v
		}
	}
	return fallback
}

// groupLists folds runs of consecutive list items into list nodes.
func groupLists(nodes []Node) Document {
	out := make(Document, 0, len(nodes))
	for i := 0; i < len(nodes); {
		if nodes[i].Kind != KindListItem {
			out = append(out, nodes[i])
			i++
			continue
		}
		end := i
		for end < len(nodes) && nodes[end].Kind == KindListItem {
			end++
		}
		run := nodes[i:end]
		for j := 0; j < len(run); {
			var list Node
			list, j = buildList(run, j)
			out = append(out, list)
		}
		i = end
	}
	return out
}

// buildList consumes items from start that belong to the list opened by
// items[start] and returns the list with the index of the first item left.
func buildList(items []Node, start int) (Node, int) {
	first := items[start]
	level := first.Level
	list := Node{Kind: KindList, Subtype: first.Subtype, Level: level}

	i := start
	for i < len(items) {
		item := items[i]
		if item.Level < level {
			break
		}
		if item.Level == level {
			if item.Subtype != list.Subtype {
				break
			}
			list.Children = append(list.Children, item)
			i++
			continue
		}

		nested, next := buildList(items, i)
		if n := len(list.Children); n > 0 {
			list.Children[n-1].Children = append(list.Children[n-1].Children, nested)
		} else {
			list.Children = append(list.Children, Node{
				Kind:     KindListItem,
				Subtype:  list.Subtype,
				Level:    level,
				Children: []Node{nested},
			})
		}
		i = next
	}
	return list, i
}
