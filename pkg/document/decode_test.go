package document

import (
	"errors"
	"testing"
)

func TestDecodeBlocksSpansAndMarks(t *testing.T) {
	raw := []byte(`[
		{"_type":"block","_key":"a","style":"h2","children":[{"_type":"span","text":"Intro"}]},
		{"_type":"block","_key":"b","markDefs":[{"_key":"lnk","_type":"link","href":"https://example.com"}],
		 "children":[{"_type":"span","text":"see ","marks":[]},{"_type":"span","text":"docs","marks":["lnk","code"]}]}
	]`)

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc))
	}
	if !doc[0].Is(KindBlock, StyleH2) {
		t.Fatalf("expected h2 block, got %s/%s", doc[0].Kind, doc[0].Subtype)
	}
	if doc[1].Subtype != StyleNormal {
		t.Fatalf("expected default style normal, got %q", doc[1].Subtype)
	}
	marks := doc[1].Spans[1].Marks
	if len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(marks))
	}
	if marks[0].Subtype != MarkLink || marks[0].Href != "https://example.com" {
		t.Fatalf("expected resolved link mark, got %+v", marks[0])
	}
	if marks[1].Subtype != MarkCode {
		t.Fatalf("expected code decorator, got %+v", marks[1])
	}
	if got := doc[1].Text(); got != "see docs" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestDecodeGroupsListItems(t *testing.T) {
	raw := []byte(`[
		{"_type":"block","listItem":"number","level":1,"children":[{"_type":"span","text":"one"}]},
		{"_type":"block","listItem":"number","level":1,"children":[{"_type":"span","text":"two"}]},
		{"_type":"block","listItem":"bullet","level":2,"children":[{"_type":"span","text":"two.a"}]},
		{"_type":"block","listItem":"number","level":1,"children":[{"_type":"span","text":"three"}]},
		{"_type":"block","children":[{"_type":"span","text":"after"}]},
		{"_type":"block","listItem":"bullet","children":[{"_type":"span","text":"other list"}]}
	]`)

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(doc))
	}

	list := doc[0]
	if !list.Is(KindList, ListNumber) {
		t.Fatalf("expected numbered list, got %s/%s", list.Kind, list.Subtype)
	}
	if len(list.Children) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list.Children))
	}
	nested := list.Children[1].Children
	if len(nested) != 1 || !nested[0].Is(KindList, ListBullet) {
		t.Fatalf("expected nested bullet list under second item, got %+v", nested)
	}
	if nested[0].Children[0].Text() != "two.a" {
		t.Fatalf("unexpected nested text %q", nested[0].Children[0].Text())
	}
	if !doc[2].Is(KindList, ListBullet) || len(doc[2].Children) != 1 {
		t.Fatalf("expected separate bullet list, got %+v", doc[2])
	}
}

func TestDecodeCustomTypesKeepPayload(t *testing.T) {
	doc, err := Decode([]byte(`[{"_type":"table","_key":"t","rows":[{"cells":["a","b"],"isHeader":true},{"cells":["1","2"]}]},{"_type":"mystery"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !doc[0].Is(KindCustom, TypeTable) {
		t.Fatalf("expected table node, got %s/%s", doc[0].Kind, doc[0].Subtype)
	}
	if _, ok := doc[0].Payload["_type"]; ok {
		t.Fatalf("payload should not carry _type")
	}
	rows, ok := doc[0].Payload.TableRows()
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v (ok=%v)", rows, ok)
	}
	if !rows[0].IsHeader || rows[1].IsHeader {
		t.Fatalf("header flags not preserved: %+v", rows)
	}
	if doc[1].Subtype != "mystery" {
		t.Fatalf("unknown types should decode with their subtype, got %q", doc[1].Subtype)
	}
}

func TestDecodeRejectsNonSequence(t *testing.T) {
	for _, input := range []string{`{"_type":"block"}`, `null`, ``, `"text"`} {
		if _, err := Decode([]byte(input)); !errors.Is(err, ErrNotSequence) {
			t.Fatalf("input %q: expected ErrNotSequence, got %v", input, err)
		}
	}
}

func TestWalkVisitsNestedNodesInOrder(t *testing.T) {
	doc := Document{
		{Kind: KindBlock, Subtype: StyleNormal, Key: "1"},
		{Kind: KindList, Subtype: ListBullet, Key: "2", Children: []Node{
			{Kind: KindListItem, Subtype: ListBullet, Key: "3"},
		}},
	}
	var keys []string
	Walk(doc, func(n Node) bool {
		keys = append(keys, n.Key)
		return true
	})
	if len(keys) != 3 || keys[0] != "1" || keys[1] != "2" || keys[2] != "3" {
		t.Fatalf("unexpected walk order %v", keys)
	}
}
