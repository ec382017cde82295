package render

import (
	"html/template"
	"testing"

	"github.com/soygarfield/go-editorial/pkg/document"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	handler := func(Context, document.Node) (template.HTML, bool) { return "<p>x</p>", true }

	if err := registry.Register(document.KindCustom, "callout", handler); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if _, ok := registry.Lookup(document.KindCustom, "callout"); !ok {
		t.Fatalf("Lookup() expected handler")
	}
	if _, ok := registry.Lookup(document.KindBlock, "callout"); ok {
		t.Fatalf("Lookup() must match on kind as well as subtype")
	}
}

func TestRegistryRejectsDuplicatesAndInvalid(t *testing.T) {
	registry := NewRegistry()
	handler := func(Context, document.Node) (template.HTML, bool) { return "", false }

	if err := registry.Register(document.KindCustom, "x", handler); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if err := registry.Register(document.KindCustom, "x", handler); err != ErrDuplicateHandler {
		t.Fatalf("Register() expected ErrDuplicateHandler, got %v", err)
	}
	if err := registry.Register(document.KindCustom, " ", handler); err != ErrInvalidHandler {
		t.Fatalf("Register() expected ErrInvalidHandler for blank subtype, got %v", err)
	}
	if err := registry.Register(document.KindCustom, "y", nil); err != ErrInvalidHandler {
		t.Fatalf("Register() expected ErrInvalidHandler for nil handler, got %v", err)
	}
	if err := registry.RegisterMark("", nil); err != ErrInvalidHandler {
		t.Fatalf("RegisterMark() expected ErrInvalidHandler, got %v", err)
	}
}

func TestDefaultRegistryCoversKnownTags(t *testing.T) {
	registry := NewDefaultRegistry()

	customTypes := []string{
		document.TypeImage, document.TypeQuote, document.TypeChecklist,
		document.TypeCodeBlock, document.TypeTable, document.TypeCTA,
		document.TypeNewsletter, document.TypeYouTube, document.TypeDivider,
	}
	for _, subtype := range customTypes {
		if _, ok := registry.Lookup(document.KindCustom, subtype); !ok {
			t.Fatalf("missing built-in %s", subtype)
		}
	}
	for _, mark := range []string{document.MarkCode, document.MarkLink} {
		if _, ok := registry.LookupMark(mark); !ok {
			t.Fatalf("missing mark %s", mark)
		}
	}

	keys := registry.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys() not sorted: %v", keys)
		}
	}
}

func TestRegisteringNewTypeExtendsDispatch(t *testing.T) {
	registry := NewDefaultRegistry()
	err := registry.Register(document.KindCustom, "callout", func(_ Context, node document.Node) (template.HTML, bool) {
		text, ok := node.Payload.String("text")
		if !ok {
			return "", false
		}
		return template.HTML("<aside>" + template.HTMLEscapeString(text) + "</aside>"), true
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	out := New(registry).RenderHTML(document.Document{
		{Kind: document.KindCustom, Subtype: "callout", Payload: document.Payload{"text": "Ojo"}},
	})
	if out != "<aside>Ojo</aside>" {
		t.Fatalf("unexpected output %q", out)
	}
}
