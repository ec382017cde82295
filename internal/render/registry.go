package render

import (
	"html/template"
	"sort"
	"strings"
	"sync"

	"github.com/soygarfield/go-editorial/pkg/document"
)

// Handler renders a single node. Returning false means the node contributes
// no output, either because it is malformed or because there is nothing to
// show.
type Handler func(ctx Context, node document.Node) (template.HTML, bool)

// MarkHandler wraps already rendered inline content in a mark decoration.
type MarkHandler func(mark document.Mark, inner template.HTML) template.HTML

// Registry maps node tags to handlers with a two-level kind then subtype
// lookup. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	nodes map[document.Kind]map[string]Handler
	marks map[string]MarkHandler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[document.Kind]map[string]Handler),
		marks: make(map[string]MarkHandler),
	}
}

// NewDefaultRegistry returns a registry with every built-in handler
// registered.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	if err := RegisterBuiltIns(registry); err != nil {
		panic(err)
	}
	return registry
}

// Register stores handler for the (kind, subtype) tag.
func (r *Registry) Register(kind document.Kind, subtype string, handler Handler) error {
	subtype = strings.TrimSpace(subtype)
	if kind == "" || subtype == "" || handler == nil {
		return ErrInvalidHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bySubtype, ok := r.nodes[kind]
	if !ok {
		bySubtype = make(map[string]Handler)
		r.nodes[kind] = bySubtype
	}
	if _, exists := bySubtype[subtype]; exists {
		return ErrDuplicateHandler
	}
	bySubtype[subtype] = handler
	return nil
}

// RegisterMark stores handler for a span mark subtype.
func (r *Registry) RegisterMark(subtype string, handler MarkHandler) error {
	subtype = strings.TrimSpace(subtype)
	if subtype == "" || handler == nil {
		return ErrInvalidHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.marks[subtype]; exists {
		return ErrDuplicateHandler
	}
	r.marks[subtype] = handler
	return nil
}

// Lookup returns the handler registered for the tag.
func (r *Registry) Lookup(kind document.Kind, subtype string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.nodes[kind][subtype]
	return handler, ok
}

// LookupMark returns the handler registered for a mark subtype.
func (r *Registry) LookupMark(subtype string) (MarkHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.marks[subtype]
	return handler, ok
}

// Keys lists the registered node tags as "kind/subtype" and mark tags as
// "mark/subtype", sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.nodes)*4+len(r.marks))
	for kind, bySubtype := range r.nodes {
		for subtype := range bySubtype {
			keys = append(keys, string(kind)+"/"+subtype)
		}
	}
	for subtype := range r.marks {
		keys = append(keys, string(document.KindMark)+"/"+subtype)
	}
	sort.Strings(keys)
	return keys
}
