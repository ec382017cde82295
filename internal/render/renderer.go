// Package render turns a document tree into HTML fragments through a
// registry of (kind, subtype) handlers. Nodes without a handler, or whose
// handler declines them, are skipped without affecting the rest of the
// document.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/metrics"
	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Renderer dispatches document nodes to registered handlers.
type Renderer struct {
	registry *Registry
	assets   interfaces.AssetResolver
	logger   interfaces.Logger
	metrics  interfaces.MetricsRecorder
}

// Option configures the renderer instance.
type Option func(*Renderer)

// WithAssetResolver supplies the resolver used by image handlers.
func WithAssetResolver(resolver interfaces.AssetResolver) Option {
	return func(r *Renderer) {
		r.assets = resolver
	}
}

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records skipped nodes and render durations.
func WithMetrics(recorder interfaces.MetricsRecorder) Option {
	return func(r *Renderer) {
		r.metrics = metrics.OrNoop(recorder)
	}
}

// New constructs a renderer over registry. A nil registry gets the
// built-in handlers.
func New(registry *Registry, opts ...Option) *Renderer {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	r := &Renderer{
		registry: registry,
		assets:   noAssets,
		logger:   logging.NoOp(),
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.assets == nil {
		r.assets = noAssets
	}
	return r
}

// Render returns one fragment per top-level node that produced output, in
// document order.
func (r *Renderer) Render(doc document.Document) []template.HTML {
	start := time.Now()
	ctx := Context{Assets: r.assets, renderer: r}

	out := make([]template.HTML, 0, len(doc))
	for _, node := range doc {
		if html, ok := ctx.Render(node); ok {
			out = append(out, html)
		}
	}

	r.metrics.ObserveRenderDuration(len(doc), time.Since(start))
	return out
}

// RenderHTML joins the fragments produced by Render.
func (r *Renderer) RenderHTML(doc document.Document) template.HTML {
	parts := r.Render(doc)
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(string(part))
	}
	return template.HTML(b.String())
}

func (r *Renderer) dispatch(ctx Context, node document.Node) (out template.HTML, ok bool) {
	handler, found := r.registry.Lookup(node.Kind, node.Subtype)
	if !found {
		r.skip(node, metrics.ReasonUnregistered)
		return "", false
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render handler panicked",
				"kind", node.Kind, "subtype", node.Subtype, "key", node.Key, "panic", fmt.Sprint(rec))
			r.metrics.IncrementNodeSkipped(string(node.Kind), node.Subtype, metrics.ReasonPanic)
			out, ok = "", false
		}
	}()

	out, ok = handler(ctx, node)
	if !ok {
		r.skip(node, metrics.ReasonNoOutput)
		return "", false
	}
	return out, true
}

func (r *Renderer) skip(node document.Node, reason string) {
	r.logger.Debug("render node skipped",
		"kind", node.Kind, "subtype", node.Subtype, "key", node.Key, "reason", reason)
	r.metrics.IncrementNodeSkipped(string(node.Kind), node.Subtype, reason)
}

func (r *Renderer) spans(spans []document.Span) template.HTML {
	var b strings.Builder
	for _, span := range spans {
		inner := template.HTML(template.HTMLEscapeString(span.Text))
		for i := len(span.Marks) - 1; i >= 0; i-- {
			mark := span.Marks[i]
			handler, ok := r.registry.LookupMark(mark.Subtype)
			if !ok {
				continue
			}
			inner = handler(mark, inner)
		}
		b.WriteString(string(inner))
	}
	return template.HTML(b.String())
}

var noAssets = interfaces.AssetResolverFunc(func(string) (string, bool) { return "", false })

// Context is passed to handlers. It carries the position of the node within
// its enclosing list (1-based, zero outside lists), the list nesting depth
// and the asset resolver. Contexts are values; handlers derive child
// contexts instead of mutating shared counters.
type Context struct {
	Position int
	Depth    int
	Assets   interfaces.AssetResolver

	renderer *Renderer
}

// Render dispatches node through the registry.
func (c Context) Render(node document.Node) (template.HTML, bool) {
	if c.renderer == nil {
		return "", false
	}
	return c.renderer.dispatch(c, node)
}

// Inline renders spans with their marks applied.
func (c Context) Inline(spans []document.Span) template.HTML {
	if c.renderer == nil {
		return ""
	}
	return c.renderer.spans(spans)
}

// ResolveAsset resolves an asset reference through the configured resolver.
func (c Context) ResolveAsset(ref string) (string, bool) {
	if c.Assets == nil || strings.TrimSpace(ref) == "" {
		return "", false
	}
	url, ok := c.Assets.ResolveAssetURL(ref)
	if !ok || strings.TrimSpace(url) == "" {
		return "", false
	}
	return url, true
}

// item returns the context for the position-th child of a list.
func (c Context) item(position int) Context {
	c.Position = position
	return c
}

// nested returns the context for a list opened inside the current node.
func (c Context) nested() Context {
	c.Position = 0
	c.Depth++
	return c
}
