// Package sitemap builds the site-wide URL index from a single content
// source snapshot and writes it all-or-nothing.
package sitemap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/metrics"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	sourceUnavailableCode = "SOURCE_UNAVAILABLE"
	writeFailedCode       = "SITEMAP_WRITE_FAILED"
)

var (
	// ErrSourceUnavailable is returned when the content source fails or its
	// snapshot is missing a collection.
	ErrSourceUnavailable = errors.New("sitemap: content source unavailable")
	// ErrWriteFailed is returned when the assembled sitemap cannot be written.
	ErrWriteFailed = errors.New("sitemap: write failed")

	errNilSnapshot = errors.New("empty result")
)

// DefaultOutputPath is where the sitemap is written when no path is set.
const DefaultOutputPath = "public/sitemap.xml"

// DefaultFallbackDate is used as lastmod for fixed pages and for entries
// without a timestamp.
var DefaultFallbackDate = time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC)

// DefaultCategories are the category listings included as static entries.
var DefaultCategories = []string{"seo", "ia"}

// State is a step of a generation run.
type State string

const (
	StateIdle       State = "idle"
	StateQuerying   State = "querying"
	StateAssembling State = "assembling"
	StateWriting    State = "writing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Config controls what a generation run emits and where.
type Config struct {
	BaseURL      string
	OutputPath   string
	FallbackDate time.Time
	Categories   []string
}

// Result describes a finished run, successful or not.
type Result struct {
	RunID    string
	State    State
	States   []State
	URLs     int
	Bytes    int
	Path     string
	Checksum string
	Duration time.Duration
}

func (r *Result) transition(state State) {
	r.State = state
	r.States = append(r.States, state)
}

// Generator runs sitemap generation. Each Generate call is an independent
// one-shot run.
type Generator struct {
	source  interfaces.ContentSource
	writer  ArtifactWriter
	cfg     Config
	logger  interfaces.Logger
	metrics interfaces.MetricsRecorder
	now     func() time.Time
}

// Option configures the generator.
type Option func(*Generator)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records run outcomes.
func WithMetrics(recorder interfaces.MetricsRecorder) Option {
	return func(g *Generator) {
		g.metrics = metrics.OrNoop(recorder)
	}
}

// WithClock overrides time.Now, used for the "today" lastmod of live pages.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator wires a generator. Zero config fields take the package
// defaults.
func NewGenerator(source interfaces.ContentSource, writer ArtifactWriter, cfg Config, opts ...Option) *Generator {
	if strings.TrimSpace(cfg.OutputPath) == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.FallbackDate.IsZero() {
		cfg.FallbackDate = DefaultFallbackDate
	}
	if cfg.Categories == nil {
		cfg.Categories = append([]string(nil), DefaultCategories...)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	g := &Generator{
		source:  source,
		writer:  writer,
		cfg:     cfg,
		logger:  logging.NoOp(),
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate queries the source once, assembles the urlset and writes it. On
// failure nothing is written and the previous file stays in place.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := g.now()
	result := &Result{
		RunID:  uuid.NewString(),
		State:  StateIdle,
		States: []State{StateIdle},
		Path:   g.cfg.OutputPath,
	}
	logger := logging.WithFields(g.logger, map[string]any{"run_id": result.RunID})

	result.transition(StateQuerying)
	snapshot, err := g.query(ctx)
	if err != nil {
		return g.fail(result, logger, start, goerrors.Wrap(fmt.Errorf("%w: %w", ErrSourceUnavailable, err),
			goerrors.CategoryExternal, "sitemap content source unavailable").
			WithTextCode(sourceUnavailableCode))
	}
	logger.Debug("sitemap snapshot fetched",
		"articles", len(snapshot.Articles),
		"authors", len(snapshot.Authors),
		"glossary", len(snapshot.GlossaryTerms))

	result.transition(StateAssembling)
	entries := g.Entries(snapshot, start)
	content := renderURLSet(entries)
	sum := sha256.Sum256(content)
	result.URLs = len(entries)
	result.Bytes = len(content)
	result.Checksum = hex.EncodeToString(sum[:])

	result.transition(StateWriting)
	if err := g.writer.WriteFile(ctx, Artifact{
		Path:        g.cfg.OutputPath,
		Content:     content,
		ContentType: contentTypeXML,
		Checksum:    result.Checksum,
	}); err != nil {
		return g.fail(result, logger, start, goerrors.Wrap(fmt.Errorf("%w: %w", ErrWriteFailed, err),
			goerrors.CategoryInternal, "sitemap write failed").
			WithTextCode(writeFailedCode))
	}

	result.transition(StateDone)
	result.Duration = g.now().Sub(start)
	g.metrics.ObserveSitemapRun(metrics.StatusSuccess, result.URLs, result.Duration)
	logger.Info("sitemap written",
		"path", result.Path,
		"urls", result.URLs,
		"size", humanize.Bytes(uint64(result.Bytes)),
		"articles", len(snapshot.Articles),
		"authors", len(snapshot.Authors),
		"glossary", len(snapshot.GlossaryTerms))
	return result, nil
}

func (g *Generator) query(ctx context.Context) (*interfaces.SitemapSnapshot, error) {
	if g.source == nil {
		return nil, errors.New("no content source configured")
	}
	snapshot, err := g.source.FetchSitemapSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errNilSnapshot
	}
	var missing []string
	if snapshot.Articles == nil {
		missing = append(missing, "articles")
	}
	if snapshot.Authors == nil {
		missing = append(missing, "authors")
	}
	if snapshot.GlossaryTerms == nil {
		missing = append(missing, "glossary")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing collections: %s", strings.Join(missing, ", "))
	}
	return snapshot, nil
}

func (g *Generator) fail(result *Result, logger interfaces.Logger, start time.Time, err error) (*Result, error) {
	from := result.State
	result.transition(StateFailed)
	result.Duration = g.now().Sub(start)
	g.metrics.ObserveSitemapRun(metrics.StatusFailed, 0, result.Duration)
	logger.Error("sitemap generation failed", "state", from, "error", err)
	return result, err
}

// Entries lists the urlset entries for snapshot: fixed pages, categories,
// authors, glossary terms, articles and the legal pages, in that order.
// today is used as lastmod for pages that change with every publication.
func (g *Generator) Entries(snapshot *interfaces.SitemapSnapshot, today time.Time) []Entry {
	fallback := g.cfg.FallbackDate.UTC().Format(time.DateOnly)
	current := today.UTC().Format(time.DateOnly)
	loc := func(path string) string { return g.cfg.BaseURL + path }

	entries := []Entry{
		{Loc: loc("/"), LastMod: current, ChangeFreq: Daily, Priority: 1.0},
		{Loc: loc("/glosario"), LastMod: current, ChangeFreq: Weekly, Priority: 0.8},
		{Loc: loc("/authors"), LastMod: current, ChangeFreq: Weekly, Priority: 0.8},
		{Loc: loc("/contact"), LastMod: fallback, ChangeFreq: Monthly, Priority: 0.7},
		{Loc: loc("/write"), LastMod: fallback, ChangeFreq: Monthly, Priority: 0.7},
	}
	for _, category := range g.cfg.Categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		entries = append(entries, Entry{Loc: loc("/category/" + category), LastMod: current, ChangeFreq: Daily, Priority: 0.8})
	}

	if snapshot != nil {
		for _, item := range snapshot.Authors {
			entries = append(entries, dynamicEntry(loc("/author/"+item.Slug), item, fallback, 0.7))
		}
		for _, item := range snapshot.GlossaryTerms {
			entries = append(entries, dynamicEntry(loc("/glosario/"+item.Slug), item, fallback, 0.8))
		}
		for _, item := range snapshot.Articles {
			entry := dynamicEntry(loc("/article/"+item.Slug), item, fallback, 0.9)
			if url := strings.TrimSpace(item.ImageURL); url != "" {
				entry.Image = &Image{Loc: url, Title: item.Title}
			}
			entries = append(entries, entry)
		}
	}

	entries = append(entries,
		Entry{Loc: loc("/privacy"), LastMod: fallback, ChangeFreq: Monthly, Priority: 0.3},
		Entry{Loc: loc("/terms"), LastMod: fallback, ChangeFreq: Monthly, Priority: 0.3},
	)
	return entries
}

func dynamicEntry(loc string, item interfaces.SitemapItem, fallback string, priority float64) Entry {
	return Entry{
		Loc:        loc,
		LastMod:    FormatDate(item.LastModified, fallback),
		ChangeFreq: Weekly,
		Priority:   priority,
	}
}
