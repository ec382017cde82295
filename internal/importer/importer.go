// Package importer loads newline-delimited JSON exports of the content store
// into a local sink, validating every record against a JSON schema first.
package importer

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

//go:embed record.schema.json
var recordSchema []byte

const maxLineBytes = 4 << 20

var ErrSinkRequired = errors.New("importer: sink is required")

// Sink receives imported entities.
type Sink interface {
	Upsert(ctx context.Context, entity interfaces.Entity) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entity interfaces.Entity) error

func (f SinkFunc) Upsert(ctx context.Context, entity interfaces.Entity) error {
	return f(ctx, entity)
}

// LineError reports a record that could not be imported.
type LineError struct {
	Line   int
	Issues []string
	Err    error
}

func (e *LineError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, strings.Join(e.Issues, "; "))
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Result summarises an import run.
type Result struct {
	Imported     int
	ByCollection map[interfaces.Collection]int
	Failed       []*LineError
	Duration     time.Duration
}

// Options tunes an import run.
type Options struct {
	// Strict aborts the run on the first invalid record.
	Strict bool
	// DryRun validates without writing to the sink.
	DryRun bool
}

// Importer validates and converts export records.
type Importer struct {
	sink   Sink
	schema *jsonschema.Schema
	logger interfaces.Logger
	now    func() time.Time
}

// New compiles the record schema and returns an importer writing to sink.
func New(sink Sink, logger interfaces.Logger) (*Importer, error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.schema.json", bytes.NewReader(recordSchema)); err != nil {
		return nil, fmt.Errorf("importer: load schema: %w", err)
	}
	schema, err := compiler.Compile("record.schema.json")
	if err != nil {
		return nil, fmt.Errorf("importer: compile schema: %w", err)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{sink: sink, schema: schema, logger: logger, now: time.Now}, nil
}

// Import reads one JSON object per line from r. Blank lines are ignored.
// Invalid records are collected in the result unless opts.Strict is set.
func (i *Importer) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	start := i.now()
	result := &Result{ByCollection: map[interfaces.Collection]int{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return result, err
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		entity, lineErr := i.decodeLine(line, raw)
		if lineErr == nil && !opts.DryRun {
			if err := i.sink.Upsert(ctx, entity); err != nil {
				lineErr = &LineError{Line: line, Err: err}
			}
		}
		if lineErr != nil {
			if opts.Strict {
				return result, lineErr
			}
			i.logger.Warn("import record skipped", "line", line, "error", lineErr)
			result.Failed = append(result.Failed, lineErr)
			continue
		}

		result.Imported++
		result.ByCollection[entity.EntityCollection()]++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("importer: read: %w", err)
	}

	result.Duration = i.now().Sub(start)
	i.logger.Info("import complete",
		"imported", result.Imported,
		"failed", len(result.Failed),
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	return result, nil
}

func (i *Importer) decodeLine(line int, raw []byte) (interfaces.Entity, *LineError) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &LineError{Line: line, Err: fmt.Errorf("invalid json: %w", err)}
	}
	if err := i.schema.Validate(value); err != nil {
		return nil, &LineError{Line: line, Issues: schemaIssues(err), Err: err}
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &LineError{Line: line, Err: err}
	}
	return rec.entity(), nil
}

func schemaIssues(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "#"
			}
			issues = append(issues, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return issues
}

type slugRef struct {
	Current string `json:"current"`
}

type record struct {
	Type           string          `json:"_type"`
	ID             string          `json:"_id"`
	Title          string          `json:"title"`
	Name           string          `json:"name"`
	Slug           slugRef         `json:"slug"`
	Category       string          `json:"category"`
	Excerpt        string          `json:"excerpt"`
	Content        json.RawMessage `json:"content"`
	SEOTitle       string          `json:"seoTitle"`
	SEODescription string          `json:"seoDescription"`
	Role           string          `json:"role"`
	Bio            string          `json:"bio"`
	Date           string          `json:"date"`
	UpdatedAt      string          `json:"_updatedAt"`
}

func (r record) entity() interfaces.Entity {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	var content document.Document
	if len(r.Content) > 0 {
		content, _ = document.Decode(r.Content)
	}
	seo := interfaces.SEO{Title: r.SEOTitle, Description: r.SEODescription}

	switch interfaces.Collection(r.Type) {
	case interfaces.CollectionArticle:
		return &interfaces.Article{
			ID: id, Slug: r.Slug.Current, Title: r.Title, Category: r.Category,
			Excerpt: r.Excerpt, Content: content, SEO: seo,
			PublishedAt: parseTime(r.Date), UpdatedAt: parseTime(r.UpdatedAt),
		}
	case interfaces.CollectionAuthor:
		return &interfaces.Author{
			ID: id, Slug: r.Slug.Current, Name: r.Name, Role: r.Role, Bio: r.Bio,
			UpdatedAt: parseTime(r.UpdatedAt),
		}
	default:
		return &interfaces.GlossaryTerm{
			ID: id, Slug: r.Slug.Current, Title: r.Title, Category: r.Category,
			Excerpt: r.Excerpt, Content: content, SEO: seo,
			UpdatedAt: parseTime(r.UpdatedAt),
		}
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
