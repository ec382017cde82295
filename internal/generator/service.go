// Package generator prerenders the public pages into static files: one
// HTML document per article and glossary term, the home page, an RSS feed
// and robots.txt. A manifest of page checksums lets incremental builds skip
// pages whose output did not change.
package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/pages"
	"github.com/soygarfield/go-editorial/internal/sitemap"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

var (
	ErrTemplatesRequired = errors.New("generator: template function is required")
	ErrSourceRequired    = errors.New("generator: content source and page service are required")
)

// TemplateFunc writes an assembled page model as a complete HTML document.
type TemplateFunc func(w io.Writer, page any) error

// Service describes the static build contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// Config captures build output settings.
type Config struct {
	OutputDir      string
	BaseURL        string
	SiteName       string
	Description    string
	Language       string
	FeedItems      int
	Workers        int
	GenerateFeed   bool
	GenerateRobots bool
}

// BuildOptions narrows a single run.
type BuildOptions struct {
	// Force rewrites pages even when the manifest checksum matches.
	Force  bool
	DryRun bool
}

// BuildResult reports what a run produced.
type BuildResult struct {
	PagesBuilt   int
	PagesSkipped int
	Outputs      []string
	Stale        []string
	Duration     time.Duration
	DryRun       bool
}

// Dependencies lists the collaborators a build needs.
type Dependencies struct {
	Source    interfaces.ContentSource
	Pages     pages.Service
	Templates TemplateFunc
	// Writer persists artifacts relative to Config.OutputDir. Defaults to an
	// atomic file writer rooted there.
	Writer sitemap.ArtifactWriter
	Logger interfaces.Logger
}

// NewService wires a generator.
func NewService(cfg Config, deps Dependencies) Service {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if deps.Writer == nil {
		deps.Writer = sitemap.NewFileWriter(cfg.OutputDir)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	return &service{cfg: cfg, deps: deps, now: time.Now}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

type pageJob struct {
	collection interfaces.Collection
	slug       string
	output     string
}

type pageOutcome struct {
	job      pageJob
	checksum string
	skipped  bool
	err      error
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Templates == nil {
		return nil, ErrTemplatesRequired
	}
	if s.deps.Source == nil || s.deps.Pages == nil {
		return nil, ErrSourceRequired
	}

	start := s.now()
	logger := logging.WithFields(s.deps.Logger, map[string]any{
		"output_dir": s.cfg.OutputDir,
		"dry_run":    opts.DryRun,
		"force":      opts.Force,
	})

	articles, err := s.articles(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := s.deps.Source.FetchAll(ctx, interfaces.CollectionGlossary)
	if err != nil {
		return nil, sourceError(err, "glossary terms")
	}

	jobs := []pageJob{{output: "index.html"}}
	for _, article := range articles {
		jobs = append(jobs, pageJob{
			collection: interfaces.CollectionArticle,
			slug:       article.Slug,
			output:     outputPath(articleRoute(article.Slug)),
		})
	}
	for _, entity := range terms {
		jobs = append(jobs, pageJob{
			collection: interfaces.CollectionGlossary,
			slug:       entity.EntitySlug(),
			output:     outputPath(glossaryRoute(entity.EntitySlug())),
		})
	}

	manifest := s.loadManifest(logger)
	result := &BuildResult{DryRun: opts.DryRun}

	var (
		mu       sync.Mutex
		outcomes = make([]pageOutcome, 0, len(jobs))
	)
	g := new(errgroup.Group)
	g.SetLimit(s.workers())
	for _, job := range jobs {
		g.Go(func() error {
			outcome := s.buildPage(ctx, job, manifest, opts)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	keep := map[string]struct{}{}
	renderedAt := s.now()
	for _, outcome := range outcomes {
		if outcome.err != nil {
			errs = append(errs, outcome.err)
			continue
		}
		keep[outcome.job.output] = struct{}{}
		result.Outputs = append(result.Outputs, outcome.job.output)
		if outcome.skipped {
			result.PagesSkipped++
			continue
		}
		result.PagesBuilt++
		manifest.setPage(manifestPage{
			Collection: string(outcome.job.collection),
			Slug:       outcome.job.slug,
			Output:     outcome.job.output,
			Checksum:   outcome.checksum,
			RenderedAt: renderedAt,
		})
	}

	if !opts.DryRun && len(errs) == 0 {
		if s.cfg.GenerateFeed {
			if err := s.write(ctx, feedFileName, "application/rss+xml", s.renderFeed(s.feedItems(articles), start)); err != nil {
				errs = append(errs, err)
			} else {
				result.Outputs = append(result.Outputs, feedFileName)
			}
		}
		if s.cfg.GenerateRobots {
			if err := s.write(ctx, "robots.txt", "text/plain", s.renderRobots()); err != nil {
				errs = append(errs, err)
			} else {
				result.Outputs = append(result.Outputs, "robots.txt")
			}
		}
	}

	if !opts.DryRun && len(errs) == 0 {
		result.Stale = manifest.prune(keep)
		manifest.GeneratedAt = renderedAt
		if err := s.persistManifest(ctx, manifest); err != nil {
			errs = append(errs, err)
		}
	}

	sort.Strings(result.Outputs)
	result.Duration = s.now().Sub(start)
	if len(errs) > 0 {
		logger.Error("static build failed", "errors", len(errs))
		return result, errors.Join(errs...)
	}
	for _, stale := range result.Stale {
		logger.Warn("stale static output left in place", "output", stale)
	}
	logger.Info("static build completed",
		"built", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *service) buildPage(ctx context.Context, job pageJob, manifest *buildManifest, opts BuildOptions) pageOutcome {
	outcome := pageOutcome{job: job}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		return outcome
	}

	page, err := s.assemble(ctx, job)
	if err != nil {
		outcome.err = err
		return outcome
	}

	var buf bytes.Buffer
	if err := s.deps.Templates(&buf, page); err != nil {
		outcome.err = fmt.Errorf("generator: render %s: %w", job.output, err)
		return outcome
	}
	outcome.checksum = computeHash(buf.Bytes())

	if !opts.Force && manifest.unchanged(job.output, outcome.checksum) && s.exists(job.output) {
		outcome.skipped = true
		return outcome
	}
	if opts.DryRun {
		return outcome
	}
	outcome.err = s.write(ctx, job.output, "text/html", buf.Bytes())
	return outcome
}

func (s *service) assemble(ctx context.Context, job pageJob) (any, error) {
	switch job.collection {
	case interfaces.CollectionArticle:
		return s.deps.Pages.Article(ctx, job.slug)
	case interfaces.CollectionGlossary:
		return s.deps.Pages.Glossary(ctx, job.slug)
	default:
		return s.deps.Pages.Home(ctx)
	}
}

func (s *service) articles(ctx context.Context) ([]*interfaces.Article, error) {
	entities, err := s.deps.Source.FetchAll(ctx, interfaces.CollectionArticle)
	if err != nil {
		return nil, sourceError(err, "articles")
	}
	articles := make([]*interfaces.Article, 0, len(entities))
	for _, entity := range entities {
		if article, ok := entity.(*interfaces.Article); ok {
			articles = append(articles, article)
		}
	}
	return articles, nil
}

func (s *service) write(ctx context.Context, output, contentType string, content []byte) error {
	err := s.deps.Writer.WriteFile(ctx, sitemap.Artifact{
		Path:        output,
		Content:     content,
		ContentType: contentType,
		Checksum:    computeHash(content),
	})
	if err != nil {
		return fmt.Errorf("generator: write %s: %w", output, err)
	}
	return nil
}

func (s *service) loadManifest(logger interfaces.Logger) *buildManifest {
	data, err := os.ReadFile(s.localPath(manifestFileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("static manifest unreadable, rebuilding all pages", "error", err)
		}
		return newBuildManifest()
	}
	manifest, err := parseManifest(data)
	if err != nil {
		logger.Warn("static manifest invalid, rebuilding all pages", "error", err)
	}
	return manifest
}

func (s *service) persistManifest(ctx context.Context, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: encode manifest: %w", err)
	}
	return s.write(ctx, manifestFileName, "application/json", data)
}

func (s *service) exists(output string) bool {
	info, err := os.Stat(s.localPath(output))
	return err == nil && !info.IsDir()
}

func (s *service) localPath(rel string) string {
	return filepath.Join(s.cfg.OutputDir, filepath.FromSlash(rel))
}

func (s *service) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *service) absoluteURL(route string) string {
	if route == "/" {
		return s.cfg.BaseURL + "/"
	}
	return s.cfg.BaseURL + route
}

func articleRoute(slug string) string  { return "/article/" + slug }
func glossaryRoute(slug string) string { return "/glosario/" + slug }

// outputPath maps a route to its index.html file.
func outputPath(route string) string {
	return path.Join(strings.TrimPrefix(route, "/"), "index.html")
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sourceError(err error, what string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "generator: fetch "+what).
		WithTextCode("STATIC_SOURCE_ERROR")
}
