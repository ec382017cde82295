// Package editorial is the runtime façade for the soygarfield.com editorial
// pipeline: it wires a content source to the document renderer, page
// assembly, sitemap generation, import commands and the preview server.
package editorial

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"golang.org/x/sync/errgroup"

	"github.com/soygarfield/go-editorial/internal/commands"
	importcmd "github.com/soygarfield/go-editorial/internal/commands/importer"
	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	staticcmd "github.com/soygarfield/go-editorial/internal/commands/static"
	"github.com/soygarfield/go-editorial/internal/contentsource/memory"
	"github.com/soygarfield/go-editorial/internal/contentsource/sanity"
	"github.com/soygarfield/go-editorial/internal/contentsource/sqlstore"
	"github.com/soygarfield/go-editorial/internal/generator"
	httpapi "github.com/soygarfield/go-editorial/internal/http"
	"github.com/soygarfield/go-editorial/internal/importer"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/logging/gologger"
	"github.com/soygarfield/go-editorial/internal/metrics"
	"github.com/soygarfield/go-editorial/internal/pages"
	"github.com/soygarfield/go-editorial/internal/render"
	"github.com/soygarfield/go-editorial/internal/scheduler"
	"github.com/soygarfield/go-editorial/internal/sitemap"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// ErrMirrorUnavailable is returned by Mirror when no upstream content store
// is configured.
var ErrMirrorUnavailable = errors.New("editorial: mirror requires sanity credentials")

type (
	PageService   = pages.Service
	ArticlePage   = pages.ArticlePage
	GlossaryPage  = pages.GlossaryPage
	HomePage      = pages.HomePage
	SitemapResult = sitemap.Result
	BuildResult   = generator.BuildResult
)

// Module represents the top level editorial runtime.
type Module struct {
	cfg      Config
	logs     interfaces.LoggerProvider
	logger   interfaces.Logger
	registry *prometheus.Registry
	metrics  interfaces.MetricsRecorder
	now      func() time.Time

	source interfaces.ContentSource
	assets interfaces.AssetResolver

	storeMu sync.Mutex
	store   *sqlstore.Store
	db      *bun.DB

	renderer  *render.Renderer
	pages     pages.Service
	generator *sitemap.Generator
	static    generator.Service

	sitemapHandler  *sitemapcmd.GenerateHandler
	ndjsonHandler   *importcmd.NDJSONHandler
	markdownHandler *importcmd.MarkdownHandler
	buildHandler    *staticcmd.BuildSiteHandler

	dispatcher    CommandDispatcher
	subscriptions []CommandSubscription

	lastResult atomic.Pointer[sitemap.Result]
}

// Option customises module construction.
type Option func(*Module)

// WithLoggerProvider replaces the go-logger provider built from the config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.logs = provider
		}
	}
}

// WithContentSource bypasses the configured provider. Sources that also
// resolve assets or accept upserts are used for those roles too.
func WithContentSource(source interfaces.ContentSource) Option {
	return func(m *Module) {
		if source != nil {
			m.source = source
		}
	}
}

// WithRegistry sets the Prometheus registry metrics are recorded into.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Module) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithCommandDispatcher registers the module's command handlers with d.
func WithCommandDispatcher(d CommandDispatcher) Option {
	return func(m *Module) {
		m.dispatcher = d
	}
}

// WithClock overrides the time source used for sitemap dates.
func WithClock(now func() time.Time) Option {
	return func(m *Module) {
		if now != nil {
			m.now = now
		}
	}
}

// New validates cfg and wires every component. Call Close when done.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("editorial: invalid config: %w", err)
	}

	m := &Module{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	if m.logs == nil {
		provider, err := gologger.NewProvider(cfg.LoggerConfig())
		if err != nil {
			return nil, fmt.Errorf("editorial: logger: %w", err)
		}
		m.logs = provider
	}
	m.logger = logging.ModuleLogger(m.logs, "editorial")

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	recorder, err := metrics.NewPrometheus(m.registry)
	if err != nil {
		return nil, fmt.Errorf("editorial: metrics: %w", err)
	}
	m.metrics = recorder

	if m.source == nil {
		if m.source, err = m.openSource(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
	}
	if resolver, ok := m.source.(interfaces.AssetResolver); ok {
		m.assets = resolver
	} else {
		// Mirrored documents keep the content store's asset refs.
		m.assets = sanity.NewAssetURLBuilder(m.cfg.Source.Sanity.Client())
	}

	m.wire()

	if err := m.registerCommands(); err != nil {
		_ = m.Close()
		return nil, err
	}

	m.logger.Info("editorial module ready",
		"source", cfg.Source.Provider,
		"base_url", cfg.Site.BaseURL,
		"sitemap_path", cfg.Sitemap.OutputPath,
	)
	return m, nil
}

func (m *Module) wire() {
	renderOpts := []render.Option{
		render.WithLogger(logging.RenderLogger(m.logs)),
		render.WithMetrics(m.metrics),
	}
	if m.assets != nil {
		renderOpts = append(renderOpts, render.WithAssetResolver(m.assets))
	}
	m.renderer = render.New(nil, renderOpts...)

	m.pages = pages.NewService(m.source, m.renderer,
		pages.WithLogger(logging.PagesLogger(m.logs)),
		pages.WithSite(m.cfg.Site.SiteMetadata()),
	)

	sitemapLogger := logging.SitemapLogger(m.logs)
	m.generator = sitemap.NewGenerator(m.source, sitemap.NewFileWriter(""), sitemap.Config{
		BaseURL:      m.cfg.Site.BaseURL,
		OutputPath:   m.cfg.Sitemap.OutputPath,
		FallbackDate: m.cfg.Sitemap.FallbackTime(),
		Categories:   m.cfg.Sitemap.Categories,
	},
		sitemap.WithLogger(sitemapLogger),
		sitemap.WithMetrics(m.metrics),
		sitemap.WithClock(m.now),
	)
	m.sitemapHandler = sitemapcmd.NewGenerateHandler(m.generator, sitemapLogger, m.recordResult,
		commands.WithMetrics[sitemapcmd.GenerateCommand](m.metrics))

	importLogger := logging.ImportLogger(m.logs)
	sink := importer.SinkFunc(m.upsert)
	// importer.New only fails on a nil sink.
	imp, _ := importer.New(sink, importLogger)
	m.ndjsonHandler = importcmd.NewNDJSONHandler(imp, importLogger,
		commands.WithMetrics[importcmd.ImportNDJSONCommand](m.metrics))
	m.markdownHandler = importcmd.NewMarkdownHandler(sink, importLogger,
		commands.WithMetrics[importcmd.ImportMarkdownCommand](m.metrics))

	staticLogger := logging.StaticLogger(m.logs)
	siteName := m.cfg.Site.Name
	templates := func(w io.Writer, page any) error {
		return httpapi.WritePage(w, siteName, page)
	}
	m.static = generator.NewService(generator.Config{
		OutputDir:      m.cfg.Static.OutputDir,
		BaseURL:        m.cfg.Site.BaseURL,
		SiteName:       siteName,
		Description:    m.cfg.Site.Description,
		Language:       m.cfg.Site.Language,
		FeedItems:      m.cfg.Static.FeedItems,
		Workers:        m.cfg.Static.Workers,
		GenerateFeed:   m.cfg.Static.Feed,
		GenerateRobots: m.cfg.Static.Robots,
	}, generator.Dependencies{
		Source:    m.source,
		Pages:     m.pages,
		Templates: templates,
		Logger:    staticLogger,
	})
	m.buildHandler = staticcmd.NewBuildSiteHandler(m.static, staticLogger,
		commands.WithMetrics[staticcmd.BuildSiteCommand](m.metrics))
}

func (m *Module) registerCommands() error {
	if m.dispatcher == nil {
		return nil
	}
	for _, handler := range []any{m.sitemapHandler, m.ndjsonHandler, m.markdownHandler, m.buildHandler} {
		sub, err := m.dispatcher.RegisterCommand(handler)
		if err != nil {
			return fmt.Errorf("editorial: register command: %w", err)
		}
		m.subscriptions = append(m.subscriptions, sub)
	}
	return nil
}

func (m *Module) openSource(ctx context.Context) (interfaces.ContentSource, error) {
	switch m.cfg.Source.Provider {
	case SourceSanity:
		return m.sanitySource()
	case SourceSQLite:
		return m.openStore(ctx)
	case SourceMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("editorial: unknown source provider %q", m.cfg.Source.Provider)
	}
}

func (m *Module) sanitySource() (*sanity.Source, error) {
	source, err := sanity.NewSource(m.cfg.Source.Sanity.Client(), nil,
		sanity.WithLogger(logging.SourceLogger(m.logs)),
	)
	if err != nil {
		return nil, fmt.Errorf("editorial: sanity source: %w", err)
	}
	return source, nil
}

// openStore opens and migrates the SQLite mirror once.
func (m *Module) openStore(ctx context.Context) (*sqlstore.Store, error) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if m.store != nil {
		return m.store, nil
	}

	sqlDB, err := sql.Open("sqlite3", m.cfg.Source.SQLite.DSN)
	if err != nil {
		return nil, fmt.Errorf("editorial: open sqlite: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	storeOpts := []sqlstore.Option{sqlstore.WithLogger(logging.SourceLogger(m.logs))}
	if ttl := m.cfg.Source.SQLite.CacheTTL; ttl > 0 {
		cacheCfg := repocache.DefaultConfig()
		cacheCfg.TTL = ttl
		service, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("editorial: entry cache: %w", err)
		}
		storeOpts = append(storeOpts, sqlstore.WithCache(service, repocache.NewDefaultKeySerializer()))
	}

	store := sqlstore.New(db, storeOpts...)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	m.store, m.db = store, db
	return store, nil
}

// upsert is the import sink: the in-memory source when that is the active
// provider, the SQLite mirror otherwise.
func (m *Module) upsert(ctx context.Context, entity interfaces.Entity) error {
	if mem, ok := m.source.(*memory.Source); ok {
		mem.Put(entity)
		return nil
	}
	if sink, ok := m.source.(importer.Sink); ok {
		return sink.Upsert(ctx, entity)
	}
	store, err := m.openStore(ctx)
	if err != nil {
		return err
	}
	return store.Upsert(ctx, entity)
}

func (m *Module) recordResult(result *sitemap.Result) {
	m.lastResult.Store(result)
}

// Config returns the validated configuration.
func (m *Module) Config() Config { return m.cfg }

// Logger returns the module root logger.
func (m *Module) Logger() interfaces.Logger { return m.logger }

// Registry exposes the Prometheus registry backing /metrics.
func (m *Module) Registry() *prometheus.Registry { return m.registry }

// Source returns the active content source.
func (m *Module) Source() interfaces.ContentSource { return m.source }

// Renderer returns the shared document renderer.
func (m *Module) Renderer() *render.Renderer { return m.renderer }

// Pages returns the page assembly service.
func (m *Module) Pages() PageService { return m.pages }

// SitemapHandler returns the GenerateCommand handler.
func (m *Module) SitemapHandler() *sitemapcmd.GenerateHandler { return m.sitemapHandler }

// LastSitemapResult returns the most recent generation result, if any.
func (m *Module) LastSitemapResult() *SitemapResult { return m.lastResult.Load() }

// GenerateSitemap runs one generation through the command handler and
// returns its result. The result is returned for failed runs as well.
func (m *Module) GenerateSitemap(ctx context.Context, trigger string) (*SitemapResult, error) {
	var (
		mu     sync.Mutex
		result *sitemap.Result
	)
	handler := sitemapcmd.NewGenerateHandler(m.generator, logging.SitemapLogger(m.logs), func(r *sitemap.Result) {
		mu.Lock()
		result = r
		mu.Unlock()
		m.recordResult(r)
	}, commands.WithMetrics[sitemapcmd.GenerateCommand](m.metrics))
	err := handler.Execute(ctx, sitemapcmd.GenerateCommand{
		Trigger:   trigger,
		RequestID: uuid.NewString(),
	})
	mu.Lock()
	defer mu.Unlock()
	return result, err
}

// ImportNDJSON imports a content store export.
func (m *Module) ImportNDJSON(ctx context.Context, cmd importcmd.ImportNDJSONCommand) error {
	return m.ndjsonHandler.Execute(ctx, cmd)
}

// ImportMarkdown imports a directory of front-matter markdown files.
func (m *Module) ImportMarkdown(ctx context.Context, cmd importcmd.ImportMarkdownCommand) error {
	return m.markdownHandler.Execute(ctx, cmd)
}

// BuildStatic prerenders the public pages into the configured output
// directory. The result is returned for failed runs as well.
func (m *Module) BuildStatic(ctx context.Context, cmd staticcmd.BuildSiteCommand) (*BuildResult, error) {
	var result *generator.BuildResult
	callback := cmd.ResultCallback
	cmd.ResultCallback = func(r *generator.BuildResult) {
		result = r
		if callback != nil {
			callback(r)
		}
	}
	err := m.buildHandler.Execute(ctx, cmd)
	return result, err
}

// Mirror copies every publishable entity from the hosted content store
// into the SQLite mirror and returns how many were written.
func (m *Module) Mirror(ctx context.Context) (int, error) {
	upstream, ok := m.source.(*sanity.Source)
	if !ok {
		if m.cfg.Source.Sanity.Client().Validate() != nil {
			return 0, ErrMirrorUnavailable
		}
		var err error
		if upstream, err = m.sanitySource(); err != nil {
			return 0, err
		}
	}
	store, err := m.openStore(ctx)
	if err != nil {
		return 0, err
	}
	return store.Mirror(ctx, upstream)
}

// Handler returns the preview HTTP router.
func (m *Module) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.Config{
		Pages:       m.pages,
		SiteName:    m.cfg.Site.Name,
		SitemapPath: m.cfg.Sitemap.OutputPath,
		Regenerate:  m.sitemapHandler,
		HookToken:   m.cfg.HTTP.HookToken,
		Gatherer:    m.registry,
		Logger:      logging.HTTPLogger(m.logs),
	})
}

// Serve runs the preview server and, when an interval is configured, the
// sitemap scheduler until ctx is cancelled.
func (m *Module) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              m.cfg.HTTP.Address,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *scheduler.Scheduler
	if interval := m.cfg.Sitemap.Interval; interval > 0 {
		var err error
		if sched, err = scheduler.New(logging.SchedulerLogger(m.logs)); err != nil {
			return err
		}
		if _, err := sched.ScheduleSitemap(interval, m.cfg.Sitemap.Immediate, m.sitemapHandler); err != nil {
			_ = sched.Shutdown()
			return err
		}
		sched.Start()
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m.logger.Info("http server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("editorial: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		m.logger.Info("shutting down")

		timeout := m.cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			m.logger.Error("http server shutdown error", "error", err)
		}
		if sched != nil {
			if err := sched.Shutdown(); err != nil {
				m.logger.Error("scheduler shutdown error", "error", err)
			}
		}
		return nil
	})

	return g.Wait()
}

// Close releases command subscriptions and the SQLite mirror.
func (m *Module) Close() error {
	for _, sub := range m.subscriptions {
		sub.Unsubscribe()
	}
	m.subscriptions = nil

	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db, m.store = nil, nil
	return err
}
