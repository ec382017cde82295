package editorial_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	editorial "github.com/soygarfield/go-editorial"
	importcmd "github.com/soygarfield/go-editorial/internal/commands/importer"
	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	staticcmd "github.com/soygarfield/go-editorial/internal/commands/static"
	"github.com/soygarfield/go-editorial/internal/contentsource/memory"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/sitemap"
	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
	"github.com/soygarfield/go-editorial/pkg/testsupport"
)

type quietProvider struct{}

func (quietProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

type recordingDispatcher struct {
	handlers []any
	subs     []*recordingSubscription
}

type recordingSubscription struct {
	released bool
}

func (s *recordingSubscription) Unsubscribe() { s.released = true }

func (d *recordingDispatcher) RegisterCommand(handler any) (editorial.CommandSubscription, error) {
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{}
	d.subs = append(d.subs, sub)
	return sub, nil
}

func memoryConfig(t *testing.T) editorial.Config {
	t.Helper()
	cfg := editorial.DefaultConfig()
	cfg.Source.Provider = editorial.SourceMemory
	cfg.Sitemap.OutputPath = filepath.Join(t.TempDir(), "public", "sitemap.xml")
	return cfg
}

func catalogue() *memory.Source {
	source := memory.New(testsupport.SampleGlossaryTerm(), testsupport.SampleAuthor())
	for _, article := range testsupport.SampleArticles() {
		source.Put(article)
	}
	return source
}

func newModule(t *testing.T, cfg editorial.Config, opts ...editorial.Option) *editorial.Module {
	t.Helper()
	opts = append([]editorial.Option{editorial.WithLoggerProvider(quietProvider{})}, opts...)
	module, err := editorial.New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = module.Close()
	})
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := editorial.DefaultConfig()
	cfg.Source.Provider = "ftp"

	_, err := editorial.New(context.Background(), cfg, editorial.WithLoggerProvider(quietProvider{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestModuleGeneratesSitemap(t *testing.T) {
	cfg := memoryConfig(t)
	now := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	module := newModule(t, cfg,
		editorial.WithContentSource(catalogue()),
		editorial.WithClock(func() time.Time { return now }),
	)

	result, err := module.GenerateSitemap(context.Background(), sitemapcmd.TriggerCLI)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, sitemap.StateDone, result.State)
	assert.Same(t, result, module.LastSitemapResult())

	data, err := os.ReadFile(cfg.Sitemap.OutputPath)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "https://soygarfield.com/article/mi-articulo")
	assert.Contains(t, body, "https://soygarfield.com/glosario/crawl-budget")
	assert.Contains(t, body, "<lastmod>2026-03-01</lastmod>")
	assert.Equal(t, result.URLs, strings.Count(body, "<url>"))
}

func TestModuleGenerateSitemapReportsSourceFailure(t *testing.T) {
	cfg := memoryConfig(t)
	source := catalogue()
	source.FailSnapshots(errors.New("content store offline"))
	module := newModule(t, cfg, editorial.WithContentSource(source))

	result, err := module.GenerateSitemap(context.Background(), sitemapcmd.TriggerCLI)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, sitemap.StateFailed, result.State)

	_, statErr := os.Stat(cfg.Sitemap.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestModulePagesAndHandler(t *testing.T) {
	module := newModule(t, memoryConfig(t), editorial.WithContentSource(catalogue()))

	page, err := module.Pages().Article(context.Background(), "mi-articulo")
	require.NoError(t, err)
	assert.Equal(t, "mi-articulo", page.Article.Slug)

	handler := module.Handler()
	for path, status := range map[string]int{
		"/healthz":                 http.StatusOK,
		"/metrics":                 http.StatusOK,
		"/article/mi-articulo":     http.StatusOK,
		"/glosario/crawl-budget":   http.StatusOK,
		"/glosario/does-not-exist": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, rec.Code, path)
	}
}

func TestModuleBuildsStaticSite(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Static.OutputDir = filepath.Join(t.TempDir(), "dist")
	module := newModule(t, cfg, editorial.WithContentSource(catalogue()))

	result, err := module.BuildStatic(context.Background(), staticcmd.BuildSiteCommand{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 7, result.PagesBuilt)

	data, err := os.ReadFile(filepath.Join(cfg.Static.OutputDir, "article", "mi-articulo", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Guía de SEO técnico")

	robots, err := os.ReadFile(filepath.Join(cfg.Static.OutputDir, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://soygarfield.com/sitemap.xml")

	again, err := module.BuildStatic(context.Background(), staticcmd.BuildSiteCommand{})
	require.NoError(t, err)
	assert.Equal(t, 7, again.PagesSkipped)
}

func TestModuleImportsIntoMemorySource(t *testing.T) {
	module := newModule(t, memoryConfig(t))

	path := filepath.Join(t.TempDir(), "glossary_terms.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"_type":"glossaryTerm","_id":"glossary-serp","title":"SERP","slug":{"_type":"slug","current":"serp"},"excerpt":"Página de resultados."}`+"\n"), 0o644))

	require.NoError(t, module.ImportNDJSON(context.Background(), importcmd.ImportNDJSONCommand{Path: path}))

	page, err := module.Pages().Glossary(context.Background(), "serp")
	require.NoError(t, err)
	assert.Equal(t, "SERP", page.Term.Title)
}

func TestModuleImportsMarkdownIntoSQLite(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Source.Provider = editorial.SourceSQLite
	cfg.Source.SQLite.DSN = testsupport.MemoryDSN()
	cfg.Source.SQLite.CacheTTL = time.Minute
	module := newModule(t, cfg)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "indexacion.md"), []byte(
		"---\ntitle: Indexación\nslug: indexacion\ncategory: SEO\n---\n\nProceso por el que un buscador **almacena** una página.\n"), 0o644))

	require.NoError(t, module.ImportMarkdown(context.Background(), importcmd.ImportMarkdownCommand{Directory: dir}))

	entity, err := module.Source().FetchBySlug(context.Background(), interfaces.CollectionGlossary, "indexacion")
	require.NoError(t, err)
	term, ok := entity.(*interfaces.GlossaryTerm)
	require.True(t, ok)
	assert.Equal(t, "Indexación", term.Title)
}

func TestModuleResolvesMirroredImagesUnderSQLite(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Source.Provider = editorial.SourceSQLite
	cfg.Source.SQLite.DSN = testsupport.MemoryDSN()
	module := newModule(t, cfg)

	doc, err := document.Decode([]byte(`[{"_type":"image","asset":{"_ref":"image-abc123-1200x630-png"},"alt":"Diagrama"}]`))
	require.NoError(t, err)

	out := string(module.Renderer().RenderHTML(doc))
	assert.Contains(t, out, `src="https://cdn.sanity.io/images/f3fmo00w/production/abc123-1200x630.png"`)
	assert.Contains(t, out, `alt="Diagrama"`)
}

func TestModuleRegistersCommandHandlers(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	module, err := editorial.New(context.Background(), memoryConfig(t),
		editorial.WithLoggerProvider(quietProvider{}),
		editorial.WithCommandDispatcher(dispatcher),
	)
	require.NoError(t, err)
	require.Len(t, dispatcher.handlers, 4)
	assert.Same(t, module.SitemapHandler(), dispatcher.handlers[0])

	require.NoError(t, module.Close())
	for _, sub := range dispatcher.subs {
		assert.True(t, sub.released)
	}
}

func TestMirrorRequiresSanityCredentials(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Source.Sanity.ProjectID = ""
	module := newModule(t, cfg)

	_, err := module.Mirror(context.Background())
	assert.ErrorIs(t, err, editorial.ErrMirrorUnavailable)
}
