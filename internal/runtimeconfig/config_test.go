package runtimeconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soygarfield/go-editorial/internal/runtimeconfig"
)

func TestDefaultConfigCarriesSiteDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	assert.Equal(t, "https://soygarfield.com", cfg.Site.BaseURL)
	assert.Equal(t, "public/sitemap.xml", cfg.Sitemap.OutputPath)
	assert.Equal(t, "2026-02-11", cfg.Sitemap.FallbackDate)
	assert.Equal(t, []string{"seo", "ia"}, cfg.Sitemap.Categories)
	assert.Equal(t, runtimeconfig.SourceSanity, cfg.Source.Provider)
	assert.Equal(t, "f3fmo00w", cfg.Source.Sanity.ProjectID)
	assert.Equal(t, "dist", cfg.Static.OutputDir)
	assert.True(t, cfg.Static.Feed)
	assert.Equal(t, time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC), cfg.Sitemap.FallbackTime())
}

func TestSanityProviderRequiresProject(t *testing.T) {
	require.NoError(t, runtimeconfig.DefaultConfig().Validate())

	cfg := runtimeconfig.DefaultConfig()
	cfg.Source.Sanity.ProjectID = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProjectID")
}

func TestValidateRejectsBadSections(t *testing.T) {
	cases := map[string]func(*runtimeconfig.Config){
		"base url":    func(c *runtimeconfig.Config) { c.Site.BaseURL = "not a url" },
		"output path": func(c *runtimeconfig.Config) { c.Sitemap.OutputPath = "public/sitemap.txt" },
		"fallback":    func(c *runtimeconfig.Config) { c.Sitemap.FallbackDate = "11/02/2026" },
		"category":    func(c *runtimeconfig.Config) { c.Sitemap.Categories = []string{"Bad Category"} },
		"interval":    func(c *runtimeconfig.Config) { c.Sitemap.Interval = -time.Minute },
		"provider":    func(c *runtimeconfig.Config) { c.Source.Provider = "postgres" },
		"sqlite dsn":  func(c *runtimeconfig.Config) { c.Source.Provider = runtimeconfig.SourceSQLite; c.Source.SQLite.DSN = "" },
		"static dir":  func(c *runtimeconfig.Config) { c.Static.OutputDir = "" },
		"feed items":  func(c *runtimeconfig.Config) { c.Static.FeedItems = 500 },
		"workers":     func(c *runtimeconfig.Config) { c.Static.Workers = -1 },
		"level":       func(c *runtimeconfig.Config) { c.Logging.Level = "verbose" },
		"format":      func(c *runtimeconfig.Config) { c.Logging.Format = "xml" },
		"address":     func(c *runtimeconfig.Config) { c.HTTP.Address = "" },
		"short token": func(c *runtimeconfig.Config) { c.HTTP.HookToken = "short" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMemoryProviderSkipsSanityCredentials(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Source.Provider = runtimeconfig.SourceMemory
	cfg.Source.Sanity.ProjectID = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("EDITORIAL_TEST_PROJECT", "proj42")
	t.Setenv("EDITORIAL_TEST_TOKEN", "0123456789abcdef0123")

	path := filepath.Join(t.TempDir(), "editorial.yaml")
	body := strings.Join([]string{
		"site:",
		"  base_url: https://example.com/",
		"  name: Example",
		"sitemap:",
		"  output_path: out/sitemap.xml",
		"  interval: 15m",
		"source:",
		"  sanity:",
		"    project_id: ${EDITORIAL_TEST_PROJECT}",
		"logging:",
		"  level: debug",
		"  format: console",
		"http:",
		"  hook_token: ${EDITORIAL_TEST_TOKEN}",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := runtimeconfig.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "proj42", cfg.Source.Sanity.ProjectID)
	assert.Equal(t, "production", cfg.Source.Sanity.Dataset)
	assert.Equal(t, 15*time.Minute, cfg.Sitemap.Interval)
	assert.Equal(t, "out/sitemap.xml", cfg.Sitemap.OutputPath)
	assert.Equal(t, "0123456789abcdef0123", cfg.HTTP.HookToken)
	assert.Equal(t, "debug", cfg.Logging.Provider().Level)
	assert.Equal(t, "https://example.com", cfg.LoggerConfig().Fields["site"])

	site := cfg.Site.SiteMetadata()
	assert.Equal(t, "https://example.com", site.BaseURL)
	assert.Equal(t, "es", site.Language)
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadReportsValidationErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  provider: memory\nlogging:\n  level: loud\n"), 0o600))

	_, err := runtimeconfig.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
