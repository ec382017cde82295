// Package runtimeconfig loads and validates the editorial runtime
// configuration from YAML with environment variable expansion.
package runtimeconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/soygarfield/go-editorial/internal/contentsource/sanity"
	"github.com/soygarfield/go-editorial/internal/logging/gologger"
	"github.com/soygarfield/go-editorial/internal/metadata"
	"github.com/soygarfield/go-editorial/internal/sitemap"
)

// Source providers.
const (
	SourceSanity = "sanity"
	SourceSQLite = "sqlite"
	SourceMemory = "memory"
)

// Config aggregates every runtime section.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Sitemap SitemapConfig `yaml:"sitemap"`
	Source  SourceConfig  `yaml:"source"`
	Static  StaticConfig  `yaml:"static"`
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// SiteConfig describes the public site.
type SiteConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	LogoPath    string   `yaml:"logo_path"`
	SameAs      []string `yaml:"same_as"`
}

// SitemapConfig controls generation and scheduling. A zero Interval
// disables scheduled regeneration.
type SitemapConfig struct {
	OutputPath   string        `yaml:"output_path"`
	FallbackDate string        `yaml:"fallback_date"`
	Categories   []string      `yaml:"categories"`
	Interval     time.Duration `yaml:"interval"`
	Immediate    bool          `yaml:"immediate"`
}

// SourceConfig selects and configures the content source.
type SourceConfig struct {
	Provider string       `yaml:"provider"`
	Sanity   SanityConfig `yaml:"sanity"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// SanityConfig holds hosted content store credentials.
type SanityConfig struct {
	ProjectID  string `yaml:"project_id"`
	Dataset    string `yaml:"dataset"`
	APIVersion string `yaml:"api_version"`
	Token      string `yaml:"token"`
	UseCDN     bool   `yaml:"use_cdn"`
}

// SQLiteConfig points at the local mirror. A positive CacheTTL puts a
// read-through cache in front of the entries repository.
type SQLiteConfig struct {
	DSN      string        `yaml:"dsn"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// StaticConfig controls the prerendered site build. Zero Workers uses
// GOMAXPROCS.
type StaticConfig struct {
	OutputDir string `yaml:"output_dir"`
	FeedItems int    `yaml:"feed_items"`
	Workers   int    `yaml:"workers"`
	Feed      bool   `yaml:"feed"`
	Robots    bool   `yaml:"robots"`
}

// LoggingConfig mirrors gologger.Config.
type LoggingConfig struct {
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// HTTPConfig configures the preview server.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	HookToken       string        `yaml:"hook_token"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the soygarfield.com defaults.
func DefaultConfig() Config {
	site := metadata.DefaultSite()
	return Config{
		Site: SiteConfig{
			BaseURL:     site.BaseURL,
			Name:        site.Name,
			Description: site.Description,
			Language:    site.Language,
			LogoPath:    site.LogoPath,
			SameAs:      append([]string(nil), site.SameAs...),
		},
		Sitemap: SitemapConfig{
			OutputPath:   sitemap.DefaultOutputPath,
			FallbackDate: sitemap.DefaultFallbackDate.Format(time.DateOnly),
			Categories:   append([]string(nil), sitemap.DefaultCategories...),
			Immediate:    true,
		},
		Source: SourceConfig{
			Provider: SourceSanity,
			Sanity: SanityConfig{
				ProjectID:  "f3fmo00w",
				Dataset:    "production",
				APIVersion: "2024-02-10",
				UseCDN:     true,
			},
			SQLite: SQLiteConfig{DSN: "file:editorial.db?cache=shared"},
		},
		Static: StaticConfig{
			OutputDir: "dist",
			FeedItems: 20,
			Feed:      true,
			Robots:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads path, expands ${VAR} references, overlays the result on
// DefaultConfig and validates it.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

var categoryPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks every section.
func (cfg Config) Validate() error {
	return validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Site),
		validation.Field(&cfg.Sitemap),
		validation.Field(&cfg.Source),
		validation.Field(&cfg.Static),
		validation.Field(&cfg.Logging),
		validation.Field(&cfg.HTTP),
	)
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.SameAs, validation.Each(is.URL)),
	)
}

func (c SitemapConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.OutputPath, validation.Required, validation.By(func(value any) error {
			if !strings.HasSuffix(value.(string), ".xml") {
				return validation.NewError("editorial.sitemap.output_path", "must end in .xml")
			}
			return nil
		})),
		validation.Field(&c.FallbackDate, validation.Required, validation.Date(time.DateOnly)),
		validation.Field(&c.Categories, validation.Each(validation.Match(categoryPattern))),
		validation.Field(&c.Interval, validation.Min(time.Duration(0))),
	)
}

// FallbackTime parses FallbackDate. Validate guarantees it parses.
func (c SitemapConfig) FallbackTime() time.Time {
	t, err := time.Parse(time.DateOnly, c.FallbackDate)
	if err != nil {
		return sitemap.DefaultFallbackDate
	}
	return t
}

func (c SourceConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.Required, validation.In(SourceSanity, SourceSQLite, SourceMemory)),
		validation.Field(&c.Sanity, validation.When(c.Provider == SourceSanity, validation.By(func(any) error {
			return c.Sanity.validate()
		}))),
		validation.Field(&c.SQLite, validation.When(c.Provider == SourceSQLite, validation.By(func(any) error {
			return validation.ValidateStruct(&c.SQLite,
				validation.Field(&c.SQLite.DSN, validation.Required),
				validation.Field(&c.SQLite.CacheTTL, validation.Min(time.Duration(0))),
			)
		}))),
	)
}

func (c SanityConfig) validate() error {
	return c.Client().Validate()
}

// Client converts the section into the content store client config.
func (c SanityConfig) Client() sanity.Config {
	return sanity.Config{
		ProjectID:  c.ProjectID,
		Dataset:    c.Dataset,
		APIVersion: c.APIVersion,
		Token:      c.Token,
		UseCDN:     c.UseCDN,
	}
}

func (c StaticConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.FeedItems, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Format, validation.In("json", "console", "pretty")),
	)
}

// Provider converts the section into the go-logger provider config.
func (c LoggingConfig) Provider() gologger.Config {
	return gologger.Config{Level: c.Level, Format: c.Format, AddSource: c.AddSource, Focus: c.Focus}
}

// LoggerConfig is the go-logger provider config with the site attached to
// every entry.
func (cfg Config) LoggerConfig() gologger.Config {
	out := cfg.Logging.Provider()
	out.Fields = map[string]any{"site": strings.TrimRight(cfg.Site.BaseURL, "/")}
	return out
}

func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.HookToken, validation.Length(16, 0)),
	)
}

// SiteMetadata converts the section into the metadata site descriptor.
func (c SiteConfig) SiteMetadata() metadata.Site {
	site := metadata.DefaultSite()
	site.BaseURL = strings.TrimRight(c.BaseURL, "/")
	site.Name = c.Name
	if c.Description != "" {
		site.Description = c.Description
	}
	if c.Language != "" {
		site.Language = c.Language
	}
	if c.LogoPath != "" {
		site.LogoPath = c.LogoPath
	}
	if len(c.SameAs) > 0 {
		site.SameAs = append([]string(nil), c.SameAs...)
	}
	return site
}
