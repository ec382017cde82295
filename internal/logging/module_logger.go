package logging

import (
	"context"
	"strings"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	rootModule      = "editorial"
	renderModule    = "editorial.render"
	sitemapModule   = "editorial.sitemap"
	pagesModule     = "editorial.pages"
	sourceModule    = "editorial.source"
	importModule    = "editorial.import"
	schedulerModule = "editorial.scheduler"
	httpModule      = "editorial.http"
	staticModule    = "editorial.static"
)

const (
	fieldCollection = "collection"
	fieldSlug       = "slug"
)

// ModuleLogger returns the provider's logger for module tagged with a
// "module" field. Without a provider it returns a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// RenderLogger returns the logger for the document renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// SitemapLogger returns the logger for sitemap generation runs.
func SitemapLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sitemapModule)
}

// PagesLogger returns the logger for page assembly.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// SourceLogger returns the logger for content source adapters.
func SourceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sourceModule)
}

// ImportLogger returns the logger for content imports.
func ImportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importModule)
}

// SchedulerLogger returns the logger for scheduled jobs.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// HTTPLogger returns the logger for the preview HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// StaticLogger returns the logger for static site builds.
func StaticLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, staticModule)
}

// WithEntity tags logger with the collection and slug being processed.
// Blank values are skipped.
func WithEntity(logger interfaces.Logger, collection interfaces.Collection, slug string) interfaces.Logger {
	fields := map[string]any{}
	if c := strings.TrimSpace(string(collection)); c != "" {
		fields[fieldCollection] = c
	}
	if s := strings.TrimSpace(slug); s != "" {
		fields[fieldSlug] = s
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
