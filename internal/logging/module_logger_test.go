package logging

import (
	"context"
	"testing"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, sitemapModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	SitemapLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != sitemapModule {
		t.Fatalf("expected module %s, got %v", sitemapModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != sitemapModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected %s, got %v", rootModule, provider.requested)
	}
}

func TestWithEntitySkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}
	WithEntity(rec, interfaces.CollectionArticle, " ")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0][fieldSlug]; ok {
		t.Fatalf("blank slug should be skipped: %v", rec.fields[0])
	}
	if rec.fields[0][fieldCollection] != "article" {
		t.Fatalf("expected collection field, got %v", rec.fields[0])
	}
}

func TestFromContextMergesContextFields(t *testing.T) {
	rec := &recordingLogger{}
	ctx := ContextWithFields(context.Background(), map[string]any{"run_id": "r1"})
	ctx = ContextWithFields(ctx, map[string]any{"job": "sitemap"})

	FromContext(ctx, rec)

	if len(rec.contexts) != 1 {
		t.Fatalf("expected logger bound to context")
	}
	if len(rec.fields) != 1 || rec.fields[0]["run_id"] != "r1" || rec.fields[0]["job"] != "sitemap" {
		t.Fatalf("expected merged context fields, got %v", rec.fields)
	}

	fields := ContextFields(ctx)
	fields["run_id"] = "mutated"
	if ContextFields(ctx)["run_id"] != "r1" {
		t.Fatal("ContextFields must return a copy")
	}
}
