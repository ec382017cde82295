package importcmd

import (
	"context"
	"fmt"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/soygarfield/go-editorial/internal/commands"
	"github.com/soygarfield/go-editorial/internal/importer"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/markdown"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	ndjsonOperation   = "import.ndjson"
	markdownOperation = "import.markdown"
)

var (
	_ command.Commander[ImportNDJSONCommand]   = (*NDJSONHandler)(nil)
	_ command.Commander[ImportMarkdownCommand] = (*MarkdownHandler)(nil)
)

// NDJSONHandler imports export files through the record importer.
type NDJSONHandler struct {
	inner *commands.Handler[ImportNDJSONCommand]
}

// NewNDJSONHandler binds a handler to imp.
func NewNDJSONHandler(imp *importer.Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportNDJSONCommand]) *NDJSONHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportNDJSONCommand) error {
		file, err := os.Open(msg.Path)
		if err != nil {
			return fmt.Errorf("import: open %s: %w", msg.Path, err)
		}
		defer file.Close()

		result, err := imp.Import(ctx, file, importer.Options{Strict: msg.Strict, DryRun: msg.DryRun})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"imported": result.Imported,
			"failed":   len(result.Failed),
		}).Info("import.command.ndjson.completed")
		if len(result.Failed) > 0 {
			return fmt.Errorf("import: %d records failed, first: %w", len(result.Failed), result.Failed[0])
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportNDJSONCommand]{
		commands.WithLogger[ImportNDJSONCommand](baseLogger),
		commands.WithOperation[ImportNDJSONCommand](ndjsonOperation),
		commands.WithMessageFields(func(msg ImportNDJSONCommand) map[string]any {
			return map[string]any{"path": msg.Path, "strict": msg.Strict, "dry_run": msg.DryRun}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportNDJSONCommand](baseLogger)),
	}
	return &NDJSONHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ImportNDJSONCommand].
func (h *NDJSONHandler) Execute(ctx context.Context, msg ImportNDJSONCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MarkdownHandler loads Markdown directories into a sink.
type MarkdownHandler struct {
	inner *commands.Handler[ImportMarkdownCommand]
}

// NewMarkdownHandler binds a handler to sink.
func NewMarkdownHandler(sink importer.Sink, logger interfaces.Logger, opts ...commands.HandlerOption[ImportMarkdownCommand]) *MarkdownHandler {
	if sink == nil {
		panic(importer.ErrSinkRequired)
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportMarkdownCommand) error {
		loader := markdown.NewLoader(os.DirFS(msg.Directory), markdown.LoaderConfig{
			DefaultCollection: interfaces.Collection(msg.Collection),
			IncludeDrafts:     msg.IncludeDrafts,
			Logger:            baseLogger,
		})
		results, err := loader.LoadDirectory(ctx, ".")
		if err != nil {
			return err
		}
		if !msg.DryRun {
			for _, result := range results {
				if err := sink.Upsert(ctx, result.Entity); err != nil {
					return fmt.Errorf("import: %s: %w", result.Path, err)
				}
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"loaded":  len(results),
			"dry_run": msg.DryRun,
		}).Info("import.command.markdown.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportMarkdownCommand]{
		commands.WithLogger[ImportMarkdownCommand](baseLogger),
		commands.WithOperation[ImportMarkdownCommand](markdownOperation),
		commands.WithMessageFields(func(msg ImportMarkdownCommand) map[string]any {
			return map[string]any{"directory": msg.Directory, "collection": msg.Collection}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportMarkdownCommand](baseLogger)),
	}
	return &MarkdownHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ImportMarkdownCommand].
func (h *MarkdownHandler) Execute(ctx context.Context, msg ImportMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}
