package sitemapcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/soygarfield/go-editorial/internal/commands"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/sitemap"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const generateOperation = "sitemap.generate"

var ErrGeneratorRequired = errors.New("sitemap command: generator is required")

// Generator runs one sitemap generation.
type Generator interface {
	Generate(ctx context.Context) (*sitemap.Result, error)
}

var _ command.Commander[GenerateCommand] = (*GenerateHandler)(nil)

// GenerateHandler executes GenerateCommand through the shared handler.
type GenerateHandler struct {
	inner *commands.Handler[GenerateCommand]
}

// NewGenerateHandler binds a handler to generator. onResult, when set,
// receives every run result, including failed ones.
func NewGenerateHandler(generator Generator, logger interfaces.Logger, onResult func(*sitemap.Result), opts ...commands.HandlerOption[GenerateCommand]) *GenerateHandler {
	if generator == nil {
		panic(ErrGeneratorRequired)
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg GenerateCommand) error {
		result, err := generator.Generate(ctx)
		if onResult != nil && result != nil {
			onResult(result)
		}
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id": result.RunID,
			"urls":   result.URLs,
			"path":   result.Path,
		}).Info("sitemap.command.generate.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[GenerateCommand]{
		commands.WithLogger[GenerateCommand](baseLogger),
		commands.WithOperation[GenerateCommand](generateOperation),
		commands.WithMessageFields(func(msg GenerateCommand) map[string]any {
			fields := map[string]any{"trigger": msg.Trigger}
			if msg.RequestID != "" {
				fields["request_id"] = msg.RequestID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateCommand].
func (h *GenerateHandler) Execute(ctx context.Context, msg GenerateCommand) error {
	return h.inner.Execute(ctx, msg)
}
