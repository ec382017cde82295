package staticcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/soygarfield/go-editorial/internal/commands"
	"github.com/soygarfield/go-editorial/internal/generator"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const (
	buildOperation = "static.build"
	diffOperation  = "static.diff"
)

var ErrServiceRequired = errors.New("static command: generator service is required")

var (
	_ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)
	_ command.Commander[DiffSiteCommand]  = (*DiffSiteHandler)(nil)
)

// BuildSiteHandler executes BuildSiteCommand.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler binds a handler to the generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	if service == nil {
		panic(ErrServiceRequired)
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{Force: msg.Force, DryRun: msg.DryRun})
		if msg.ResultCallback != nil && result != nil {
			msg.ResultCallback(result)
		}
		if err != nil {
			return err
		}
		logResult(baseLogger, result).Info("static.command.build.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			return map[string]any{"force": msg.Force, "dry_run": msg.DryRun}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DiffSiteHandler executes DiffSiteCommand as a dry-run build.
type DiffSiteHandler struct {
	inner *commands.Handler[DiffSiteCommand]
}

// NewDiffSiteHandler binds a diff handler to the generator service.
func NewDiffSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DiffSiteCommand]) *DiffSiteHandler {
	if service == nil {
		panic(ErrServiceRequired)
	}
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DiffSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{Force: msg.Force, DryRun: true})
		if msg.ResultCallback != nil && result != nil {
			msg.ResultCallback(result)
		}
		if err != nil {
			return err
		}
		logResult(baseLogger, result).Info("static.command.diff.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DiffSiteCommand]{
		commands.WithLogger[DiffSiteCommand](baseLogger),
		commands.WithOperation[DiffSiteCommand](diffOperation),
		commands.WithMessageFields(func(msg DiffSiteCommand) map[string]any {
			return map[string]any{"force": msg.Force}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DiffSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DiffSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DiffSiteCommand].
func (h *DiffSiteHandler) Execute(ctx context.Context, msg DiffSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func logResult(logger interfaces.Logger, result *generator.BuildResult) interfaces.Logger {
	return logging.WithFields(logger, map[string]any{
		"built":    result.PagesBuilt,
		"skipped":  result.PagesSkipped,
		"stale":    len(result.Stale),
		"duration": result.Duration,
	})
}
