package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Status is the outcome class of one command execution. The values double
// as metric labels.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusInvalid  Status = "invalid"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusTimeout  Status = "timeout"
)

// Outcome describes a finished execution to telemetry callbacks.
type Outcome struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Err       error
	Status    Status
}

// Telemetry is invoked once per execution, after the command ran or was
// rejected.
type Telemetry[T command.Message] func(ctx context.Context, msg T, outcome Outcome)

// DefaultTelemetry logs each outcome on logger: successes at info level,
// everything else at error level.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, outcome Outcome) {
		entry := logging.WithFields(logger, outcome.Fields)
		elapsed := outcome.Duration.Milliseconds()
		if outcome.Status == StatusSuccess {
			entry.Info("command.execute.success", "duration_ms", elapsed)
			return
		}
		entry.Error("command.execute."+string(outcome.Status), "duration_ms", elapsed, "error", outcome.Err)
	}
}

var errorCodes = map[Status]string{
	StatusInvalid:  "EDITORIAL_COMMAND_INVALID",
	StatusFailed:   "EDITORIAL_COMMAND_FAILED",
	StatusCanceled: "EDITORIAL_COMMAND_CANCELED",
	StatusTimeout:  "EDITORIAL_COMMAND_TIMEOUT",
}

var errorMessages = map[Status]string{
	StatusInvalid:  "command rejected by validation",
	StatusFailed:   "command failed",
	StatusCanceled: "command cancelled",
	StatusTimeout:  "command timed out",
}

func classify(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	default:
		return StatusFailed
	}
}

// wrap tags err with the go-errors category for status. Errors that are
// already go-errors values pass through so domain codes survive.
func wrap(err error, status Status) error {
	if err == nil || status == StatusSuccess {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	category := goerrors.CategoryCommand
	if status == StatusInvalid {
		category = goerrors.CategoryValidation
	}
	return goerrors.Wrap(err, category, errorMessages[status]).WithTextCode(errorCodes[status])
}
