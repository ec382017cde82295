// Package commands holds the shared go-command handler used by every
// editorial command: validation, a per-execution timeout, structured
// logging, outcome metrics and go-errors categorisation.
package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/metrics"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// DefaultTimeout bounds one execution unless WithTimeout overrides it.
const DefaultTimeout = 5 * time.Minute

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler implements command.Commander[T] around a plain function.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	metrics   interfaces.MetricsRecorder
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
	now       func() time.Time
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		metrics: metrics.Noop{},
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, runs the wrapped function under the handler
// timeout and reports the outcome. Returned errors carry a go-errors
// category: validation for rejected messages, command otherwise.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := command.GetMessageType(msg)
	fields := h.messageFields(name, msg)
	start := h.now()

	var err error
	status := StatusSuccess
	if err = command.ValidateMessage(msg); err != nil {
		status = StatusInvalid
	} else if err = ctx.Err(); err != nil {
		status = classify(err)
	} else {
		status, err = h.run(ctx, fields, msg)
	}

	outcome := Outcome{
		Command:   name,
		Operation: h.operation,
		Fields:    fields,
		Duration:  h.now().Sub(start),
		Err:       err,
		Status:    status,
	}
	h.metrics.ObserveCommand(name, string(status), outcome.Duration)
	if h.telemetry != nil {
		h.telemetry(ctx, msg, outcome)
	} else if status != StatusSuccess {
		logging.WithFields(h.logger, fields).Error("command.execute."+string(status), "error", err)
	}
	return wrap(err, status)
}

func (h *Handler[T]) run(ctx context.Context, fields map[string]any, msg T) (Status, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	logging.WithFields(h.logger, fields).Debug("command.execute.start")

	err := h.exec(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}
	return classify(err), err
}

func (h *Handler[T]) messageFields(name string, msg T) map[string]any {
	fields := map[string]any{"command": name}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	return fields
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithMetrics records every outcome on recorder.
func WithMetrics[T command.Message](recorder interfaces.MetricsRecorder) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.metrics = metrics.OrNoop(recorder)
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message-derived fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the default failure logging with fn.
func WithTelemetry[T command.Message](fn Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = fn
	}
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
