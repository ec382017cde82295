package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soygarfield/go-editorial/internal/metrics"
)

type publishMessage struct {
	Slug string
}

func (publishMessage) Type() string { return "editorial.test.publish" }

func (m publishMessage) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Slug, validation.Required))
}

type commandRecorder struct {
	metrics.Noop
	mu       sync.Mutex
	outcomes []string
}

func (r *commandRecorder) ObserveCommand(command, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, command+":"+status)
}

func TestHandlerRunsValidMessages(t *testing.T) {
	recorder := &commandRecorder{}
	var got string
	h := NewHandler(func(_ context.Context, msg publishMessage) error {
		got = msg.Slug
		return nil
	}, WithMetrics[publishMessage](recorder))

	require.NoError(t, h.Execute(context.Background(), publishMessage{Slug: "mi-articulo"}))
	assert.Equal(t, "mi-articulo", got)
	assert.Equal(t, []string{"editorial.test.publish:success"}, recorder.outcomes)
}

func TestHandlerRejectsInvalidMessages(t *testing.T) {
	recorder := &commandRecorder{}
	called := false
	h := NewHandler(func(context.Context, publishMessage) error {
		called = true
		return nil
	}, WithMetrics[publishMessage](recorder))

	err := h.Execute(context.Background(), publishMessage{})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
	assert.False(t, called)
	assert.Equal(t, []string{"editorial.test.publish:invalid"}, recorder.outcomes)
}

func TestHandlerSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(context.Context, publishMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, publishMessage{Slug: "x"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestHandlerCategorisesFailures(t *testing.T) {
	h := NewHandler(func(context.Context, publishMessage) error {
		return errors.New("content store offline")
	})

	err := h.Execute(context.Background(), publishMessage{Slug: "x"})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
	assert.Contains(t, err.Error(), "content store offline")
}

func TestHandlerKeepsDomainErrorCategory(t *testing.T) {
	domain := goerrors.Wrap(errors.New("slug not found"), goerrors.CategoryNotFound, "article missing")
	h := NewHandler(func(context.Context, publishMessage) error { return domain })

	err := h.Execute(context.Background(), publishMessage{Slug: "x"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))
}

func TestHandlerTimeout(t *testing.T) {
	recorder := &commandRecorder{}
	h := NewHandler(func(ctx context.Context, _ publishMessage) error {
		<-ctx.Done()
		return ctx.Err()
	},
		WithTimeout[publishMessage](10*time.Millisecond),
		WithMetrics[publishMessage](recorder),
	)

	err := h.Execute(context.Background(), publishMessage{Slug: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"editorial.test.publish:timeout"}, recorder.outcomes)
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var outcomes []Outcome
	fail := true
	h := NewHandler(func(context.Context, publishMessage) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	},
		WithOperation[publishMessage]("article.publish"),
		WithMessageFields(func(msg publishMessage) map[string]any { return map[string]any{"slug": msg.Slug} }),
		WithTelemetry(func(_ context.Context, _ publishMessage, outcome Outcome) {
			outcomes = append(outcomes, outcome)
		}),
	)

	require.Error(t, h.Execute(context.Background(), publishMessage{Slug: "guia"}))
	fail = false
	require.NoError(t, h.Execute(context.Background(), publishMessage{Slug: "guia"}))

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.EqualError(t, outcomes[0].Err, "boom")
	assert.Equal(t, StatusSuccess, outcomes[1].Status)
	assert.Equal(t, "article.publish", outcomes[1].Operation)
	assert.Equal(t, "guia", outcomes[1].Fields["slug"])
	assert.Equal(t, "editorial.test.publish", outcomes[1].Command)
}

func TestNewHandlerRequiresFunction(t *testing.T) {
	assert.Panics(t, func() { NewHandler[publishMessage](nil) })
}
