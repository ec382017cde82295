package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshMessage struct {
	Attempts *int
}

func (refreshMessage) Type() string { return "editorial.test.refresh" }

func (refreshMessage) Validate() error { return nil }

func TestDispatchRetriesTransientFailure(t *testing.T) {
	attempts := 0
	h := NewHandler(func(_ context.Context, msg refreshMessage) error {
		*msg.Attempts++
		if *msg.Attempts == 1 {
			return errors.New("upstream 503")
		}
		return nil
	})
	sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(1))
	defer sub.Unsubscribe()

	require.NoError(t, dispatcher.Dispatch(context.Background(), refreshMessage{Attempts: &attempts}))
	assert.Equal(t, 2, attempts)
}

func TestDispatchGivesUpAfterRetries(t *testing.T) {
	attempts := 0
	h := NewHandler(func(_ context.Context, msg refreshMessage) error {
		*msg.Attempts++
		return errors.New("upstream 503")
	})
	sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(2))
	defer sub.Unsubscribe()

	assert.Error(t, dispatcher.Dispatch(context.Background(), refreshMessage{Attempts: &attempts}))
	assert.Equal(t, 3, attempts)
}
