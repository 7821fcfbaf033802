package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockUntilDone(cancelled chan<- struct{}) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}
}

func TestRunReportsFirstFailure(t *testing.T) {
	boom := errors.New("listener closed")
	cancelled := make(chan struct{})

	err := Run(context.Background(),
		Task{Name: "bot", Run: blockUntilDone(cancelled)},
		Task{Name: "http", Run: func(context.Context) error { return boom }},
	)

	var outcome Outcome
	require.True(t, errors.As(err, &outcome))
	assert.Equal(t, "http", outcome.Task)
	assert.ErrorIs(t, err, boom)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("surviving task was not cancelled")
	}
}

func TestRunTreatsCleanReturnAsStop(t *testing.T) {
	cancelled := make(chan struct{})

	err := Run(context.Background(),
		Task{Name: "bot", Run: func(context.Context) error { return nil }},
		Task{Name: "http", Run: blockUntilDone(cancelled)},
	)

	var outcome Outcome
	require.True(t, errors.As(err, &outcome))
	assert.Equal(t, "bot", outcome.Task)
	assert.ErrorIs(t, err, ErrTaskStopped)
	<-cancelled
}

func TestRunDoesNotWaitForSlowTask(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	err := Run(context.Background(),
		Task{Name: "stuck", Run: func(context.Context) error { <-release; return nil }},
		Task{Name: "http", Run: func(context.Context) error { return errors.New("bind failed") }},
	)

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRunParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx,
		Task{Name: "bot", Run: func(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }},
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWithoutTasks(t *testing.T) {
	require.Error(t, Run(context.Background()))
}
