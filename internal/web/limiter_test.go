package web

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunLimiter_RejectsAfterWait(t *testing.T) {
	l := newRunLimiter(1, 20*time.Millisecond)

	require.NoError(t, l.acquire(context.Background()))
	assert.Equal(t, 1, l.running())

	err := l.acquire(context.Background())
	assert.ErrorIs(t, err, ErrTooManyRuns)

	l.release()
	assert.Equal(t, 0, l.running())
	require.NoError(t, l.acquire(context.Background()))
	l.release()
}

func TestRunLimiter_CallerCancellation(t *testing.T) {
	l := newRunLimiter(1, time.Minute)
	require.NoError(t, l.acquire(context.Background()))
	defer l.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.acquire(ctx), context.Canceled)
}

func TestRunLimiter_Drain(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := newRunLimiter(2, time.Second)
	require.NoError(t, l.acquire(context.Background()))

	go func() {
		time.Sleep(30 * time.Millisecond)
		l.release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, l.drain(ctx))
	assert.Equal(t, 0, l.running())
}
