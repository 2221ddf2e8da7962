package database

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestWithRetryTransient(t *testing.T) {
	c := qt.New(t)

	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return ErrUnavailable
		}
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(calls, qt.Equals, 3)
}

func TestWithRetryExhaustsAndSurfacesLastError(t *testing.T) {
	c := qt.New(t)

	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		return ErrPoolExhausted
	})
	c.Assert(err, qt.ErrorIs, ErrPoolExhausted)
	c.Assert(calls, qt.Equals, 3)
}

func TestWithRetryDoesNotRetryTerminalErrors(t *testing.T) {
	c := qt.New(t)

	terminal := errors.New("slot already reserved")
	calls := 0
	err := WithRetry(context.Background(), 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return terminal
	})
	c.Assert(err, qt.ErrorIs, terminal)
	c.Assert(calls, qt.Equals, 1)
}

func TestWithRetryHonoursContextCancellation(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		// Cancel while the retry loop is sleeping between attempts.
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := WithRetry(ctx, 10, time.Hour, func(ctx context.Context) error {
		calls++
		return ErrUnavailable
	})
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(calls, qt.Equals, 1)
}

func TestIsTransient(t *testing.T) {
	c := qt.New(t)

	c.Assert(IsTransient(ErrUnavailable), qt.IsTrue)
	c.Assert(IsTransient(ErrPoolExhausted), qt.IsTrue)
	c.Assert(IsTransient(errors.New("duplicate entry")), qt.IsFalse)
	c.Assert(IsTransient(nil), qt.IsFalse)
}
