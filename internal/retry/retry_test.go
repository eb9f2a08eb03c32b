package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	c := qt.New(t)

	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(calls, qt.Equals, 1)
}

func TestDoStopsRetryingAfterSuccess(t *testing.T) {
	c := qt.New(t)

	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(calls, qt.Equals, 2)
}

func TestDoNeverExceedsMaxAttempts(t *testing.T) {
	c := qt.New(t)

	transient := errors.New("connection reset")
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		return transient
	})
	c.Assert(calls, qt.Equals, 3)
	c.Assert(err, qt.ErrorIs, transient)
	c.Assert(err.Error(), qt.Contains, "after 3 attempts")
}

func TestDoPermanentShortCircuits(t *testing.T) {
	c := qt.New(t)

	notFound := errors.New("not found")
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		return Permanent(notFound)
	})
	c.Assert(calls, qt.Equals, 1)
	c.Assert(err, qt.ErrorIs, notFound)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, 3, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	c.Assert(calls, qt.Equals, 1)
	c.Assert(err, qt.ErrorIs, context.Canceled)
}

func TestPermanentNilIsNil(t *testing.T) {
	c := qt.New(t)
	c.Assert(Permanent(nil), qt.IsNil)
	c.Assert(IsPermanent(errors.New("plain")), qt.IsFalse)
	c.Assert(IsPermanent(Permanent(errors.New("x"))), qt.IsTrue)
}
