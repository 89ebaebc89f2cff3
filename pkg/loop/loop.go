// Package loop provides a tool for performing tasks in a loop.
// use example:
// l := loop.New(loop.WithInterval(time.Second))
// l.Do(func() (bool, error) { ... })
package loop

import (
	"context"
	"math"
	"time"
)

// Loop executes a task repeatedly with an interval, backing off on errors.
type Loop struct {
	maxTimes      uint64
	declineRatio  float64
	declineLimit  time.Duration
	interval      time.Duration
	lastSleepTime time.Duration
	ctx           context.Context
}

// Option configures a Loop.
type Option func(*Loop)

func New(options ...Option) *Loop {
	l := &Loop{
		interval:     time.Second,
		maxTimes:     math.MaxUint64,
		declineRatio: 1,
		declineLimit: 0,
	}

	for _, op := range options {
		op(l)
	}

	l.lastSleepTime = l.interval

	return l
}

// sleepUntilCtxDone sleeps d duration unless ctx is done first.
func sleepUntilCtxDone(d time.Duration, ctx context.Context) (abort bool) {
	if ctx == nil {
		time.Sleep(d)
		return false
	}

	select {
	case <-time.After(d):
		return false
	case <-ctx.Done():
		return true
	}
}

// Do executes the given method in a loop.
// The method returns a boolean indicating whether to abort the loop.
func (l *Loop) Do(f func() (bool, error)) error {
	if l.ctx != nil && l.ctx.Err() != nil {
		return nil
	}

	var (
		i     uint64
		err   error
		abort bool
	)
	for i = 0; i < l.maxTimes; i++ {
		abort, err = f()
		if abort {
			return err
		}
		if err != nil {
			// decline = decline * declineRatio, capped at declineLimit
			l.lastSleepTime = time.Duration(float64(l.lastSleepTime) * l.declineRatio)
			if l.declineLimit > 0 && l.lastSleepTime > l.declineLimit {
				l.lastSleepTime = l.declineLimit
			}
			if sleepUntilCtxDone(l.lastSleepTime, l.ctx) {
				return nil
			}
			continue
		}

		l.lastSleepTime = l.interval
		if sleepUntilCtxDone(l.lastSleepTime, l.ctx) {
			return nil
		}
	}
	return err
}

// WithInterval sets the base loop interval, default is one second.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithMaxTimes sets the maximum number of loop executions, default is unlimited.
func WithMaxTimes(n uint64) Option {
	return func(l *Loop) {
		l.maxTimes = n
	}
}

// WithDeclineRatio sets the decline ratio for error retries, default is 1 (no decline).
func WithDeclineRatio(n float64) Option {
	return func(l *Loop) {
		if n < 1 {
			return
		}
		l.declineRatio = n
	}
}

// WithDeclineLimit sets the maximum decline time for error retries, default is no limit.
func WithDeclineLimit(t time.Duration) Option {
	return func(l *Loop) {
		if t > 0 {
			l.declineLimit = t
		}
	}
}

// WithContext binds the loop to a context so it stops when the context is done.
func WithContext(ctx context.Context) Option {
	return func(l *Loop) {
		l.ctx = ctx
	}
}
