package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopMaxTimes(t *testing.T) {
	var runs int
	l := New(WithInterval(time.Millisecond), WithMaxTimes(3))
	err := l.Do(func() (bool, error) {
		runs++
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, runs)
}

func TestLoopAbort(t *testing.T) {
	var runs int
	wantErr := errors.New("stop")
	l := New(WithInterval(time.Millisecond))
	err := l.Do(func() (bool, error) {
		runs++
		return true, wantErr
	})
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 1, runs)
}

func TestLoopContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(WithInterval(10*time.Millisecond), WithContext(ctx))

	var runs int
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	err := l.Do(func() (bool, error) {
		runs++
		return false, nil
	})
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, runs, 1)
}

func TestLoopDeclineRatio(t *testing.T) {
	l := New(WithInterval(time.Millisecond), WithDeclineRatio(2), WithDeclineLimit(4*time.Millisecond), WithMaxTimes(4))
	start := time.Now()
	_ = l.Do(func() (bool, error) {
		return false, errors.New("transient")
	})
	// 1ms doubled per failure, capped at 4ms: at least 2+4+4 ms of sleeping
	assert.GreaterOrEqual(t, time.Since(start), 9*time.Millisecond)
}
