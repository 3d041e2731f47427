package editor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 20 * time.Millisecond

func TestDebouncerRunsLastTaskOnce(t *testing.T) {
	d := NewDebouncer(testWindow, nil)
	var runs, last atomic.Int32
	for i := int32(1); i <= 5; i++ {
		d.Schedule(func(context.Context) error {
			runs.Add(1)
			last.Store(i)
			return nil
		})
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())

	time.Sleep(3 * testWindow)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncerScheduleResetsWindow(t *testing.T) {
	d := NewDebouncer(60*time.Millisecond, nil)
	var runs atomic.Int32
	task := func(context.Context) error { runs.Add(1); return nil }

	d.Schedule(task)
	time.Sleep(40 * time.Millisecond)
	d.Schedule(task)
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load(), "second schedule restarted the window")

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(testWindow, nil)
	var runs atomic.Int32
	d.Schedule(func(context.Context) error { runs.Add(1); return nil })
	d.Cancel()

	time.Sleep(3 * testWindow)
	assert.Zero(t, runs.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour, nil)
	boom := errors.New("boom")
	d.Schedule(func(context.Context) error { return boom })

	require.ErrorIs(t, d.Flush(context.Background()), boom)
	assert.False(t, d.Pending())
	assert.NoError(t, d.Flush(context.Background()), "nothing pending")
}

func TestDebouncerReportsTimerErrors(t *testing.T) {
	errs := make(chan error, 1)
	d := NewDebouncer(testWindow, func(err error) { errs <- err })
	boom := errors.New("boom")
	d.Schedule(func(context.Context) error { return boom })

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("error not reported")
	}
}

func TestDebouncerClose(t *testing.T) {
	d := NewDebouncer(time.Hour, nil)
	var runs atomic.Int32
	task := func(context.Context) error { runs.Add(1); return nil }

	d.Schedule(task)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), runs.Load(), "close flushes")

	d.Schedule(task)
	assert.False(t, d.Pending(), "schedule after close is ignored")
}
