package worker

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPool(t *testing.T) {
	p := NewPool(3, quietLogger())
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolDefaultsAndNilTask(t *testing.T) {
	p := NewPool(0, quietLogger())
	require.NoError(t, p.Submit(nil))
	done := false
	require.NoError(t, p.Submit(func() { done = true }))
	p.Stop()
	require.True(t, done)
}

func TestPoolRecoversPanic(t *testing.T) {
	log, hook := test.NewNullLogger()
	p := NewPool(1, log)
	require.NoError(t, p.Submit(func() { panic("boom") }))
	ran := false
	require.NoError(t, p.Submit(func() { ran = true }))
	p.Stop()

	require.True(t, ran)
	require.Len(t, hook.Entries, 1)
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	require.Contains(t, hook.LastEntry().Message, "boom")
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(2, quietLogger())
	p.Stop()
	p.Stop()
	require.ErrorIs(t, p.Submit(func() { t.Fatal("must not run") }), ErrPoolStopped)
}

func TestPoolSubmitDoesNotWaitForBusyWorker(t *testing.T) {
	p := newPool(1, 1, quietLogger())
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	// worker 忙碌中：第一個排進佇列，第二個立即被拒
	done := make(chan error, 2)
	go func() {
		done <- p.Submit(func() {})
		done <- p.Submit(func() {})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a busy worker")
	}
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(release)
	p.Stop()
}

func TestNewPoolQueueCapacity(t *testing.T) {
	p := NewPool(0, quietLogger()).(*pool)
	t.Cleanup(p.Stop)
	require.Equal(t, queuePerWorker, cap(p.jobs))
}
