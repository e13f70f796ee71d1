package xtui

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerCoalescesPendingTasks(t *testing.T) {
	s := NewScheduler(1000) // fast tick for test speed
	var calls int32
	s.Schedule(func() { atomic.AddInt32(&calls, 1) })
	s.Schedule(func() { atomic.AddInt32(&calls, 1) }) // discarded: already pending

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSchedulerForceRunsImmediately(t *testing.T) {
	s := NewScheduler(1) // slow tick, Force should not wait for it
	s.lastFrame = time.Now() // a recent frame makes Schedule wait the full 1s interval
	var ran int32
	s.Schedule(func() { atomic.AddInt32(&ran, 1) })
	s.Force()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestSchedulerCancelPreventsExecution(t *testing.T) {
	s := NewScheduler(1000)
	var ran int32
	s.Schedule(func() { atomic.AddInt32(&ran, 1) })
	s.Cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestSchedulerRunLoopSkipsWhenTickReturnsFalse(t *testing.T) {
	s := NewScheduler(1000)
	stop := make(chan struct{})
	ticks := 0
	go func() {
		s.RunLoop(stop, func() bool {
			ticks++
			if ticks >= 3 {
				close(stop)
			}
			return false
		})
	}()
	require.Eventually(t, func() bool { return s.SkipCount() >= 3 }, time.Second, time.Millisecond)
}
