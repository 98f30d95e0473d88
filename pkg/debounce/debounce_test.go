package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_Fires(t *testing.T) {
	s := New(10 * time.Millisecond)
	fired := make(chan struct{})

	s.Trigger(func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("task never fired")
	}
}

func TestTrigger_BurstCollapsesToLast(t *testing.T) {
	s := New(50 * time.Millisecond)

	var fires atomic.Int32
	var last atomic.Int32
	for i := range 10 {
		s.Trigger(func() {
			fires.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return fires.Load() > 0
	}, time.Second, 5*time.Millisecond)
	// Give a would-be second fire time to appear.
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), fires.Load())
	assert.Equal(t, int32(9), last.Load())
}

func TestCancel(t *testing.T) {
	s := New(20 * time.Millisecond)

	var fires atomic.Int32
	s.Trigger(func() { fires.Add(1) })
	s.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fires.Load())
}

func TestStop_RejectsFurtherTriggers(t *testing.T) {
	s := New(10 * time.Millisecond)

	var fires atomic.Int32
	s.Trigger(func() { fires.Add(1) })
	s.Stop()
	s.Trigger(func() { fires.Add(1) })

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fires.Load())
}

func TestTrigger_SequentialFiresEachTime(t *testing.T) {
	s := New(5 * time.Millisecond)

	var fires atomic.Int32
	s.Trigger(func() { fires.Add(1) })
	require.Eventually(t, func() bool { return fires.Load() == 1 }, time.Second, time.Millisecond)

	s.Trigger(func() { fires.Add(1) })
	require.Eventually(t, func() bool { return fires.Load() == 2 }, time.Second, time.Millisecond)
}
