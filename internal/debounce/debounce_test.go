package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerCoalesces(t *testing.T) {
	var count int32
	done := make(chan struct{})
	d := New(10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
		close(done)
	})
	d.Trigger()
	d.Trigger()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not fire")
	}
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Fatalf("expected one invocation, got %d", got)
	}
}

func TestStopCancelsPending(t *testing.T) {
	var count int32
	d := New(20*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Fatalf("expected no invocations after stop, got %d", got)
	}
}

func TestStaleTimerCallbackIgnored(t *testing.T) {
	origAfterFunc := afterFunc
	t.Cleanup(func() { afterFunc = origAfterFunc })

	var callbacks []func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callbacks = append(callbacks, f)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := New(time.Second, func() { called.Add(1) })
	d.Trigger()
	d.Trigger()
	if len(callbacks) != 2 {
		t.Fatalf("expected 2 scheduled callbacks, got %d", len(callbacks))
	}
	callbacks[0]()
	callbacks[1]()
	if got := called.Load(); got != 1 {
		t.Fatalf("only the latest callback should run, got %d calls", got)
	}
}

func TestStopInvalidatesScheduledCallback(t *testing.T) {
	origAfterFunc := afterFunc
	t.Cleanup(func() { afterFunc = origAfterFunc })

	var callback func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callback = f
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := New(time.Second, func() { called.Add(1) })
	d.Trigger()
	d.Stop()
	if callback == nil {
		t.Fatal("expected a scheduled callback")
	}
	callback()
	if got := called.Load(); got != 0 {
		t.Fatalf("callback should be ignored after stop, got %d calls", got)
	}
}
