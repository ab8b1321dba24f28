package throttle

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescesBurstToTrailingTask(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var runs int32
	var last int32
	for i := 1; i <= 10; i++ {
		n := int32(i)
		d.Schedule(func() {
			atomic.AddInt32(&runs, 1)
			atomic.StoreInt32(&last, n)
		})
	}
	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Errorf("burst produced %d runs, want 1", got)
	}
	if got := atomic.LoadInt32(&last); got != 10 {
		t.Errorf("ran task %d, want the last (10)", got)
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	ran := false
	d.Schedule(func() { ran = true })
	d.Flush()
	if !ran {
		t.Error("flush did not run the pending task")
	}
	d.Flush() // no pending task, must be a no-op
}

func TestCancelDropsPendingTask(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != 0 {
		t.Errorf("cancelled task still ran %d time(s)", got)
	}
}

func TestStopPreventsFutureScheduling(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	d.Stop()
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != 0 {
		t.Errorf("stopped debouncer ran %d task(s)", got)
	}
}

func TestSeparateWindowsRunSeparately(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(60 * time.Millisecond)
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(60 * time.Millisecond)

	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Errorf("two separated schedules ran %d time(s), want 2", got)
	}
}
