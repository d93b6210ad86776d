package refresh

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	tm := New(0)
	if tm.Delay() != DefaultDelay {
		t.Errorf("Delay = %v, want %v", tm.Delay(), DefaultDelay)
	}
	if tm.Running() {
		t.Error("new timer is running")
	}
	if tm.Remaining() != 0 {
		t.Error("stopped timer has time remaining")
	}
}

func TestTimer_Expires(t *testing.T) {
	expired := make(chan struct{}, 1)
	var ticks atomic.Int32
	tm := New(60*time.Millisecond,
		WithTick(10*time.Millisecond),
		OnTick(func(int) { ticks.Add(1) }),
		OnExpire(func() { expired <- struct{}{} }),
	)
	tm.Start()

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not expire")
	}
	if ticks.Load() == 0 {
		t.Error("no ticks before expiry")
	}
	if tm.Running() {
		t.Error("timer still running after expiry")
	}
}

func TestTimer_ResetPostponesExpiry(t *testing.T) {
	var expired atomic.Bool
	tm := New(100*time.Millisecond,
		WithTick(5*time.Millisecond),
		OnExpire(func() { expired.Store(true) }),
	)
	tm.Start()
	defer tm.Cancel()

	for i := 0; i < 6; i++ {
		time.Sleep(40 * time.Millisecond)
		tm.Reset()
	}
	if expired.Load() {
		t.Fatal("timer expired despite activity")
	}
	if rem := tm.Remaining(); rem <= 0 || rem > 100*time.Millisecond {
		t.Errorf("Remaining = %v", rem)
	}
}

func TestTimer_CancelSkipsExpire(t *testing.T) {
	var expired atomic.Bool
	tm := New(30*time.Millisecond,
		WithTick(5*time.Millisecond),
		OnExpire(func() { expired.Store(true) }),
	)
	tm.Start()
	tm.Cancel()
	tm.Cancel()

	time.Sleep(80 * time.Millisecond)
	if expired.Load() {
		t.Fatal("cancelled timer expired")
	}
	if tm.Running() {
		t.Error("cancelled timer is running")
	}
}

func TestTimer_ResetStoppedIsNoop(t *testing.T) {
	tm := New(time.Second)
	tm.Reset()
	if tm.Running() {
		t.Fatal("Reset started a stopped timer")
	}
}

func TestTimer_TickSeconds(t *testing.T) {
	seconds := make(chan int, 16)
	tm := New(3*time.Second, WithTick(10*time.Millisecond), OnTick(func(s int) {
		select {
		case seconds <- s:
		default:
		}
	}))
	tm.Start()
	defer tm.Cancel()

	select {
	case s := <-seconds:
		if s != 3 {
			t.Errorf("first tick = %d, want 3", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no tick")
	}
}
