package wait

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
)

// fakeCursor is a minimal Cursor for exercising strategies directly,
// without pulling in the sequence package, so this package's tests depend
// on nothing but wait itself.
type fakeCursor struct{ v atomic.Int64 }

func (c *fakeCursor) Get() int64  { return c.v.Load() }
func (c *fakeCursor) Set(v int64) { c.v.Store(v) }

type fakeAlert struct{ alerted atomic.Bool }

func (a *fakeAlert) IsAlerted() bool { return a.alerted.Load() }
func (a *fakeAlert) Alert()          { a.alerted.Store(true) }

func testStrategyReturnsWhenAvailable(t *testing.T, s Strategy) {
	t.Helper()
	cursor := &fakeCursor{}
	cursor.Set(5)
	alert := &fakeAlert{}

	available, err := s.WaitFor(5, cursor, nil, alert)
	if err != nil {
		t.Fatalf("WaitFor returned error %v, want nil", err)
	}
	if available != 5 {
		t.Fatalf("WaitFor returned %d, want 5", available)
	}
}

func testStrategyBlocksUntilPublish(t *testing.T, s Strategy) {
	t.Helper()
	cursor := &fakeCursor{}
	cursor.Set(-1)
	alert := &fakeAlert{}

	resultCh := make(chan int64, 1)
	go func() {
		available, err := s.WaitFor(0, cursor, nil, alert)
		if err != nil {
			t.Errorf("WaitFor returned unexpected error %v", err)
			return
		}
		resultCh <- available
	}()

	time.Sleep(2 * time.Millisecond)
	select {
	case <-resultCh:
		t.Fatal("WaitFor returned before cursor advanced")
	default:
	}

	cursor.Set(0)
	s.SignalAllWhenBlocking()

	select {
	case available := <-resultCh:
		if available != 0 {
			t.Fatalf("WaitFor returned %d, want 0", available)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not unblock after publish")
	}
}

func testStrategyAlerted(t *testing.T, s Strategy) {
	t.Helper()
	cursor := &fakeCursor{}
	cursor.Set(-1)
	alert := &fakeAlert{}

	errCh := make(chan error, 1)
	go func() {
		_, err := s.WaitFor(0, cursor, nil, alert)
		errCh <- err
	}()

	time.Sleep(2 * time.Millisecond)
	alert.Alert()
	s.SignalAllWhenBlocking()

	select {
	case err := <-errCh:
		if err != disruptorerr.ErrAlerted {
			t.Fatalf("WaitFor returned %v, want ErrAlerted", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not observe alert")
	}
}

func TestBusySpin(t *testing.T) {
	s := NewBusySpin()
	testStrategyReturnsWhenAvailable(t, s)
	testStrategyBlocksUntilPublish(t, s)
	testStrategyAlerted(t, s)
}

func TestYielding(t *testing.T) {
	s := NewYielding(WithYieldingSpinTries(5))
	testStrategyReturnsWhenAvailable(t, s)
	testStrategyBlocksUntilPublish(t, s)
	testStrategyAlerted(t, s)
}

func TestSleeping(t *testing.T) {
	s := NewSleeping(
		WithSleepingSpinTries(5),
		WithSleepingYieldTries(5),
		WithSleepingDuration(time.Microsecond),
	)
	testStrategyReturnsWhenAvailable(t, s)
	testStrategyBlocksUntilPublish(t, s)
	testStrategyAlerted(t, s)
}

func TestBlocking(t *testing.T) {
	s := NewBlocking(WithBlockGuard(time.Millisecond))
	defer s.Close()
	testStrategyReturnsWhenAvailable(t, s)
	testStrategyBlocksUntilPublish(t, s)
	testStrategyAlerted(t, s)
}

func TestMinimumWithDependencies(t *testing.T) {
	cursor := &fakeCursor{}
	cursor.Set(100)
	dep1 := &fakeCursor{}
	dep1.Set(50)
	dep2 := &fakeCursor{}
	dep2.Set(70)

	got := minimum(cursor, []Cursor{dep1, dep2})
	if got != 50 {
		t.Fatalf("minimum() = %d, want 50 (lowest dependency)", got)
	}
}

func TestMinimumNoDependencies(t *testing.T) {
	cursor := &fakeCursor{}
	cursor.Set(42)

	got := minimum(cursor, nil)
	if got != 42 {
		t.Fatalf("minimum() = %d, want 42 (cursor only)", got)
	}
}

// TestBlockingLivenessGuard verifies a waiter wakes up periodically even
// without an explicit SignalAllWhenBlocking, via the background guard
// ticker, and still observes the alert once set.
func TestBlockingLivenessGuard(t *testing.T) {
	s := NewBlocking(WithBlockGuard(time.Millisecond))
	defer s.Close()

	cursor := &fakeCursor{}
	cursor.Set(-1)
	alert := &fakeAlert{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		alert.Alert() // no SignalAllWhenBlocking call: rely on the guard tick
	}()

	_, err := s.WaitFor(0, cursor, nil, alert)
	wg.Wait()
	if err != disruptorerr.ErrAlerted {
		t.Fatalf("WaitFor returned %v, want ErrAlerted (guard should have woken it)", err)
	}
}
