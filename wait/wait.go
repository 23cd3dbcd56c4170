// Package wait provides the backoff/wake-up policies a ConsumerBarrier uses
// while waiting for a requested sequence to become visible.
//
// Every strategy implements the same two-method capability set the design
// calls for: WaitFor to block (or spin) until a sequence is available or
// the caller is alerted, and SignalAllWhenBlocking to wake any waiters
// after a publish. Strategies are stateless aside from the Blocking
// strategy's mutex/condition-variable pair, and are meant to be shared
// across every barrier in a topology.
package wait

// Cursor is the minimal read capability a wait strategy needs from a
// sequence: *sequence.Sequence satisfies this without either package
// importing the other, matching the "small capability set" modeling note
// in the design.
type Cursor interface {
	Get() int64
}

// AlertFlag reports whether a barrier has been cooperatively cancelled.
// *ring.Barrier satisfies this directly.
type AlertFlag interface {
	IsAlerted() bool
}

// Strategy is the wait/backoff contract every wait strategy implements.
type Strategy interface {
	// WaitFor blocks until the minimum of cursor and dependencies (or just
	// cursor, if dependencies is empty) reaches at least requested, and
	// returns that observed minimum. If alert reports true before that
	// happens, it returns disruptorerr.ErrAlerted.
	WaitFor(requested int64, cursor Cursor, dependencies []Cursor, alert AlertFlag) (int64, error)

	// SignalAllWhenBlocking wakes any goroutine currently parked inside
	// WaitFor. Called by a sequencer after every publish.
	SignalAllWhenBlocking()
}

// minimum computes min(cursor, min(dependencies)), or just cursor.Get()
// when dependencies is empty, per the observable-sequence rule shared by
// every strategy.
func minimum(cursor Cursor, dependencies []Cursor) int64 {
	m := cursor.Get()
	for _, d := range dependencies {
		if v := d.Get(); v < m {
			m = v
		}
	}
	return m
}
