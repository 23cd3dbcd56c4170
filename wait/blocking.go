package wait

import (
	"sync"
	"time"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
)

// defaultBlockGuard is the liveness-guard timeout the design calls for: a
// blocked waiter is woken periodically even without an explicit publish, so
// it can re-check its predicate and alert flag.
const defaultBlockGuard = 50 * time.Microsecond

// BlockingOption configures a Blocking strategy at construction.
type BlockingOption func(*Blocking)

// WithBlockGuard overrides the liveness-guard interval.
func WithBlockGuard(d time.Duration) BlockingOption {
	return func(b *Blocking) { b.guard = d }
}

// Blocking parks waiters on a condition variable, the lowest-CPU strategy
// of the four. sync.Cond has no built-in timed wait, so a background
// goroutine broadcasts on the condition variable every guard interval as a
// liveness guard, matching the ~50µs bounded timeout in the design.
//
// This is the idiomatic Go substitute for a condition-variable-with-timeout
// primitive: sync.Cond plus a periodic broadcaster is the standard library
// tool for the job, so there is no third-party dependency to reach for
// here.
type Blocking struct {
	mu    sync.Mutex
	cond  *sync.Cond
	guard time.Duration

	guardOnce sync.Once
	stopGuard chan struct{}
}

// NewBlocking returns a Blocking strategy with the design's default guard
// interval, applying any options.
func NewBlocking(opts ...BlockingOption) *Blocking {
	b := &Blocking{guard: defaultBlockGuard, stopGuard: make(chan struct{})}
	b.cond = sync.NewCond(&b.mu)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Blocking) ensureGuard() {
	b.guardOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(b.guard)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					b.cond.Broadcast()
				case <-b.stopGuard:
					return
				}
			}
		}()
	})
}

func (b *Blocking) WaitFor(requested int64, cursor Cursor, dependencies []Cursor, alert AlertFlag) (int64, error) {
	if available := minimum(cursor, dependencies); available >= requested {
		return available, nil
	}
	b.ensureGuard()

	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		if available := minimum(cursor, dependencies); available >= requested {
			return available, nil
		}
		if alert.IsAlerted() {
			return -1, disruptorerr.ErrAlerted
		}
		b.cond.Wait()
	}
}

func (b *Blocking) SignalAllWhenBlocking() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Close stops the background liveness-guard goroutine. Safe to skip for a
// strategy that lives for the process lifetime; provided for embedders
// that construct and discard many short-lived topologies.
func (b *Blocking) Close() {
	select {
	case <-b.stopGuard:
	default:
		close(b.stopGuard)
	}
}
