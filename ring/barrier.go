package ring

import (
	"sync/atomic"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
)

// publishedRangeSource is the slice of Sequencer a Barrier needs to
// reconcile a wait strategy's raw "minimum observed" answer against actual
// per-slot publication. A single-producer sequencer's cursor only ever
// advances over a contiguous run, so its HighestPublishedSequence is the
// identity function on availableUpper; a multi-producer sequencer must
// scan its availability buffer, since claims can commit out of order.
type publishedRangeSource interface {
	HighestPublishedSequence(lower, availableUpper int64) int64
}

// Barrier is the consumer-side primitive: it waits for a requested sequence
// to become available given a cursor, an optional set of upstream
// dependency sequences, and a wait strategy, and reconciles the result
// against the owning sequencer's actual publication state.
//
// A Barrier never takes ownership of its cursor, dependencies, wait
// strategy, or sequencer back-reference. Many barriers may share one
// cursor; destroying a barrier does not halt the consumer built on it,
// which must be halted explicitly.
type Barrier struct {
	cursor       *sequence.Sequence
	dependencies []*sequence.Sequence
	strategy     wait.Strategy
	sequencer    publishedRangeSource

	alerted atomic.Bool
}

func newBarrier(cursor *sequence.Sequence, dependencies []*sequence.Sequence, strategy wait.Strategy, sequencer publishedRangeSource) *Barrier {
	deps := make([]*sequence.Sequence, len(dependencies))
	copy(deps, dependencies)
	return &Barrier{
		cursor:       cursor,
		dependencies: deps,
		strategy:     strategy,
		sequencer:    sequencer,
	}
}

// WaitFor blocks until sequence seq is available (or the barrier is
// alerted), and returns the highest sequence that is both observed by the
// wait strategy and contiguously published from seq.
func (b *Barrier) WaitFor(seq int64) (int64, error) {
	if b.alerted.Load() {
		return -1, disruptorerr.ErrAlerted
	}
	deps :=make([]wait.Cursor, len(b.dependencies))
	for i, d := range b.dependencies {
		deps[i] = d
	}
	available, err := b.strategy.WaitFor(seq, b.cursor, deps, b)
	if err != nil {
		return -1, err
	}
	if available < seq {
		return available, nil
	}
	return b.sequencer.HighestPublishedSequence(seq, available), nil
}

// Alert cooperatively cancels any goroutine currently parked in WaitFor,
// and every future call until ClearAlert is invoked.
func (b *Barrier) Alert() {
	b.alerted.Store(true)
	b.strategy.SignalAllWhenBlocking()
}

// ClearAlert resets the alert flag, returning the barrier to a state where
// WaitFor can progress given a sufficient cursor.
func (b *Barrier) ClearAlert() {
	b.alerted.Store(false)
}

// IsAlerted reports whether Alert has been called without a subsequent
// ClearAlert. Satisfies wait.AlertFlag.
func (b *Barrier) IsAlerted() bool {
	return b.alerted.Load()
}

// Dependencies returns the barrier's upstream sequences, primarily so a
// topology builder can chain a further barrier off of them.
func (b *Barrier) Dependencies() []*sequence.Sequence {
	deps := make([]*sequence.Sequence, len(b.dependencies))
	copy(deps, b.dependencies)
	return deps
}
