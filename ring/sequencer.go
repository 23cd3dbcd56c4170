// Package ring implements the preallocated circular buffer, its two
// producer-coordination strategies, and the consumer barrier that bridges a
// cursor and its upstream dependencies through a wait strategy.
//
// Everything in this package is generic over the slot type: Ring[T] owns a
// contiguous []T built once at construction, parametric over the slot
// payload rather than a single concrete struct, since a reusable core has
// to carry whatever an embedder puts in it.
package ring

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
)

// Sequencer is the shared capability set of the two producer coordinators:
// claim sequences, publish them, and answer availability/highest-published
// queries for the barriers built on top of it.
type Sequencer interface {
	// Next claims n contiguous sequences, blocking (spinning with
	// runtime.Gosched, whatever the wait strategy) until the ring has room.
	// It returns the highest sequence in the claimed range.
	Next(n int64) (int64, error)

	// TryNext behaves like Next but returns
	// disruptorerr.ErrInsufficientCapacity immediately instead of waiting
	// when the ring does not currently have room.
	TryNext(n int64) (int64, error)

	// Publish makes the inclusive range [lo, hi] visible to consumers and
	// wakes any blocked barrier.
	Publish(lo, hi int64)

	// IsAvailable reports whether seq has been published.
	IsAvailable(seq int64) bool

	// HighestPublishedSequence returns the highest sequence in
	// [lower, availableUpper] that is contiguously published starting from
	// lower. For a single-producer sequencer this is always
	// availableUpper, since the cursor only ever advances over a
	// contiguous run.
	HighestPublishedSequence(lower, availableUpper int64) int64

	// Cursor is the sequencer's published-claim counter.
	Cursor() *sequence.Sequence

	// BufferSize is the ring's fixed slot count.
	BufferSize() int64

	// AddGatingSequences registers processor sequences a producer must not
	// overrun.
	AddGatingSequences(seqs ...*sequence.Sequence)

	// RemoveGatingSequence deregisters a processor sequence, reporting
	// whether it was present.
	RemoveGatingSequence(seq *sequence.Sequence) bool

	// NewBarrier constructs a consumer barrier tracking this sequencer's
	// cursor plus the given upstream dependencies.
	NewBarrier(dependencies ...*sequence.Sequence) *Barrier
}

// base holds the state shared by both sequencer variants: the buffer's
// geometry, its cursor, its wait strategy, and its copy-on-write set of
// gating sequences.
type base struct {
	bufferSize int64
	indexMask  int64
	indexShift uint

	cursor       *sequence.Sequence
	waitStrategy wait.Strategy

	gatingSequences atomic.Pointer[[]*sequence.Sequence]
	gatingMu        sync.Mutex
}

func newBase(bufferSize int64, strategy wait.Strategy) (*base, error) {
	if bufferSize < 1 || bufferSize&(bufferSize-1) != 0 {
		return nil, disruptorerr.NewInvalidArgument("buffer size must be a power of two")
	}
	if strategy == nil {
		return nil, disruptorerr.NewInvalidArgument("wait strategy must not be nil")
	}
	b := &base{
		bufferSize:   bufferSize,
		indexMask:    bufferSize - 1,
		indexShift:   uint(bits.Len64(uint64(bufferSize)) - 1),
		cursor:       sequence.New(-1),
		waitStrategy: strategy,
	}
	empty := make([]*sequence.Sequence, 0)
	b.gatingSequences.Store(&empty)
	return b, nil
}

func (b *base) BufferSize() int64 { return b.bufferSize }

func (b *base) Cursor() *sequence.Sequence { return b.cursor }

// AddGatingSequences registers seqs under a copy-on-write swap: readers of
// the gating set (the hot path, inside Next) never take a lock.
func (b *base) AddGatingSequences(seqs ...*sequence.Sequence) {
	if len(seqs) == 0 {
		return
	}
	b.gatingMu.Lock()
	defer b.gatingMu.Unlock()
	current := *b.gatingSequences.Load()
	next := make([]*sequence.Sequence, len(current), len(current)+len(seqs))
	copy(next, current)
	next = append(next, seqs...)
	b.gatingSequences.Store(&next)
}

// RemoveGatingSequence deregisters seq, reporting whether it was present.
func (b *base) RemoveGatingSequence(seq *sequence.Sequence) bool {
	b.gatingMu.Lock()
	defer b.gatingMu.Unlock()
	current := *b.gatingSequences.Load()
	next := make([]*sequence.Sequence, 0, len(current))
	found := false
	for _, s := range current {
		if s == seq {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		return false
	}
	b.gatingSequences.Store(&next)
	return true
}

// minimumGating returns the minimum of the current gating set, or fallback
// when the set is empty (a ring with no registered consumers yet imposes no
// backpressure of its own).
func (b *base) minimumGating(fallback int64) int64 {
	gating := *b.gatingSequences.Load()
	if len(gating) == 0 {
		return fallback
	}
	m := gating[0].Get()
	for _, s := range gating[1:] {
		if v := s.Get(); v < m {
			m = v
		}
	}
	return m
}

func (b *base) dependencyCursors() []wait.Cursor {
	gating := *b.gatingSequences.Load()
	if len(gating) == 0 {
		return nil
	}
	deps := make([]wait.Cursor, len(gating))
	for i, s := range gating {
		deps[i] = s
	}
	return deps
}
