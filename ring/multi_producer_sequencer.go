package ring

import (
	"runtime"
	"sync/atomic"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
)

// unavailable marks an availability-buffer slot that has never been
// published in the current lap, so IsAvailable never mistakes a stale
// value for a genuine match: -1 cannot equal any real availability flag,
// which is always >= 0.
const unavailable = -1

// MultiProducerSequencer coordinates a ring shared by more than one
// producer goroutine. The embedded base.cursor doubles as the shared claim
// counter here (design: "cursor (shared claim counter)"); per-slot
// publication is tracked separately in availableBuffer, since claims from
// different producers can complete out of order and the claim counter
// alone cannot tell a barrier what has actually been written.
type MultiProducerSequencer struct {
	*base

	cachedGatingSequence atomic.Int64
	availableBuffer      []atomic.Int32
}

// NewMultiProducerSequencer constructs a sequencer for a ring with more
// than one producer.
func NewMultiProducerSequencer(bufferSize int64, strategy wait.Strategy) (*MultiProducerSequencer, error) {
	b, err := newBase(bufferSize, strategy)
	if err != nil {
		return nil, err
	}
	m := &MultiProducerSequencer{
		base:            b,
		availableBuffer: make([]atomic.Int32, bufferSize),
	}
	m.cachedGatingSequence.Store(-1)
	for i := range m.availableBuffer {
		m.availableBuffer[i].Store(unavailable)
	}
	return m, nil
}

// Next claims n contiguous sequences via a CAS-loop rather than a raw
// fetch-add: per the design's resolved Open Question, a CAS-loop can
// re-check the wrap point on every retry and back off without ever pinning
// a claim it later has to un-claim, which a fetch-add cannot do once it has
// unconditionally reserved the range.
func (m *MultiProducerSequencer) Next(n int64) (int64, error) {
	if n < 1 || n > m.bufferSize {
		return -1, disruptorerr.NewInvalidArgument("claim size out of range")
	}
	for {
		current := m.cursor.Get()
		nextSeq := current + n
		wrapPoint := nextSeq - m.bufferSize

		cachedGating := m.cachedGatingSequence.Load()
		if wrapPoint > cachedGating || cachedGating > current {
			gating := m.minimumGating(current)
			if wrapPoint > gating {
				m.waitStrategy.SignalAllWhenBlocking()
				runtime.Gosched()
				continue
			}
			m.cachedGatingSequence.Store(gating)
		}
		if m.cursor.CompareAndSwap(current, nextSeq) {
			return nextSeq, nil
		}
	}
}

// TryNext behaves like Next but fails fast with
// disruptorerr.ErrInsufficientCapacity instead of spinning on gating
// progress.
func (m *MultiProducerSequencer) TryNext(n int64) (int64, error) {
	if n < 1 || n > m.bufferSize {
		return -1, disruptorerr.NewInvalidArgument("claim size out of range")
	}
	for {
		current := m.cursor.Get()
		nextSeq := current + n
		wrapPoint := nextSeq - m.bufferSize

		gating := m.minimumGating(current)
		if wrapPoint > gating {
			return -1, disruptorerr.NewInsufficientCapacity("ring buffer full")
		}
		if m.cursor.CompareAndSwap(current, nextSeq) {
			m.cachedGatingSequence.Store(gating)
			return nextSeq, nil
		}
	}
}

// Publish marks every sequence in [lo, hi] as available in the current lap
// and wakes any waiting consumer barrier.
func (m *MultiProducerSequencer) Publish(lo, hi int64) {
	for s := lo; s <= hi; s++ {
		m.setAvailable(s)
	}
	m.waitStrategy.SignalAllWhenBlocking()
}

func (m *MultiProducerSequencer) setAvailable(seq int64) {
	m.availableBuffer[seq&m.indexMask].Store(int32(seq >> m.indexShift))
}

// IsAvailable reports whether seq has been published: its slot in
// availableBuffer must carry the availability flag for seq's own lap, not a
// stale flag left over from wrapping around the buffer.
func (m *MultiProducerSequencer) IsAvailable(seq int64) bool {
	flag := int32(seq >> m.indexShift)
	return m.availableBuffer[seq&m.indexMask].Load() == flag
}

// HighestPublishedSequence scans forward from lower for the first gap in
// publication and returns the sequence just before it (or lower-1 if lower
// itself is unpublished), since claims from independent producers can
// commit out of order and a barrier must never hand a consumer a sequence
// it cannot yet read.
func (m *MultiProducerSequencer) HighestPublishedSequence(lower, availableUpper int64) int64 {
	for seq := lower; seq <= availableUpper; seq++ {
		if !m.IsAvailable(seq) {
			return seq - 1
		}
	}
	return availableUpper
}

// NewBarrier constructs a consumer barrier over this sequencer's claim
// cursor and the given upstream dependencies. The claim cursor tracks
// claims, not publication, so the barrier's HighestPublishedSequence
// reconciliation against availableBuffer is what actually gates consumers.
func (m *MultiProducerSequencer) NewBarrier(dependencies ...*sequence.Sequence) *Barrier {
	return newBarrier(m.cursor, dependencies, m.waitStrategy, m)
}
