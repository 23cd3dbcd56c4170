package ring

import (
	"runtime"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
)

// SingleProducerSequencer coordinates a ring with exactly one producer
// goroutine. nextValue and cachedGating are plain int64s, not atomics: the
// design calls them "non-shared thread-locals to the sole producer", and
// since only that one goroutine ever reads or writes them there is nothing
// to synchronize.
type SingleProducerSequencer struct {
	*base

	nextValue    int64
	cachedGating int64
}

// NewSingleProducerSequencer constructs a sequencer for a ring with a
// single producer, using strategy for both producer backpressure waits and
// consumer barriers built from it.
func NewSingleProducerSequencer(bufferSize int64, strategy wait.Strategy) (*SingleProducerSequencer, error) {
	b, err := newBase(bufferSize, strategy)
	if err != nil {
		return nil, err
	}
	return &SingleProducerSequencer{
		base:         b,
		nextValue:    -1,
		cachedGating: -1,
	}, nil
}

func (s *SingleProducerSequencer) Next(n int64) (int64, error) {
	if n < 1 || n > s.bufferSize {
		return -1, disruptorerr.NewInvalidArgument("claim size out of range")
	}
	nextSeq := s.nextValue + n
	wrapPoint := nextSeq - s.bufferSize

	if wrapPoint > s.cachedGating || s.cachedGating > s.nextValue {
		s.cursor.SetVolatile(s.nextValue)
		for {
			gating := s.minimumGating(s.nextValue)
			if wrapPoint <= gating {
				s.cachedGating = gating
				break
			}
			s.waitStrategy.SignalAllWhenBlocking()
			runtime.Gosched()
		}
	}
	s.nextValue = nextSeq
	return nextSeq, nil
}

// TryNext behaves like Next but fails fast rather than spinning when the
// ring has no room for the claim.
func (s *SingleProducerSequencer) TryNext(n int64) (int64, error) {
	if n < 1 || n > s.bufferSize {
		return -1, disruptorerr.NewInvalidArgument("claim size out of range")
	}
	nextSeq := s.nextValue + n
	wrapPoint := nextSeq - s.bufferSize

	gating := s.cachedGating
	if wrapPoint > gating || gating > s.nextValue {
		gating = s.minimumGating(s.nextValue)
		s.cachedGating = gating
		if wrapPoint > gating {
			return -1, disruptorerr.NewInsufficientCapacity("ring buffer full")
		}
	}
	s.nextValue = nextSeq
	return nextSeq, nil
}

// Publish advances the cursor to hi (the range [lo, hi] was claimed as one
// contiguous run by the sole producer, so nothing per-slot needs marking)
// and wakes any waiting consumer barrier.
func (s *SingleProducerSequencer) Publish(lo, hi int64) {
	s.cursor.SetVolatile(hi)
	s.waitStrategy.SignalAllWhenBlocking()
}

// IsAvailable reports whether seq has been published and its slot has not
// since been overwritten by the ring wrapping past it.
func (s *SingleProducerSequencer) IsAvailable(seq int64) bool {
	cursor := s.cursor.Get()
	return seq <= cursor && seq > cursor-s.bufferSize
}

// HighestPublishedSequence is the identity function on availableUpper: a
// single producer only ever advances the cursor over a run it has already
// fully written, so there is never a gap to scan for.
func (s *SingleProducerSequencer) HighestPublishedSequence(lower, availableUpper int64) int64 {
	return availableUpper
}

// NewBarrier constructs a consumer barrier over this sequencer's cursor and
// the given upstream dependencies.
func (s *SingleProducerSequencer) NewBarrier(dependencies ...*sequence.Sequence) *Barrier {
	return newBarrier(s.cursor, dependencies, s.waitStrategy, s)
}
