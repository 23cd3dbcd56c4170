package ring

import (
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
)

// Ring is a preallocated circular buffer of bufferSize slots of type T,
// coordinated by a Sequencer. Slots are constructed once at construction
// time via factory and live for the ring's lifetime; producers and
// consumers exchange data by writing into and reading from *T obtained via
// Get, never by copying T through a channel.
type Ring[T any] struct {
	slots     []T
	indexMask int64
	sequencer Sequencer
}

// NewSingleProducer constructs a Ring backed by a SingleProducerSequencer,
// appropriate when exactly one goroutine will ever call Next/TryNext.
func NewSingleProducer[T any](bufferSize int64, factory func() T, strategy wait.Strategy) (*Ring[T], error) {
	seq, err := NewSingleProducerSequencer(bufferSize, strategy)
	if err != nil {
		return nil, err
	}
	return newRing(bufferSize, factory, seq), nil
}

// NewMultiProducer constructs a Ring backed by a MultiProducerSequencer,
// safe for concurrent Next/TryNext calls from more than one goroutine.
func NewMultiProducer[T any](bufferSize int64, factory func() T, strategy wait.Strategy) (*Ring[T], error) {
	seq, err := NewMultiProducerSequencer(bufferSize, strategy)
	if err != nil {
		return nil, err
	}
	return newRing(bufferSize, factory, seq), nil
}

func newRing[T any](bufferSize int64, factory func() T, seq Sequencer) *Ring[T] {
	slots := make([]T, bufferSize)
	for i := range slots {
		slots[i] = factory()
	}
	return &Ring[T]{
		slots:     slots,
		indexMask: bufferSize - 1,
		sequencer: seq,
	}
}

// Next claims the single next sequence, blocking until the ring has room.
func (r *Ring[T]) Next() (int64, error) {
	return r.sequencer.Next(1)
}

// NextN claims n contiguous sequences, blocking until the ring has room,
// and returns the highest sequence in the claimed range.
func (r *Ring[T]) NextN(n int64) (int64, error) {
	return r.sequencer.Next(n)
}

// TryNext behaves like Next but fails fast with
// disruptorerr.ErrInsufficientCapacity instead of waiting.
func (r *Ring[T]) TryNext() (int64, error) {
	return r.sequencer.TryNext(1)
}

// TryNextN behaves like NextN but fails fast instead of waiting.
func (r *Ring[T]) TryNextN(n int64) (int64, error) {
	return r.sequencer.TryNext(n)
}

// Get returns a pointer into the ring's backing slice for seq. The caller
// must hold a valid claim on seq (own it via Next/NextN, or have a barrier
// wait that has returned at least seq) before reading or writing through
// it; the ring itself does not enforce this discipline, matching every
// generic ring/queue in the retrieval pack.
func (r *Ring[T]) Get(seq int64) *T {
	return &r.slots[seq&r.indexMask]
}

// Publish makes seq visible to consumers.
func (r *Ring[T]) Publish(seq int64) {
	r.sequencer.Publish(seq, seq)
}

// PublishRange makes every sequence in [lo, hi] visible to consumers in a
// single call, one wake-up instead of one per sequence.
func (r *Ring[T]) PublishRange(lo, hi int64) {
	r.sequencer.Publish(lo, hi)
}

// IsAvailable reports whether seq has been published.
func (r *Ring[T]) IsAvailable(seq int64) bool {
	return r.sequencer.IsAvailable(seq)
}

// NewBarrier constructs a consumer barrier tracking this ring's cursor plus
// the given upstream processor sequences.
func (r *Ring[T]) NewBarrier(dependencies ...*sequence.Sequence) *Barrier {
	return r.sequencer.NewBarrier(dependencies...)
}

// AddGatingSequences registers processor sequences the producer(s) must not
// overrun.
func (r *Ring[T]) AddGatingSequences(seqs ...*sequence.Sequence) {
	r.sequencer.AddGatingSequences(seqs...)
}

// RemoveGatingSequence deregisters a processor sequence, reporting whether
// it was present.
func (r *Ring[T]) RemoveGatingSequence(seq *sequence.Sequence) bool {
	return r.sequencer.RemoveGatingSequence(seq)
}

// BufferSize is the ring's fixed slot count.
func (r *Ring[T]) BufferSize() int64 {
	return r.sequencer.BufferSize()
}

// Cursor is the ring's underlying published/claimed sequence counter.
func (r *Ring[T]) Cursor() *sequence.Sequence {
	return r.sequencer.Cursor()
}

// SequencerOf exposes the underlying Sequencer for callers building
// specialized topology wiring beyond what Ring's own methods cover.
func (r *Ring[T]) SequencerOf() Sequencer {
	return r.sequencer
}
