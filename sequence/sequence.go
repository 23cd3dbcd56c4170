// Package sequence provides the cache-line-isolated monotonic counter that
// every producer, cursor, and processor in the ring is built on top of.
//
// The layout follows the padded-counter idiom used across this codebase's
// sibling concurrency primitives (compare huangsc-matcher's Sequence and
// abaxoth0-Sentinel's sequence, both of which pad a single atomic word to a
// cache line): pad bytes are placed on both sides of the counter so that a
// Sequence embedded anywhere in a larger struct never shares a cache line
// with its neighbors, in either direction.
package sequence

import "sync/atomic"

// cacheLineSize is the assumed CPU cache line size on the target
// architectures (amd64 and arm64 both use 64 bytes).
const cacheLineSize = 64

// Sequence is a monotonic 64-bit counter. The zero value is not ready for
// use; construct one with New.
//
// Go's sync/atomic already gives every load and store on these types the
// acquire/release semantics the design calls for, so Get/Set map directly
// onto atomic.Int64.Load/Store without any extra fencing.
type Sequence struct {
	_     [cacheLineSize - 8]byte
	value atomic.Int64
	_     [cacheLineSize - 8]byte
}

// New returns a Sequence initialized to the given value. Fresh cursors and
// processor sequences are conventionally started at -1, meaning "nothing
// has been published or consumed yet".
func New(initial int64) *Sequence {
	s := &Sequence{}
	s.value.Store(initial)
	return s
}

// Get loads the current value with acquire ordering.
func (s *Sequence) Get() int64 {
	return s.value.Load()
}

// Set stores v with release ordering, publishing every write that
// happened-before this call to any goroutine that subsequently calls Get
// and observes v.
func (s *Sequence) Set(v int64) {
	s.value.Store(v)
}

// SetRelaxed stores v without the caller relying on any particular
// visibility ordering to other memory. On Go's atomic types this is the
// same instruction as Set; the distinct name exists so call sites document
// which guarantee they actually depend on, matching the source design's
// separation of setRelaxed from the ordered set.
func (s *Sequence) SetRelaxed(v int64) {
	s.value.Store(v)
}

// SetVolatile stores v with release ordering. On architectures without a
// separate release-store instruction the Go runtime already emits a full
// fence for atomic stores, so this is equivalent to Set; it is kept as a
// distinct method to preserve the source design's naming at call sites that
// depend on the stronger guarantee.
func (s *Sequence) SetVolatile(v int64) {
	s.value.Store(v)
}

// CompareAndSwap atomically sets the value to desired if the current value
// equals expected, and reports whether it did so.
func (s *Sequence) CompareAndSwap(expected, desired int64) bool {
	return s.value.CompareAndSwap(expected, desired)
}

// IncrementAndGet atomically adds one and returns the new value.
func (s *Sequence) IncrementAndGet() int64 {
	return s.value.Add(1)
}

// AddAndGet atomically adds delta and returns the new value.
func (s *Sequence) AddAndGet(delta int64) int64 {
	return s.value.Add(delta)
}

// GetAndAdd atomically adds delta and returns the value prior to the add.
func (s *Sequence) GetAndAdd(delta int64) int64 {
	return s.value.Add(delta) - delta
}
