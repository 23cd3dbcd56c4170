package ring

// BatchPublisher wraps a Ring so a producer can claim a run of slots, fill
// each one by index, and issue a single publish call at the end, without
// hand-tracking the claimed range itself. It is a thin convenience layer:
// everything it does is also reachable through Ring's own Next/Get/Publish
// methods directly.
type BatchPublisher[T any] struct {
	ring *Ring[T]
	lo   int64
	hi   int64
}

// NewBatchPublisher wraps ring for batched claim/fill/publish use.
func NewBatchPublisher[T any](ring *Ring[T]) *BatchPublisher[T] {
	return &BatchPublisher[T]{ring: ring}
}

// Claim blocks until n contiguous slots are available and remembers the
// claimed range for a subsequent Publish.
func (p *BatchPublisher[T]) Claim(n int64) error {
	hi, err := p.ring.NextN(n)
	if err != nil {
		return err
	}
	p.hi = hi
	p.lo = hi - n + 1
	return nil
}

// TryClaim behaves like Claim but fails fast instead of waiting.
func (p *BatchPublisher[T]) TryClaim(n int64) error {
	hi, err := p.ring.TryNextN(n)
	if err != nil {
		return err
	}
	p.hi = hi
	p.lo = hi - n + 1
	return nil
}

// Slot returns a pointer to the i'th slot (0-indexed) of the most recent
// claim.
func (p *BatchPublisher[T]) Slot(i int64) *T {
	return p.ring.Get(p.lo + i)
}

// Range returns the inclusive [lo, hi] sequence bounds of the most recent
// claim, for callers that want to address slots by absolute sequence
// rather than by offset.
func (p *BatchPublisher[T]) Range() (lo, hi int64) {
	return p.lo, p.hi
}

// Publish makes the most recently claimed range visible to consumers.
func (p *BatchPublisher[T]) Publish() {
	p.ring.PublishRange(p.lo, p.hi)
}
