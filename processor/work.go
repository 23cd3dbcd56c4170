package processor

import (
	"fmt"
	"sync/atomic"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/google/uuid"
)

// claimBatchSize is how many sequences a WorkProcessor draws from the
// shared claim sequence at a time. A larger batch cuts contention on the
// claim sequence at the cost of coarser load balancing across workers.
const claimBatchSize = 1

// WorkProcessor is one worker in a WorkerPool: it draws work by advancing a
// claim sequence *shared* across every worker in the pool, so each
// published sequence is delivered to exactly one worker.
type WorkProcessor[T any] struct {
	id      uuid.UUID
	getSlot func(seq int64) *T
	barrier *ring.Barrier
	handler WorkHandler[T]

	claim        *sequence.Sequence
	endInclusive *int64

	sequence *sequence.Sequence
	running  atomic.Bool
}

// NewWorkProcessor constructs a worker sharing claim with its siblings in
// the same pool. endInclusive, when non-nil, bounds the range of sequences
// this pool will ever process; the worker exits once its claim exceeds it.
func NewWorkProcessor[T any](getSlot func(seq int64) *T, barrier *ring.Barrier, handler WorkHandler[T], claim *sequence.Sequence, endInclusive *int64) *WorkProcessor[T] {
	return &WorkProcessor[T]{
		id:           uuid.New(),
		getSlot:      getSlot,
		barrier:      barrier,
		handler:      handler,
		claim:        claim,
		endInclusive: endInclusive,
		sequence:     sequence.New(-1),
	}
}

// ID is a stable diagnostic identifier for this worker.
func (p *WorkProcessor[T]) ID() uuid.UUID {
	return p.id
}

// Sequence is this worker's own progress counter, meant to be registered
// as a gating sequence on the ring it reads from.
func (p *WorkProcessor[T]) Sequence() *sequence.Sequence {
	return p.sequence
}

// IsRunning reports whether Run is currently executing this worker's loop.
func (p *WorkProcessor[T]) IsRunning() bool {
	return p.running.Load()
}

// Run drives the worker's claim/wait/deliver loop until Halt is called or
// endInclusive is exhausted. It blocks the calling goroutine.
func (p *WorkProcessor[T]) Run() {
	p.running.Store(true)
	p.barrier.ClearAlert()

	if starter, ok := p.handler.(StartHandler); ok {
		_ = starter.OnStart()
	}

	for p.running.Load() {
		base := p.claim.AddAndGet(claimBatchSize) - claimBatchSize
		claimLo, claimHi := base+1, base+claimBatchSize

		if p.endInclusive != nil && claimLo > *p.endInclusive {
			break
		}
		if p.endInclusive != nil && claimHi > *p.endInclusive {
			claimHi = *p.endInclusive
		}

		// Every sequence below this claim was claimed by some worker, and
		// each of those workers gates the ring on its own sequence, so this
		// worker no longer holds anything below claimLo. Publishing that
		// here keeps a worker parked on an unpublished claim from pinning
		// the producer behind a stale, lower sequence.
		p.sequence.Set(claimLo - 1)

		// A claim is only ours once every sequence in [claimLo, claimHi] has
		// actually been published, not merely once the barrier's cursor
		// (which, under a multi-producer sequencer, tracks claims rather
		// than publications) reaches claimHi. Re-wait on this same claim
		// until it is fully delivered before drawing the next one, or a
		// slow producer's sequence is abandoned and silently dropped.
		delivered := claimLo
		for delivered <= claimHi && p.running.Load() {
			available, err := p.barrier.WaitFor(claimHi)
			if err != nil {
				if err == disruptorerr.ErrAlerted {
					if !p.running.Load() {
						break
					}
					continue
				}
				p.running.Store(false)
				break
			}
			if available > claimHi {
				available = claimHi
			}

			for seq := delivered; seq <= available; seq++ {
				slot := p.getSlot(seq)
				if evtErr := p.deliver(slot, seq); evtErr != nil {
					// Work-queue handler failures are swallowed to keep the
					// pool progressing: stalling here would block every
					// downstream processor sharing this ring.
					logDropped(evtErr, seq)
				}
				p.sequence.Set(seq)
			}
			delivered = available + 1
		}

		if p.endInclusive != nil && claimHi >= *p.endInclusive {
			break
		}
	}

	if shutdowner, ok := p.handler.(ShutdownHandler); ok {
		_ = shutdowner.OnShutdown()
	}
	p.running.Store(false)
}

func (p *WorkProcessor[T]) deliver(slot *T, seq int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic in worker %s: %v", p.id, r)
		}
	}()
	return p.handler.OnEvent(slot, seq)
}

// Halt clears the running flag and alerts the barrier so a blocked WaitFor
// returns promptly. Idempotent.
func (p *WorkProcessor[T]) Halt() {
	p.running.Store(false)
	p.barrier.Alert()
}
