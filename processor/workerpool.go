package processor

import (
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/runner"
	"github.com/arjunmehta/go-disruptor/sequence"
)

// WorkerPool owns a set of WorkProcessors sharing a single claim sequence,
// so a ring's published sequences are fanned out to exactly one worker
// each rather than broadcast to all of them.
type WorkerPool[T any] struct {
	workers []*WorkProcessor[T]
	claim   *sequence.Sequence
	run     runner.Runner
}

// NewWorkerPool constructs a pool of workerCount WorkProcessors reading
// from the same barrier and sharing one claim sequence. endInclusive, when
// non-nil, bounds the total range of sequences the pool will ever process.
// run controls how each worker's Run loop is launched (runner.Default() by
// default, or an ants-backed runner.PoolRunner for goroutine reuse across
// many short-lived pools).
func NewWorkerPool[T any](getSlot func(seq int64) *T, barrier *ring.Barrier, handler WorkHandler[T], workerCount int, endInclusive *int64, run runner.Runner) *WorkerPool[T] {
	if run == nil {
		run = runner.Default()
	}
	claim := sequence.New(-1)
	workers := make([]*WorkProcessor[T], workerCount)
	for i := range workers {
		workers[i] = NewWorkProcessor(getSlot, barrier, handler, claim, endInclusive)
	}
	return &WorkerPool[T]{workers: workers, claim: claim, run: run}
}

// Workers exposes the pool's WorkProcessors; each one's Sequence is meant
// to be registered as a gating sequence on the ring the pool reads from.
func (p *WorkerPool[T]) Workers() []*WorkProcessor[T] {
	return p.workers
}

// Run launches every worker's loop via the pool's runner and returns
// immediately; it does not block on worker completion.
func (p *WorkerPool[T]) Run() error {
	for _, w := range p.workers {
		w := w
		if err := p.run.Go(w.Run); err != nil {
			return err
		}
	}
	return nil
}

// Halt stops every worker in the pool. Idempotent.
func (p *WorkerPool[T]) Halt() {
	for _, w := range p.workers {
		w.Halt()
	}
}
