// Package topology composes ring, barrier, and processor primitives into
// the six named shapes the core is meant to support: single-producer /
// single-consumer falls out of a ring with one broadcast processor;
// single-producer broadcast, pipeline, diamond, and work-queue each need a
// small amount of wiring this package supplies.
//
// None of this is a new subsystem: every builder here is composition over
// ring.Ring, ring.Barrier, and the processor package's exported types,
// generalized from one hardcoded topology into a family of constructors so
// callers don't have to hand-wire gating sequences and barriers themselves
// for each shape.
package topology

import (
	"context"

	"github.com/arjunmehta/go-disruptor/processor"
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"golang.org/x/sync/errgroup"
)

// SingleProducerBroadcast attaches one BroadcastProcessor per handler, each
// reading directly off r's cursor with no dependency on any other
// processor, and registers every one of them as a gating sequence on r.
// With a single handler this is also how a plain SPSC pipeline is built.
func SingleProducerBroadcast[T any](r *ring.Ring[T], handlers ...processor.BroadcastHandler[T]) []*processor.BroadcastProcessor[T] {
	procs := make([]*processor.BroadcastProcessor[T], len(handlers))
	for i, h := range handlers {
		barrier := r.NewBarrier()
		procs[i] = processor.NewBroadcastProcessor[T](r.Get, barrier, h, nil)
		r.AddGatingSequences(procs[i].Sequence())
	}
	return procs
}

// Pipeline chains stages so that stage i's barrier depends on stage i-1's
// sequence, and only the last stage gates the ring itself. An item is not
// eligible for slot reuse until every stage has finished with it.
func Pipeline[T any](r *ring.Ring[T], stages ...processor.BroadcastHandler[T]) []*processor.BroadcastProcessor[T] {
	procs := make([]*processor.BroadcastProcessor[T], len(stages))
	var upstream []*sequence.Sequence
	for i, h := range stages {
		barrier := r.NewBarrier(upstream...)
		procs[i] = processor.NewBroadcastProcessor[T](r.Get, barrier, h, nil)
		upstream = []*sequence.Sequence{procs[i].Sequence()}
	}
	if len(procs) > 0 {
		r.AddGatingSequences(procs[len(procs)-1].Sequence())
	}
	return procs
}

// Diamond fans a ring out to every handler in fanOut in parallel, then
// joins them into join once every fan-out stage has processed a given
// sequence. Only the join processor gates the ring; the fan-out processors
// are only gated by the join's dependency on them, not directly on the
// ring, since the join barrier already enforces that they lag no further
// behind the ring than the join itself requires.
func Diamond[T any](r *ring.Ring[T], fanOut []processor.BroadcastHandler[T], join processor.BroadcastHandler[T]) (fanOutProcs []*processor.BroadcastProcessor[T], joinProc *processor.BroadcastProcessor[T]) {
	fanOutProcs = make([]*processor.BroadcastProcessor[T], len(fanOut))
	deps := make([]*sequence.Sequence, len(fanOut))
	for i, h := range fanOut {
		barrier := r.NewBarrier()
		fanOutProcs[i] = processor.NewBroadcastProcessor[T](r.Get, barrier, h, nil)
		deps[i] = fanOutProcs[i].Sequence()
	}
	joinBarrier := r.NewBarrier(deps...)
	joinProc = processor.NewBroadcastProcessor[T](r.Get, joinBarrier, join, nil)
	r.AddGatingSequences(joinProc.Sequence())
	return fanOutProcs, joinProc
}

// WorkQueue builds a worker pool of workerCount workers sharing one claim
// sequence over r, each worker sequence gating r directly. endInclusive,
// when non-nil, bounds the total range of sequences the pool will process.
func WorkQueue[T any](r *ring.Ring[T], workerCount int, endInclusive *int64, handler processor.WorkHandler[T]) *processor.WorkerPool[T] {
	barrier := r.NewBarrier()
	pool := processor.NewWorkerPool[T](r.Get, barrier, handler, workerCount, endInclusive, nil)
	for _, w := range pool.Workers() {
		r.AddGatingSequences(w.Sequence())
	}
	return pool
}

// runnable is the shape Run needs from each processor: a Run method that
// blocks until the processor stops, as BroadcastProcessor's does.
// WorkerPool.Run has the same signature but returns as soon as its workers
// are launched, so Run does not wait on a pool's workers.
type runnable interface {
	Run() error
}

// Run starts every processor in procs on its own goroutine via an
// errgroup, and blocks until ctx is cancelled or one of them returns a
// non-nil error, at which point every remaining processor is halted.
func Run(ctx context.Context, halters []interface{ Halt() }, procs ...runnable) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range procs {
		p := p
		g.Go(p.Run)
	}
	go func() {
		<-ctx.Done()
		for _, h := range halters {
			h.Halt()
		}
	}()
	return g.Wait()
}
