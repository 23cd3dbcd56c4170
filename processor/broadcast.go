package processor

import (
	"fmt"
	"sync/atomic"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/google/uuid"
)

// BroadcastProcessor drives one handler over a barrier, delivering every
// published sequence in order. Its own sequence should be registered as a
// gating sequence on the ring (or on whichever ring feeds its barrier) so
// producers never overwrite a slot this processor has not yet read.
type BroadcastProcessor[T any] struct {
	id      uuid.UUID
	getSlot func(seq int64) *T
	barrier *ring.Barrier
	handler BroadcastHandler[T]
	sink    ErrorSink[T]

	sequence *sequence.Sequence
	running  atomic.Bool
}

// NewBroadcastProcessor constructs a processor that reads slots via
// getSlot (typically ring.Ring[T].Get), waits on barrier, and delivers each
// one to handler. sink may be nil, in which case DefaultErrorSink is used.
func NewBroadcastProcessor[T any](getSlot func(seq int64) *T, barrier *ring.Barrier, handler BroadcastHandler[T], sink ErrorSink[T]) *BroadcastProcessor[T] {
	if sink == nil {
		sink = DefaultErrorSink[T]{}
	}
	return &BroadcastProcessor[T]{
		id:       uuid.New(),
		getSlot:  getSlot,
		barrier:  barrier,
		handler:  handler,
		sink:     sink,
		sequence: sequence.New(-1),
	}
}

// ID is a stable diagnostic identifier for this processor, surfaced in log
// fields and panic messages so a multi-processor topology's failures can be
// told apart without repurposing the sequence space for identity.
func (p *BroadcastProcessor[T]) ID() uuid.UUID {
	return p.id
}

// Sequence is this processor's own progress counter, meant to be registered
// as a gating sequence on the ring it reads from.
func (p *BroadcastProcessor[T]) Sequence() *sequence.Sequence {
	return p.sequence
}

// IsRunning reports whether Run is currently executing this processor's
// loop.
func (p *BroadcastProcessor[T]) IsRunning() bool {
	return p.running.Load()
}

// Run drives the processor's delivery loop until Halt is called or a fatal
// handler error is reported by the sink. It blocks the calling goroutine;
// callers typically invoke it via `go processor.Run()`.
func (p *BroadcastProcessor[T]) Run() error {
	p.running.Store(true)
	p.barrier.ClearAlert()

	if starter, ok := p.handler.(StartHandler); ok {
		if err := starter.OnStart(); err != nil {
			if p.sink.HandleOnStartException(err) {
				p.running.Store(false)
				return err
			}
		}
	}

	next := p.sequence.Get() + 1
	var runErr error

loop:
	for p.running.Load() {
		available, err := p.barrier.WaitFor(next)
		if err != nil {
			if err == disruptorerr.ErrAlerted {
				continue
			}
			runErr = err
			break loop
		}

		for seq := next; seq <= available; seq++ {
			slot := p.getSlot(seq)
			if evtErr := p.deliver(slot, seq, seq == available); evtErr != nil {
				halt := p.sink.HandleEventException(evtErr, seq, slot)
				p.sequence.Set(seq)
				if halt {
					runErr = &disruptorerr.HandlerError{Cause: evtErr, Sequence: seq, Slot: slot}
					p.running.Store(false)
					break loop
				}
				continue
			}
			p.sequence.Set(seq)
		}
		next = available + 1
	}

	if shutdowner, ok := p.handler.(ShutdownHandler); ok {
		if err := shutdowner.OnShutdown(); err != nil {
			p.sink.HandleOnShutdownException(err)
		}
	}
	p.running.Store(false)
	return runErr
}

// deliver invokes the handler, converting a panic into an error so one
// misbehaving handler cannot take down the whole processor goroutine
// silently.
func (p *BroadcastProcessor[T]) deliver(slot *T, seq int64, endOfBatch bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic in processor %s: %v", p.id, r)
		}
	}()
	return p.handler.OnEvent(slot, seq, endOfBatch)
}

// Halt clears the running flag and alerts the barrier so a blocked WaitFor
// returns promptly. Idempotent.
func (p *BroadcastProcessor[T]) Halt() {
	p.running.Store(false)
	p.barrier.Alert()
}
