package processor

import (
	"sync"
	"testing"
	"time"

	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/wait"
)

type recordingHandler struct {
	mu       sync.Mutex
	received []int64
	lastEOB  bool
	starts   int
	shutdown int
}

func (h *recordingHandler) OnEvent(slot *int64, seq int64, endOfBatch bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, *slot)
	h.lastEOB = endOfBatch
	return nil
}

func (h *recordingHandler) OnStart() error {
	h.starts++
	return nil
}

func (h *recordingHandler) OnShutdown() error {
	h.shutdown++
	return nil
}

func (h *recordingHandler) snapshot() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, len(h.received))
	copy(out, h.received)
	return out
}

// TestBroadcastProcessorDeliversInOrder verifies that a broadcast processor
// delivers every published value exactly once, in strictly increasing
// sequence order (invariant P2).
func TestBroadcastProcessorDeliversInOrder(t *testing.T) {
	r, err := ring.NewSingleProducer(16, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		t.Fatalf("NewSingleProducer: %v", err)
	}
	handler := &recordingHandler{}
	barrier := r.NewBarrier()
	proc := NewBroadcastProcessor[int64](r.Get, barrier, handler, nil)
	r.AddGatingSequences(proc.Sequence())

	done := make(chan error, 1)
	go func() { done <- proc.Run() }()

	const total = 50
	for i := int64(0); i < total; i++ {
		seq, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		*r.Get(seq) = i
		r.Publish(seq)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if len(handler.snapshot()) == total {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only received %d/%d events", len(handler.snapshot()), total)
		}
		time.Sleep(time.Millisecond)
	}

	proc.Halt()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after Halt")
	}

	got := handler.snapshot()
	for i, v := range got {
		if v != int64(i) {
			t.Fatalf("received[%d] = %d, want %d", i, v, i)
		}
	}
	if handler.starts != 1 {
		t.Fatalf("OnStart called %d times, want 1", handler.starts)
	}
	if handler.shutdown != 1 {
		t.Fatalf("OnShutdown called %d times, want 1", handler.shutdown)
	}
}

type haltingHandler struct {
	failAt int64
}

func (h *haltingHandler) OnEvent(slot *int64, seq int64, endOfBatch bool) error {
	if seq == h.failAt {
		return errFailingHandler
	}
	return nil
}

var errFailingHandler = &fatalTestError{"handler failure injected for test"}

type fatalTestError struct{ msg string }

func (e *fatalTestError) Error() string { return e.msg }

// TestBroadcastProcessorFatalHandlerHalts verifies that with the default
// error sink, a handler failure advances the processor's sequence past the
// offending item and then halts the processor.
func TestBroadcastProcessorFatalHandlerHalts(t *testing.T) {
	r, err := ring.NewSingleProducer(16, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		t.Fatalf("NewSingleProducer: %v", err)
	}
	handler := &haltingHandler{failAt: 2}
	barrier := r.NewBarrier()
	proc := NewBroadcastProcessor[int64](r.Get, barrier, handler, nil)
	r.AddGatingSequences(proc.Sequence())

	done := make(chan error, 1)
	go func() { done <- proc.Run() }()

	for i := int64(0); i < 5; i++ {
		seq, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		r.Publish(seq)
	}

	select {
	case runErr := <-done:
		if runErr == nil {
			t.Fatal("Run() returned nil error, want a handler failure")
		}
	case <-time.After(time.Second):
		t.Fatal("processor did not halt after fatal handler error")
	}

	if proc.Sequence().Get() != 2 {
		t.Fatalf("processor sequence = %d, want 2 (advanced past the failing item)", proc.Sequence().Get())
	}
}
