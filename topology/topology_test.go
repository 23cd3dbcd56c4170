package topology

import (
	"sync"
	"testing"
	"time"

	"github.com/arjunmehta/go-disruptor/processor"
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/wait"
)

type stageHandler struct {
	mu     sync.Mutex
	stamps []int64
	delta  int64
}

func (h *stageHandler) OnEvent(slot *int64, seq int64, endOfBatch bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*slot += h.delta
	h.stamps = append(h.stamps, seq)
	return nil
}

func (h *stageHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stamps)
}

// TestPipelineAppliesStagesInOrder verifies a two-stage pipeline applies
// its transformations in stage order and that the second stage never runs
// ahead of the first for a given sequence.
func TestPipelineAppliesStagesInOrder(t *testing.T) {
	r, err := ring.NewSingleProducer(16, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		t.Fatalf("NewSingleProducer: %v", err)
	}
	stage1 := &stageHandler{delta: 1}
	stage2 := &stageHandler{delta: 10}
	procs := Pipeline[int64](r, stage1, stage2)

	for _, p := range procs {
		p := p
		go func() { _ = p.Run() }()
	}
	defer func() {
		for _, p := range procs {
			p.Halt()
		}
	}()

	seq, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	*r.Get(seq) = 0
	r.Publish(seq)

	deadline := time.Now().Add(time.Second)
	for stage2.seen() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("stage2 never observed the published event")
		}
		time.Sleep(time.Millisecond)
	}

	if got := *r.Get(seq); got != 11 {
		t.Fatalf("final slot value = %d, want 11 (both stages applied)", got)
	}
}

// TestDiamondJoinsAfterAllFanOut verifies a diamond topology's join stage
// only observes a sequence after every fan-out branch has processed it.
func TestDiamondJoinsAfterAllFanOut(t *testing.T) {
	r, err := ring.NewSingleProducer(16, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		t.Fatalf("NewSingleProducer: %v", err)
	}
	branchA := &stageHandler{delta: 1}
	branchB := &stageHandler{delta: 2}
	join := &stageHandler{delta: 100}

	fanOut, joinProc := Diamond[int64](r, []processor.BroadcastHandler[int64]{branchA, branchB}, join)

	all := append(append([]*processor.BroadcastProcessor[int64]{}, fanOut...), joinProc)
	for _, p := range all {
		p := p
		go func() { _ = p.Run() }()
	}
	defer func() {
		for _, p := range all {
			p.Halt()
		}
	}()

	seq, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	*r.Get(seq) = 0
	r.Publish(seq)

	deadline := time.Now().Add(time.Second)
	for join.seen() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("join never observed the published event")
		}
		time.Sleep(time.Millisecond)
	}

	if branchA.seen() != 1 || branchB.seen() != 1 {
		t.Fatalf("fan-out branches saw %d/%d events, want 1/1", branchA.seen(), branchB.seen())
	}
	if got := *r.Get(seq); got != 103 {
		t.Fatalf("final slot value = %d, want 103 (both branches plus join applied)", got)
	}
}

// TestWorkQueueBoundedPool verifies WorkQueue's builder wires gating
// sequences correctly for a bounded pool, matching processor's own
// exactly-once test but exercised through the topology constructor.
func TestWorkQueueBoundedPool(t *testing.T) {
	r, err := ring.NewSingleProducer(32, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		t.Fatalf("NewSingleProducer: %v", err)
	}

	var mu sync.Mutex
	received := make(map[int64]bool)
	handler := workHandlerFunc(func(slot *int64, seq int64) error {
		mu.Lock()
		received[seq] = true
		mu.Unlock()
		return nil
	})

	const total = 20
	endInclusive := int64(total - 1)
	pool := WorkQueue[int64](r, 3, &endInclusive, handler)
	if err := pool.Run(); err != nil {
		t.Fatalf("pool.Run: %v", err)
	}
	defer pool.Halt()

	for i := int64(0); i < total; i++ {
		seq, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		r.Publish(seq)
	}

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n == total {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only received %d/%d sequences", n, total)
		}
		time.Sleep(time.Millisecond)
	}
}

type workHandlerFunc func(slot *int64, seq int64) error

func (f workHandlerFunc) OnEvent(slot *int64, seq int64) error { return f(slot, seq) }
