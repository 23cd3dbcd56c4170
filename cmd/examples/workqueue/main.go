// Command workqueue demonstrates a bounded work-queue topology: several
// workers share one claim sequence over a ring, so every published event
// is delivered to exactly one worker rather than broadcast to all of them.
package main

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/topology"
	"github.com/arjunmehta/go-disruptor/wait"
	_ "go.uber.org/automaxprocs"
)

const (
	workerCount = 4
	totalEvents = 20000
)

type sumHandler struct {
	sum   int64
	count int64
	seen  int64
	done  chan struct{}
}

func newSumHandler() *sumHandler {
	return &sumHandler{done: make(chan struct{})}
}

func (h *sumHandler) OnEvent(slot *int64, seq int64) error {
	atomic.AddInt64(&h.sum, *slot)
	atomic.AddInt64(&h.count, 1)
	if atomic.AddInt64(&h.seen, 1) == totalEvents {
		close(h.done)
	}
	return nil
}

func main() {
	r, err := ring.NewSingleProducer(65536, func() int64 { return 0 }, wait.NewBusySpin())
	if err != nil {
		log.Fatalf("workqueue: %v", err)
	}

	handler := newSumHandler()

	endInclusive := int64(totalEvents - 1)
	pool := topology.WorkQueue[int64](r, workerCount, &endInclusive, handler)
	if err := pool.Run(); err != nil {
		log.Fatalf("workqueue: pool.Run: %v", err)
	}
	defer pool.Halt()

	for i := int64(0); i < totalEvents; i++ {
		seq, err := r.Next()
		if err != nil {
			log.Fatalf("workqueue: Next: %v", err)
		}
		*r.Get(seq) = i
		r.Publish(seq)
	}

	select {
	case <-handler.done:
	case <-time.After(10 * time.Second):
		log.Fatal("workqueue: handler never finished")
	}

	want := int64(totalEvents) * (totalEvents - 1) / 2
	if handler.sum != want {
		log.Fatalf("workqueue: sum = %d, want %d", handler.sum, want)
	}
	log.Printf("workqueue: %d workers processed %d events, sum = %d", workerCount, handler.count, handler.sum)
}
