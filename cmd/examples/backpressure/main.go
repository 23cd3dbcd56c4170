// Command backpressure demonstrates that a producer blocks in Next once a
// small ring fills up, resuming only as the consumer's gating sequence
// advances, and that every event is still delivered in order once it does.
package main

import (
	"log"
	"time"

	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
	_ "go.uber.org/automaxprocs"
)

const (
	bufferSize    = 4
	eventCount    = 100
	perEventDelay = 10 * time.Millisecond
)

func main() {
	r, err := ring.NewSingleProducer(bufferSize, func() int64 { return -1 }, wait.NewSleeping())
	if err != nil {
		log.Fatalf("backpressure: %v", err)
	}
	consumed := sequence.New(-1)
	r.AddGatingSequences(consumed)
	barrier := r.NewBarrier()

	delivered := make(chan int64, eventCount)
	go func() {
		next := int64(0)
		for next < eventCount {
			available, err := barrier.WaitFor(next)
			if err != nil {
				log.Fatalf("backpressure: consumer WaitFor: %v", err)
			}
			for seq := next; seq <= available; seq++ {
				time.Sleep(perEventDelay) // deliberately slower than the producer
				delivered <- *r.Get(seq)
				consumed.Set(seq)
			}
			next = available + 1
		}
		close(delivered)
	}()

	producerStart := time.Now()
	for i := int64(0); i < eventCount; i++ {
		seq, err := r.Next()
		if err != nil {
			log.Fatalf("backpressure: producer Next: %v", err)
		}
		*r.Get(seq) = i
		r.Publish(seq)
	}
	producerElapsed := time.Since(producerStart)

	// With a 4-slot ring and a 10ms-per-event consumer, a producer that
	// finishes 100 publishes without ever blocking would indicate gating
	// isn't actually applying backpressure.
	minExpected := (eventCount - bufferSize) * perEventDelay / 2
	if producerElapsed < minExpected {
		log.Fatalf("backpressure: producer finished in %v, expected to block for at least %v", producerElapsed, minExpected)
	}

	i := int64(0)
	for v := range delivered {
		if v != i {
			log.Fatalf("backpressure: delivered[%d] = %d, want %d", i, v, i)
		}
		i++
	}
	if i != eventCount {
		log.Fatalf("backpressure: delivered %d events, want %d", i, eventCount)
	}
	log.Printf("backpressure: producer blocked for %v while delivering %d events in order", producerElapsed, eventCount)
}
