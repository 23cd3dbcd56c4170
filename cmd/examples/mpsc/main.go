// Command mpsc demonstrates a multi-producer, single-consumer fan-in
// topology: several goroutines claim sequences concurrently from the same
// ring, and one consumer drains them through a single barrier using the
// blocking wait strategy.
package main

import (
	"log"
	"sync"

	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
	_ "go.uber.org/automaxprocs"
)

const (
	producerCount    = 4
	eventsPerProducer = 5000
	totalEvents      = producerCount * eventsPerProducer
)

func main() {
	strategy := wait.NewBlocking()
	defer strategy.Close()

	r, err := ring.NewMultiProducer(4096, func() int64 { return -1 }, strategy)
	if err != nil {
		log.Fatalf("mpsc: %v", err)
	}
	consumed := sequence.New(-1)
	r.AddGatingSequences(consumed)
	barrier := r.NewBarrier()

	var wg sync.WaitGroup
	wg.Add(producerCount)
	for p := 0; p < producerCount; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := 0; i < eventsPerProducer; i++ {
				seq, err := r.Next()
				if err != nil {
					log.Fatalf("mpsc: producer %d Next: %v", p, err)
				}
				*r.Get(seq) = seq
				r.Publish(seq)
			}
		}()
	}

	seen := make(map[int64]bool, totalEvents)
	var count int
	next := int64(0)
	for count < totalEvents {
		available, err := barrier.WaitFor(next)
		if err != nil {
			log.Fatalf("mpsc: consumer WaitFor: %v", err)
		}
		for seq := next; seq <= available; seq++ {
			if seen[*r.Get(seq)] {
				log.Fatalf("mpsc: sequence %d delivered twice", seq)
			}
			seen[*r.Get(seq)] = true
			count++
		}
		consumed.Set(available)
		next = available + 1
	}

	wg.Wait()
	log.Printf("mpsc: %d producers delivered %d unique events", producerCount, len(seen))
}
