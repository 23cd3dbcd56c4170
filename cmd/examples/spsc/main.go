// Command spsc demonstrates the simplest topology this module supports: a
// single producer and a single consumer sharing one ring, with no
// contention at all on either side.
package main

import (
	"log"

	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/sequence"
	"github.com/arjunmehta/go-disruptor/wait"
	_ "go.uber.org/automaxprocs"
)

const eventCount = 10000

type payload struct {
	value int64
}

func main() {
	r, err := ring.NewSingleProducer(1024, func() payload { return payload{} }, wait.NewYielding())
	if err != nil {
		log.Fatalf("spsc: %v", err)
	}

	consumed := sequence.New(-1)
	r.AddGatingSequences(consumed)
	barrier := r.NewBarrier()
	seenCh := make(chan int64, 1)

	go func() {
		var sum int64
		var count int64
		next := int64(0)
		for count < eventCount {
			available, err := barrier.WaitFor(next)
			if err != nil {
				log.Fatalf("spsc: consumer WaitFor: %v", err)
			}
			for seq := next; seq <= available; seq++ {
				sum += r.Get(seq).value
				count++
			}
			consumed.Set(available)
			next = available + 1
		}
		seenCh <- sum
	}()

	for i := int64(0); i < eventCount; i++ {
		seq, err := r.Next()
		if err != nil {
			log.Fatalf("spsc: producer Next: %v", err)
		}
		r.Get(seq).value = i
		r.Publish(seq)
	}

	sum := <-seenCh
	const want = eventCount * (eventCount - 1) / 2
	if sum != want {
		log.Fatalf("spsc: sum = %d, want %d", sum, want)
	}
	log.Printf("spsc: delivered %d events, sum = %d", eventCount, sum)
}
