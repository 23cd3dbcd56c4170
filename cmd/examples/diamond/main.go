// Command diamond demonstrates a diamond topology: two independent fan-out
// branches process every event in parallel, and a join stage only runs
// once both branches have finished with a given sequence.
package main

import (
	"log"
	"time"

	"github.com/arjunmehta/go-disruptor/processor"
	"github.com/arjunmehta/go-disruptor/ring"
	"github.com/arjunmehta/go-disruptor/topology"
	"github.com/arjunmehta/go-disruptor/wait"
	_ "go.uber.org/automaxprocs"
)

const eventCount = 50

// fizzbuzz is the slot payload: the input value plus the two fan-out
// branches' verdicts, both of which the join stage reads.
type fizzbuzz struct {
	value int64
	fizz  bool
	buzz  bool
}

type fizzBranch struct{}

func (fizzBranch) OnEvent(slot *fizzbuzz, seq int64, endOfBatch bool) error {
	slot.fizz = slot.value%3 == 0
	return nil
}

type buzzBranch struct{}

func (buzzBranch) OnEvent(slot *fizzbuzz, seq int64, endOfBatch bool) error {
	slot.buzz = slot.value%5 == 0
	return nil
}

type aggregator struct {
	fizzOnlySum int64
	buzzOnlySum int64
	fizzBuzzSum int64
	plainSum    int64
	seen        int
	done        chan struct{}
}

func (a *aggregator) OnEvent(slot *fizzbuzz, seq int64, endOfBatch bool) error {
	switch {
	case slot.fizz && slot.buzz:
		a.fizzBuzzSum += slot.value
	case slot.fizz:
		a.fizzOnlySum += slot.value
	case slot.buzz:
		a.buzzOnlySum += slot.value
	default:
		a.plainSum += slot.value
	}
	a.seen++
	if a.seen == eventCount {
		close(a.done)
	}
	return nil
}

func main() {
	r, err := ring.NewSingleProducer(64, func() fizzbuzz { return fizzbuzz{} }, wait.NewYielding())
	if err != nil {
		log.Fatalf("diamond: %v", err)
	}

	agg := &aggregator{done: make(chan struct{})}
	fanOut, join := topology.Diamond[fizzbuzz](r, []processor.BroadcastHandler[fizzbuzz]{fizzBranch{}, buzzBranch{}}, agg)

	all := append(append([]*processor.BroadcastProcessor[fizzbuzz]{}, fanOut...), join)
	for _, p := range all {
		p := p
		go func() { _ = p.Run() }()
	}
	defer func() {
		for _, p := range all {
			p.Halt()
		}
	}()

	for i := int64(0); i < eventCount; i++ {
		seq, err := r.Next()
		if err != nil {
			log.Fatalf("diamond: Next: %v", err)
		}
		r.Get(seq).value = i
		r.Publish(seq)
	}

	select {
	case <-agg.done:
	case <-time.After(5 * time.Second):
		log.Fatal("diamond: aggregator never finished")
	}

	log.Printf("diamond: fizz-only=%d buzz-only=%d fizzbuzz=%d plain=%d",
		agg.fizzOnlySum, agg.buzzOnlySum, agg.fizzBuzzSum, agg.plainSum)
}
