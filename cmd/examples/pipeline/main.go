// Command pipeline demonstrates a three-stage pipeline topology: each
// stage depends on the previous stage's sequence, so the ring's slots are
// only reused once every stage has finished with them.
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

// stage applies a pure transformation to the slot value and records the
// item as done once the transformation is committed.
type stage struct {
	transform func(v int64) int64
	done      chan struct{}
	seenCount int
}

func newStage(transform func(int64) int64) *stage {
	return &stage{transform: transform, done: make(chan struct{}, 1)}
}

func (s *stage) OnEvent(slot *int64, seq int64, endOfBatch bool) error {
	*slot = s.transform(*slot)
	s.seenCount++
	if s.seenCount == eventCount {
		close(s.done)
	}
	return nil
}

func main() {
	r, err := ring.NewSingleProducer(64, func() int64 { return 0 }, wait.NewYielding())
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	stage1 := newStage(func(v int64) int64 { return v * 2 })
	stage2 := newStage(func(v int64) int64 { return v + 10 })
	stage3 := newStage(func(v int64) int64 { return v * 3 })

	procs := topology.Pipeline[int64](r, stage1, stage2, stage3)
	for _, p := range procs {
		p := p
		go func() {
			if err := p.Run(); err != nil {
				log.Printf("pipeline: stage %s stopped: %v", p.ID(), err)
			}
		}()
	}
	defer func() {
		for _, p := range procs {
			p.Halt()
		}
	}()

	for i := int64(0); i < eventCount; i++ {
		seq, err := r.Next()
		if err != nil {
			log.Fatalf("pipeline: Next: %v", err)
		}
		*r.Get(seq) = i
		r.Publish(seq)
	}

	select {
	case <-stage3.done:
	case <-time.After(5 * time.Second):
		log.Fatal("pipeline: stage3 never finished")
	}

	var sum int64
	for i := int64(0); i < eventCount; i++ {
		sum += *r.Get(i)
	}
	want := int64(6*(eventCount*(eventCount-1)/2) + 30*eventCount)
	if sum != want {
		log.Fatalf("pipeline: sum = %d, want %d", sum, want)
	}
	log.Printf("pipeline: %d events through 3 stages, sum = %d", eventCount, sum)
}

var _ processor.BroadcastHandler[int64] = (*stage)(nil)
