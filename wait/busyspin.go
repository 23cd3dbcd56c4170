package wait

import "github.com/arjunmehta/go-disruptor/disruptorerr"

// alertCheckInterval is how many spin iterations BusySpin lets pass
// between alert checks. Checking every iteration would add a branch to the
// hottest loop in the package for no benefit, since alert is a cooperative,
// not time-critical, signal.
const alertCheckInterval = 256

// BusySpin never yields to the scheduler and never sleeps: it is the
// lowest-latency, highest-CPU strategy, appropriate only when a dedicated
// core is available for both producer and consumer.
//
// Go's standard library has no portable PAUSE/cpu-relax intrinsic (the
// pack's hayabusa-cloud-lfq family reaches for a private "spin" package for
// this, which is not something this module can import without pulling in
// an unrelated internal dependency), so the spin body below is a plain
// empty loop and relies on the branch predictor rather than a hardware
// pause hint. This tradeoff is recorded in DESIGN.md.
type BusySpin struct{}

// NewBusySpin returns a ready-to-use BusySpin strategy.
func NewBusySpin() *BusySpin {
	return &BusySpin{}
}

func (BusySpin) WaitFor(requested int64, cursor Cursor, dependencies []Cursor, alert AlertFlag) (int64, error) {
	var iterations int
	for {
		if available := minimum(cursor, dependencies); available >= requested {
			return available, nil
		}
		iterations++
		if iterations%alertCheckInterval == 0 && alert.IsAlerted() {
			return -1, disruptorerr.ErrAlerted
		}
	}
}

func (BusySpin) SignalAllWhenBlocking() {}
