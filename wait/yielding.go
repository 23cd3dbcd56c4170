package wait

import (
	"runtime"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
)

// defaultSpinTries is how many bare spins Yielding attempts before
// cooperatively yielding to the scheduler, per the design's SPIN_TRIES=100.
const defaultSpinTries = 100

// YieldingOption configures a Yielding strategy at construction.
type YieldingOption func(*Yielding)

// WithYieldingSpinTries overrides the default spin budget before each
// scheduler yield.
func WithYieldingSpinTries(tries int) YieldingOption {
	return func(y *Yielding) { y.spinTries = tries }
}

// Yielding spins a fixed budget of iterations, then checks the alert flag
// and cooperatively yields via runtime.Gosched, resetting the budget.
// Cheaper on CPU than BusySpin, still low latency for the common case
// where the producer catches up within a handful of spins.
type Yielding struct {
	spinTries int
}

// NewYielding returns a Yielding strategy with the default spin budget,
// applying any options.
func NewYielding(opts ...YieldingOption) *Yielding {
	y := &Yielding{spinTries: defaultSpinTries}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *Yielding) WaitFor(requested int64, cursor Cursor, dependencies []Cursor, alert AlertFlag) (int64, error) {
	counter := y.spinTries
	for {
		if available := minimum(cursor, dependencies); available >= requested {
			return available, nil
		}
		counter--
		if counter <= 0 {
			if alert.IsAlerted() {
				return -1, disruptorerr.ErrAlerted
			}
			runtime.Gosched()
			counter = y.spinTries
		}
	}
}

func (y *Yielding) SignalAllWhenBlocking() {}
