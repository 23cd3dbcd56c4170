package wait

import (
	"runtime"
	"time"

	"github.com/arjunmehta/go-disruptor/disruptorerr"
)

const (
	// defaultSleepSpinTries is SPIN_TRIES from the design (=200).
	defaultSleepSpinTries = 200
	// defaultSleepYieldTries is YIELD_TRIES from the design (=100).
	defaultSleepYieldTries = 100
	// defaultSleepDuration is the short sleep the design calls for
	// (~100ns) once the spin and yield budgets are both exhausted.
	defaultSleepDuration = 100 * time.Nanosecond
)

// SleepingOption configures a Sleeping strategy at construction.
type SleepingOption func(*Sleeping)

// WithSleepingSpinTries overrides the bare-spin budget.
func WithSleepingSpinTries(tries int) SleepingOption {
	return func(s *Sleeping) { s.spinTries = tries }
}

// WithSleepingYieldTries overrides the cooperative-yield budget.
func WithSleepingYieldTries(tries int) SleepingOption {
	return func(s *Sleeping) { s.yieldTries = tries }
}

// WithSleepingDuration overrides the sleep duration used once both budgets
// are exhausted.
func WithSleepingDuration(d time.Duration) SleepingOption {
	return func(s *Sleeping) { s.sleepDuration = d }
}

// Sleeping progressively backs off: bare spins, then scheduler yields, then
// short sleeps, checking the alert flag once per outer iteration
// regardless of phase. It trades a little latency for a large reduction in
// CPU burn relative to BusySpin/Yielding under a slow producer.
type Sleeping struct {
	spinTries     int
	yieldTries    int
	sleepDuration time.Duration
}

// NewSleeping returns a Sleeping strategy with the design's default
// budgets, applying any options.
func NewSleeping(opts ...SleepingOption) *Sleeping {
	s := &Sleeping{
		spinTries:     defaultSleepSpinTries,
		yieldTries:    defaultSleepYieldTries,
		sleepDuration: defaultSleepDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sleeping) WaitFor(requested int64, cursor Cursor, dependencies []Cursor, alert AlertFlag) (int64, error) {
	counter := s.spinTries + s.yieldTries
	for {
		if available := minimum(cursor, dependencies); available >= requested {
			return available, nil
		}
		if alert.IsAlerted() {
			return -1, disruptorerr.ErrAlerted
		}
		switch {
		case counter > s.yieldTries:
			counter--
		case counter > 0:
			counter--
			runtime.Gosched()
		default:
			time.Sleep(s.sleepDuration)
		}
	}
}

func (s *Sleeping) SignalAllWhenBlocking() {}
