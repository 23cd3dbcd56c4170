package runner

import "github.com/panjf2000/ants/v2"

// DefaultPoolSize is a 256*1024 ceiling, plenty of headroom for a fleet of
// WorkProcessors without an unbounded pool.
const DefaultPoolSize = 1 << 18

// PoolRunner runs functions on goroutines borrowed from an ants.Pool
// instead of spawning a new one per call, matching gnet's
// pkg/pool/goroutine wrapper around the same library.
type PoolRunner struct {
	pool *ants.Pool
}

// NewPoolRunner wraps an existing ants.Pool for use as a Runner.
func NewPoolRunner(pool *ants.Pool) *PoolRunner {
	return &PoolRunner{pool: pool}
}

// NewDefaultPoolRunner constructs a PoolRunner backed by a fresh
// non-blocking ants.Pool of DefaultPoolSize capacity, following
// gnet's pkg/pool/goroutine.Default() construction exactly.
func NewDefaultPoolRunner() (*PoolRunner, error) {
	pool, err := ants.NewPool(DefaultPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &PoolRunner{pool: pool}, nil
}

// Go submits fn to the underlying pool.
func (r *PoolRunner) Go(fn func()) error {
	return r.pool.Submit(fn)
}

// Release frees the underlying pool's idle workers and stops accepting new
// submissions. Call once the topology using this runner is fully halted.
func (r *PoolRunner) Release() {
	r.pool.Release()
}
