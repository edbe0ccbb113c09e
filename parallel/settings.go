package parallel

import (
	"runtime"
	"sync/atomic"

	"github.com/vegasq/parseq/config"
)

// DefaultSingleThreadThreshold is the initial sequence length at or below
// which an operation runs inline on the calling goroutine instead of being
// partitioned across the pool.
const DefaultSingleThreadThreshold = 20480

var (
	threshold   atomic.Int64
	parallelism atomic.Int64
	poolSize    atomic.Int64
)

func init() {
	threshold.Store(DefaultSingleThreadThreshold)
	parallelism.Store(int64(runtime.GOMAXPROCS(0)))
}

// SingleThreadThreshold returns the length at or below which operations run
// on the calling goroutine.
func SingleThreadThreshold() int {
	return int(threshold.Load())
}

// SetSingleThreadThreshold changes the threshold for later dispatches.
// Negative values are stored as 0.
func SetSingleThreadThreshold(n int) {
	if n < 0 {
		n = 0
	}
	threshold.Store(int64(n))
}

// Parallelism returns the maximum number of partitions per dispatch
func Parallelism() int {
	return int(parallelism.Load())
}

// SetParallelism changes the parallelism for later dispatches. Values below
// 1 restore the default of GOMAXPROCS.
func SetParallelism(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	parallelism.Store(int64(n))
}

// Configure applies loaded settings. The pool size only takes effect if the
// default pool has not been created yet.
func Configure(cfg config.Parallel) {
	SetSingleThreadThreshold(cfg.Threshold)
	SetParallelism(cfg.Parallelism)
	poolSize.Store(int64(cfg.PoolSize))
}

// settings is one consistent read of the process-wide values
type settings struct {
	threshold   int
	parallelism int
}

func load() settings {
	return settings{threshold: SingleThreadThreshold(), parallelism: Parallelism()}
}

// singleThreaded reports whether length elements are processed inline
func (s settings) singleThreaded(length int) bool {
	return length <= s.threshold || s.parallelism < 2
}
