package parallel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/vegasq/parseq/internal/logger"
)

// Pool runs partition jobs on a bounded set of goroutines
type Pool struct {
	p *ants.Pool
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *Pool
)

// DefaultPool returns the process-wide pool, creating it on first use. Its
// capacity is the configured pool size, or twice the parallelism.
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		size := int(poolSize.Load())
		if size < 1 {
			size = max(Parallelism(), 1) * 2
		}
		p, err := NewPool(size)
		if err != nil {
			panic(fmt.Sprintf("parallel: cannot create default pool: %v", err))
		}
		defaultPool = p
	})
	return defaultPool
}

// NewPool creates a pool running at most size jobs at once. Submissions
// beyond that wait for a free worker.
func NewPool(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: pool size %d", ErrInvalidArgument, size)
	}
	p, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		// Jobs recover their own panics; this only fires for bugs in the pool glue.
		logger.Error("worker panic", "value", v)
	}))
	if err != nil {
		return nil, err
	}
	return &Pool{p: p}, nil
}

// Submit schedules job. The job's outcome is reported by its Join.
func (p *Pool) Submit(job Job) error {
	b := job.base()
	err := p.p.Submit(func() { b.finish(job.run) })
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Cap returns the pool capacity
func (p *Pool) Cap() int {
	return p.p.Cap()
}

// Release stops the pool; later submissions fail with ErrPoolClosed
func (p *Pool) Release() {
	p.p.Release()
}
