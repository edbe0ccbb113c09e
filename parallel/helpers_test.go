package parallel

import (
	"sync"
	"testing"

	"github.com/vegasq/parseq/expr"
	"github.com/vegasq/parseq/sequence"
)

// withSettings sets the process-wide settings for one test
func withSettings(t *testing.T, threshold, parallelism int) {
	t.Helper()
	oldThreshold, oldParallelism := SingleThreadThreshold(), Parallelism()
	SetSingleThreadThreshold(threshold)
	SetParallelism(parallelism)
	t.Cleanup(func() {
		SetSingleThreadThreshold(oldThreshold)
		SetParallelism(oldParallelism)
	})
}

type dispatchRecorder struct {
	mu    sync.Mutex
	infos []DispatchInfo
}

func (r *dispatchRecorder) last() DispatchInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.infos) == 0 {
		return DispatchInfo{}
	}
	return r.infos[len(r.infos)-1]
}

func (r *dispatchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos)
}

// recordDispatches installs a hook for one test
func recordDispatches(t *testing.T) *dispatchRecorder {
	t.Helper()
	r := &dispatchRecorder{}
	SetDispatchHook(func(info DispatchInfo) {
		r.mu.Lock()
		r.infos = append(r.infos, info)
		r.mu.Unlock()
	})
	t.Cleanup(func() { SetDispatchHook(nil) })
	return r
}

// ints returns the sequence 1..n as int64
func ints(n int) *sequence.Sequence {
	s := sequence.NewWithLength(n)
	for i := 1; i <= n; i++ {
		_ = s.Set(i, int64(i))
	}
	return s
}

var peopleDs = sequence.NewDataStruct("name", "age")

// people returns n records; every fourth age is nil
func people(n int) *sequence.Table {
	t := sequence.NewTable(peopleDs, n)
	for i := 1; i <= n; i++ {
		var age interface{} = int64(i % 90)
		if i%4 == 0 {
			age = nil
		}
		t.NewRecord().SetValues("p"+string(rune('a'+i%26)), age)
	}
	return t
}

func compile(t *testing.T, src string, ctx *expr.Context) *expr.Expression {
	t.Helper()
	e, err := expr.Compile(src, ctx)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", src, err)
	}
	return e
}
