package parallel

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vegasq/parseq/expr"
	"github.com/vegasq/parseq/internal/logger"
	"github.com/vegasq/parseq/sequence"
)

// DispatchInfo describes how one operation was executed
type DispatchInfo struct {
	ID       string
	Op       string
	Len      int
	Threads  int
	Parallel bool
}

// Mode returns "parallel" or "single"
func (d DispatchInfo) Mode() string {
	if d.Parallel {
		return "parallel"
	}
	return "single"
}

var dispatchHook atomic.Pointer[func(DispatchInfo)]

// SetDispatchHook installs a function called once per dispatch, before any
// work starts, from the dispatching goroutine. nil removes the hook.
func SetDispatchHook(hook func(DispatchInfo)) {
	if hook == nil {
		dispatchHook.Store(nil)
		return
	}
	dispatchHook.Store(&hook)
}

// dispatch is one planned operation
type dispatch struct {
	DispatchInfo
}

func newDispatch(op string, length int) *dispatch {
	return &dispatch{DispatchInfo{ID: uuid.NewString(), Op: op, Len: length, Threads: 1}}
}

// plan decides how op runs over length elements and reports the decision
func plan(op string, length int) *dispatch {
	s := load()
	d := newDispatch(op, length)
	if !s.singleThreaded(length) {
		d.Parallel = true
		d.Threads = ThreadCount(length, s.parallelism, s.threshold)
	}
	d.report()
	return d
}

func (d *dispatch) report() {
	DispatchTotal.WithLabelValues(d.Op, d.Mode()).Inc()
	if d.Parallel {
		DispatchPartitions.Observe(float64(d.Threads))
		logger.Debug("parallel dispatch", "dispatch_id", d.ID, "op", d.Op, "len", d.Len, "threads", d.Threads)
	}
	if hook := dispatchHook.Load(); hook != nil {
		(*hook)(d.DispatchInfo)
	}
}

func (d *dispatch) partitions() ([]Partition, error) {
	return Partitions(d.Len, d.Threads)
}

// execute submits jobs to the default pool and joins them in order. All
// submitted jobs finish before it returns; the first failure in partition
// order wins.
func (d *dispatch) execute(jobs []Job) error {
	pool := DefaultPool()

	submitted := 0
	var submitErr error
	for _, j := range jobs {
		if err := pool.Submit(j); err != nil {
			submitErr = fmt.Errorf("submit partition %v: %w", j.Partition(), err)
			break
		}
		submitted++
	}

	var firstErr error
	for _, j := range jobs[:submitted] {
		if err := j.Join(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = submitErr
	}
	if firstErr != nil {
		logger.Debug("parallel dispatch failed", "dispatch_id", d.ID, "op", d.Op, "error", firstErr)
	}
	return firstErr
}

// contextFor picks the context partitions are cloned from
func contextFor(ctx *expr.Context, exp *expr.Expression) *expr.Context {
	if ctx == nil && exp != nil {
		return exp.Context()
	}
	if ctx == nil {
		return expr.NewContext()
	}
	return ctx
}

func evaluators(exps []*expr.Expression) []sequence.Evaluator {
	evs := make([]sequence.Evaluator, len(exps))
	for i, e := range exps {
		evs[i] = e
	}
	return evs
}

func rebind(exps []*expr.Expression, ctx *expr.Context) []sequence.Evaluator {
	evs := make([]sequence.Evaluator, len(exps))
	for i, e := range exps {
		evs[i] = e.NewExpression(ctx)
	}
	return evs
}

// Calc evaluates exp for every element and returns the results in order.
// A nil exp returns seq itself.
func Calc(seq *sequence.Sequence, exp *expr.Expression, ctx *expr.Context) (*sequence.Sequence, error) {
	if exp == nil {
		return seq, nil
	}

	d := plan("calc", seq.Len())
	if !d.Parallel {
		return seq.Calc(exp)
	}

	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	ctx = contextFor(ctx, exp)
	result := sequence.NewWithLength(seq.Len())
	jobs := make([]Job, len(parts))
	for i, part := range parts {
		jobs[i] = &calcJob{
			jobBase: newJobBase(part),
			seq:     seq,
			exp:     exp.NewExpression(ctx.NewComputeContext()),
			result:  result,
		}
	}
	if err := d.execute(jobs); err != nil {
		return nil, err
	}
	return result, nil
}

// Run evaluates exp for every element for its side effects. In parallel mode
// the side effects land on per-partition copies of ctx and are discarded.
func Run(seq *sequence.Sequence, exp *expr.Expression, ctx *expr.Context) error {
	if exp == nil {
		return nil
	}

	d := plan("run", seq.Len())
	if !d.Parallel {
		return seq.Run(exp)
	}

	parts, err := d.partitions()
	if err != nil {
		return err
	}
	ctx = contextFor(ctx, exp)
	jobs := make([]Job, len(parts))
	for i, part := range parts {
		jobs[i] = &runJob{
			jobBase: newJobBase(part),
			seq:     seq,
			exp:     exp.NewExpression(ctx.NewComputeContext()),
		}
	}
	return d.execute(jobs)
}

// Select returns the elements for which exp is true, in their original
// order. opts is accepted for symmetry with the record operations and does
// not affect filtering.
func Select(seq *sequence.Sequence, exp *expr.Expression, ctx *expr.Context, opts sequence.Options) (*sequence.Sequence, error) {
	if exp == nil {
		return nil, fmt.Errorf("%w: nil filter expression", ErrInvalidArgument)
	}

	d := plan("select", seq.Len())
	if !d.Parallel {
		return seq.Select(exp)
	}

	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	ctx = contextFor(ctx, exp)
	jobs := make([]*selectJob, len(parts))
	for i, part := range parts {
		jobs[i] = &selectJob{
			jobBase: newJobBase(part),
			seq:     seq,
			exp:     exp.NewExpression(ctx.NewComputeContext()),
		}
	}
	return d.joinSelect(jobs)
}

// SelectEq returns the elements for which exps[k] equals values[k] for every
// k, in their original order.
func SelectEq(seq *sequence.Sequence, exps []*expr.Expression, values []interface{}, ctx *expr.Context, opts sequence.Options) (*sequence.Sequence, error) {
	if len(exps) != len(values) {
		return nil, fmt.Errorf("%w: %d expressions but %d values", ErrInvalidArgument, len(exps), len(values))
	}
	for i, e := range exps {
		if e == nil {
			return nil, fmt.Errorf("%w: expression %d is nil", ErrInvalidArgument, i)
		}
	}

	d := plan("select_eq", seq.Len())
	if !d.Parallel {
		return seq.SelectEq(evaluators(exps), values)
	}

	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	ctx = contextFor(ctx, firstNonNil(exps))
	jobs := make([]*selectJob, len(parts))
	for i, part := range parts {
		jobs[i] = &selectJob{
			jobBase: newJobBase(part),
			seq:     seq,
			evs:     rebind(exps, ctx.NewComputeContext()),
			values:  values,
		}
	}
	return d.joinSelect(jobs)
}

func (d *dispatch) joinSelect(jobs []*selectJob) (*sequence.Sequence, error) {
	generic := make([]Job, len(jobs))
	for i, j := range jobs {
		generic[i] = j
	}
	if err := d.execute(generic); err != nil {
		return nil, err
	}

	total := 0
	for _, j := range jobs {
		total += len(j.kept)
	}
	kept := make([]interface{}, 0, total)
	for _, j := range jobs {
		kept = append(kept, j.kept...)
	}
	return sequence.FromSlice(kept), nil
}

// NewTable builds one record of ds per element; field k is exps[k]. A nil
// expression yields a nil field. With opts.SkipNull, records with any nil
// field are dropped.
func NewTable(seq *sequence.Sequence, ds *sequence.DataStruct, exps []*expr.Expression, ctx *expr.Context, opts sequence.Options) (*sequence.Table, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil data structure", ErrInvalidArgument)
	}
	if len(exps) != ds.FieldCount() {
		return nil, fmt.Errorf("%w: %d expressions for %d fields", ErrInvalidArgument, len(exps), ds.FieldCount())
	}
	ctx = contextFor(ctx, firstNonNil(exps))
	exps = withNulls(exps, ctx)

	d := plan("new", seq.Len())
	if !d.Parallel {
		return seq.NewTable(ds, evaluators(exps), opts)
	}

	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	jobs := make([]*newJob, len(parts))
	generic := make([]Job, len(parts))
	for i, part := range parts {
		jobs[i] = &newJob{
			jobBase: newJobBase(part),
			seq:     seq,
			ds:      ds,
			evs:     rebind(exps, ctx.NewComputeContext()),
			opts:    opts,
		}
		generic[i] = jobs[i]
	}
	if err := d.execute(generic); err != nil {
		return nil, err
	}

	t := sequence.NewTable(ds, seq.Len())
	for _, j := range jobs {
		t.AppendRecords(j.records...)
	}
	return t, nil
}

// Derive returns records of the source structure extended with names, each
// computed by the paired expression. An empty name takes the expression's
// IdentifierName; a nil expression yields nil fields.
func Derive(seq *sequence.Sequence, names []string, exps []*expr.Expression, ctx *expr.Context, opts sequence.Options) (*sequence.Table, error) {
	if len(names) != len(exps) {
		return nil, fmt.Errorf("%w: %d names but %d expressions", ErrInvalidArgument, len(names), len(exps))
	}
	ds := seq.DataStruct()
	if ds == nil {
		return nil, sequence.ErrMissingShape
	}

	resolved := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			if exps[i] == nil {
				return nil, fmt.Errorf("%w: field %d has neither a name nor an expression", ErrInvalidArgument, i)
			}
			name = exps[i].IdentifierName()
		}
		resolved[i] = name
	}
	ctx = contextFor(ctx, firstNonNil(exps))
	exps = withNulls(exps, ctx)

	d := plan("derive", seq.Len())
	if !d.Parallel {
		return seq.Derive(resolved, evaluators(exps), opts)
	}

	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	newDs := sequence.DeriveStruct(ds, resolved)
	jobs := make([]*deriveJob, len(parts))
	generic := make([]Job, len(parts))
	for i, part := range parts {
		jobs[i] = &deriveJob{
			jobBase: newJobBase(part),
			seq:     seq,
			ds:      newDs,
			evs:     rebind(exps, ctx.NewComputeContext()),
			opts:    opts,
		}
		generic[i] = jobs[i]
	}
	if err := d.execute(generic); err != nil {
		return nil, err
	}

	t := sequence.NewTable(newDs, seq.Len())
	for _, j := range jobs {
		t.AppendRecords(j.records...)
	}
	return t, nil
}

func firstNonNil(exps []*expr.Expression) *expr.Expression {
	for _, e := range exps {
		if e != nil {
			return e
		}
	}
	return nil
}

// withNulls replaces nil expressions by expr.Null bound to ctx
func withNulls(exps []*expr.Expression, ctx *expr.Context) []*expr.Expression {
	out := make([]*expr.Expression, len(exps))
	for i, e := range exps {
		if e == nil {
			e = expr.Null.NewExpression(ctx)
		}
		out[i] = e
	}
	return out
}
