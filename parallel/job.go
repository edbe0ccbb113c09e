package parallel

import (
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/vegasq/parseq/expr"
	"github.com/vegasq/parseq/sequence"
)

// Job is the work for one partition
type Job interface {
	// Join blocks until the job has finished and returns its failure
	Join() error
	// Partition returns the range the job covers
	Partition() Partition

	run() error
	base() *jobBase
}

// jobBase carries the completion state shared by all job variants
type jobBase struct {
	part Partition
	done chan struct{}
	err  error
}

func newJobBase(part Partition) jobBase {
	return jobBase{part: part, done: make(chan struct{})}
}

func (j *jobBase) base() *jobBase {
	return j
}

func (j *jobBase) Partition() Partition {
	return j.part
}

func (j *jobBase) Join() error {
	<-j.done
	return j.err
}

// finish runs fn and records its error, converting a panic into ErrJobPanic
func (j *jobBase) finish(fn func() error) {
	defer close(j.done)

	var pc panics.Catcher
	pc.Try(func() { j.err = fn() })
	if r := pc.Recovered(); r != nil {
		j.err = fmt.Errorf("%w: partition %v: %v", ErrJobPanic, j.part, r.Value)
	}
}

// calcJob writes the results for its partition into a shared, preallocated
// sequence. Partitions never overlap, so no two jobs write the same slot.
type calcJob struct {
	jobBase
	seq    *sequence.Sequence
	exp    *expr.Expression
	result *sequence.Sequence
}

func (j *calcJob) run() error {
	return j.seq.CalcInto(j.exp, j.part.Start, j.part.End, j.result)
}

// runJob evaluates for side effects on its own context
type runJob struct {
	jobBase
	seq *sequence.Sequence
	exp *expr.Expression
}

func (j *runJob) run() error {
	return j.seq.RunRange(j.exp, j.part.Start, j.part.End)
}

// selectJob keeps the elements of its partition that pass either a single
// predicate or every expression/value pair.
type selectJob struct {
	jobBase
	seq    *sequence.Sequence
	exp    *expr.Expression
	evs    []sequence.Evaluator
	values []interface{}
	kept   []interface{}
}

func (j *selectJob) run() error {
	var err error
	if j.exp != nil {
		j.kept, err = j.seq.SelectRange(j.exp, j.part.Start, j.part.End)
	} else {
		j.kept, err = j.seq.SelectEqRange(j.evs, j.values, j.part.Start, j.part.End)
	}
	return err
}

// newJob builds the records of its partition for a projection
type newJob struct {
	jobBase
	seq     *sequence.Sequence
	ds      *sequence.DataStruct
	evs     []sequence.Evaluator
	opts    sequence.Options
	records []*sequence.Record
}

func (j *newJob) run() error {
	var err error
	j.records, err = j.seq.NewRange(j.ds, j.evs, j.part.Start, j.part.End, j.opts)
	return err
}

// deriveJob extends the records of its partition with computed fields
type deriveJob struct {
	jobBase
	seq     *sequence.Sequence
	ds      *sequence.DataStruct
	evs     []sequence.Evaluator
	opts    sequence.Options
	records []*sequence.Record
}

func (j *deriveJob) run() error {
	var err error
	j.records, err = j.seq.DeriveRange(j.ds, j.evs, j.part.Start, j.part.End, j.opts)
	return err
}
