package sequence

import (
	"fmt"
	"sort"
)

// Evaluator computes a value for one element. index is the element's 1-based
// position in the sequence being processed.
type Evaluator interface {
	Eval(elem interface{}, index int) (interface{}, error)
}

// Options tunes record-producing operations
type Options struct {
	// SkipNull drops a record when any computed field is nil
	SkipNull bool
}

func (s *Sequence) checkRange(start, end int) error {
	return RangeCheck(len(s.values), start-1, end-1)
}

// Calc evaluates ev for every element and returns the results in order
func (s *Sequence) Calc(ev Evaluator) (*Sequence, error) {
	result := NewWithLength(len(s.values))
	if err := s.CalcInto(ev, 1, len(s.values)+1, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CalcInto evaluates ev over [start, end) and writes each result to the same
// position of dest, which must be at least as long as s.
func (s *Sequence) CalcInto(ev Evaluator, start, end int, dest *Sequence) error {
	if err := s.checkRange(start, end); err != nil {
		return err
	}
	if dest.Len() < end-1 {
		return fmt.Errorf("%w: destination length %d < %d", ErrInvalidRange, dest.Len(), end-1)
	}
	for i := start; i < end; i++ {
		v, err := ev.Eval(s.values[i-1], i)
		if err != nil {
			return err
		}
		dest.values[i-1] = v
	}
	return nil
}

// Run evaluates ev for every element, discarding results
func (s *Sequence) Run(ev Evaluator) error {
	return s.RunRange(ev, 1, len(s.values)+1)
}

// RunRange evaluates ev over [start, end), discarding results
func (s *Sequence) RunRange(ev Evaluator, start, end int) error {
	if err := s.checkRange(start, end); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		if _, err := ev.Eval(s.values[i-1], i); err != nil {
			return err
		}
	}
	return nil
}

// Select returns the elements for which ev yields a true value
func (s *Sequence) Select(ev Evaluator) (*Sequence, error) {
	kept, err := s.SelectRange(ev, 1, len(s.values)+1)
	if err != nil {
		return nil, err
	}
	return FromSlice(kept), nil
}

// SelectRange returns the elements of [start, end) for which ev yields a true value
func (s *Sequence) SelectRange(ev Evaluator, start, end int) ([]interface{}, error) {
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	kept := make([]interface{}, 0)
	for i := start; i < end; i++ {
		v, err := ev.Eval(s.values[i-1], i)
		if err != nil {
			return nil, err
		}
		if IsTrue(v) {
			kept = append(kept, s.values[i-1])
		}
	}
	return kept, nil
}

// SelectEq returns the elements for which every evaluator yields the value
// at the same position of values.
func (s *Sequence) SelectEq(evs []Evaluator, values []interface{}) (*Sequence, error) {
	kept, err := s.SelectEqRange(evs, values, 1, len(s.values)+1)
	if err != nil {
		return nil, err
	}
	return FromSlice(kept), nil
}

// SelectEqRange is SelectEq restricted to [start, end)
func (s *Sequence) SelectEqRange(evs []Evaluator, values []interface{}, start, end int) ([]interface{}, error) {
	if len(evs) != len(values) {
		return nil, fmt.Errorf("%d expressions but %d values", len(evs), len(values))
	}
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	kept := make([]interface{}, 0)
next:
	for i := start; i < end; i++ {
		elem := s.values[i-1]
		for k, ev := range evs {
			v, err := ev.Eval(elem, i)
			if err != nil {
				return nil, err
			}
			if !Equal(v, values[k]) {
				continue next
			}
		}
		kept = append(kept, elem)
	}
	return kept, nil
}

// NewTable builds one record of ds per element, field k taken from evs[k]
func (s *Sequence) NewTable(ds *DataStruct, evs []Evaluator, opts Options) (*Table, error) {
	records, err := s.NewRange(ds, evs, 1, len(s.values)+1, opts)
	if err != nil {
		return nil, err
	}
	t := NewTable(ds, len(records))
	t.AppendRecords(records...)
	return t, nil
}

// NewRange is NewTable restricted to [start, end); it returns the records in order
func (s *Sequence) NewRange(ds *DataStruct, evs []Evaluator, start, end int, opts Options) ([]*Record, error) {
	if len(evs) != ds.FieldCount() {
		return nil, fmt.Errorf("%d expressions for %d fields", len(evs), ds.FieldCount())
	}
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	records := make([]*Record, 0, end-start)
next:
	for i := start; i < end; i++ {
		elem := s.values[i-1]
		r := NewRecord(ds)
		for k, ev := range evs {
			v, err := ev.Eval(elem, i)
			if err != nil {
				return nil, err
			}
			if v == nil && opts.SkipNull {
				continue next
			}
			r.values[k] = v
		}
		records = append(records, r)
	}
	return records, nil
}

// DeriveStruct returns the shape produced by appending names to src
func DeriveStruct(src *DataStruct, names []string) *DataStruct {
	all := make([]string, 0, src.FieldCount()+len(names))
	all = append(all, src.names...)
	all = append(all, names...)
	return src.Create(all...)
}

// Derive appends computed fields to every record. The new fields are
// evaluated left to right against the new record, so an expression may refer
// to fields derived before it.
func (s *Sequence) Derive(names []string, evs []Evaluator, opts Options) (*Table, error) {
	ds := s.DataStruct()
	if ds == nil {
		return nil, ErrMissingShape
	}
	newDs := DeriveStruct(ds, names)
	records, err := s.DeriveRange(newDs, evs, 1, len(s.values)+1, opts)
	if err != nil {
		return nil, err
	}
	t := NewTable(newDs, len(records))
	t.AppendRecords(records...)
	return t, nil
}

// DeriveRange is Derive restricted to [start, end). newDs must be the
// source structure followed by one field per evaluator.
func (s *Sequence) DeriveRange(newDs *DataStruct, evs []Evaluator, start, end int, opts Options) ([]*Record, error) {
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	first := newDs.FieldCount() - len(evs)
	if first < 0 {
		return nil, fmt.Errorf("%d expressions for %d fields", len(evs), newDs.FieldCount())
	}
	records := make([]*Record, 0, end-start)
next:
	for i := start; i < end; i++ {
		src, ok := s.values[i-1].(*Record)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrMissingShape, i, s.values[i-1])
		}
		r := NewRecord(newDs)
		copy(r.values, src.values)
		for k, ev := range evs {
			v, err := ev.Eval(r, i)
			if err != nil {
				return nil, err
			}
			if v == nil && opts.SkipNull {
				continue next
			}
			r.values[first+k] = v
		}
		records = append(records, r)
	}
	return records, nil
}

// Sort stably sorts the sequence in place. A nil comparator means
// NaturalCompare. The first comparator error aborts the sort; the element
// order is then unspecified.
func (s *Sequence) Sort(cmp Comparator) error {
	if cmp == nil {
		cmp = NaturalCompare
	}
	var firstErr error
	sort.SliceStable(s.values, func(i, j int) bool {
		if firstErr != nil {
			return false
		}
		c, err := cmp(s.values[i], s.values[j])
		if err != nil {
			firstErr = err
			return false
		}
		return c < 0
	})
	return firstErr
}
