package sequence

import "fmt"

// Sequence is an ordered, 1-indexed collection of values
type Sequence struct {
	values []interface{}
}

// New creates a sequence holding the given values
func New(values ...interface{}) *Sequence {
	s := &Sequence{values: make([]interface{}, len(values))}
	copy(s.values, values)
	return s
}

// NewWithLength creates a sequence of n nil slots, ready for index-addressed writes
func NewWithLength(n int) *Sequence {
	return &Sequence{values: make([]interface{}, n)}
}

// FromSlice wraps an existing slice without copying it
func FromSlice(values []interface{}) *Sequence {
	return &Sequence{values: values}
}

// Len returns the number of elements
func (s *Sequence) Len() int {
	return len(s.values)
}

// Get returns the element at 1-based position i
func (s *Sequence) Get(i int) (interface{}, error) {
	if i < 1 || i > len(s.values) {
		return nil, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(s.values))
	}
	return s.values[i-1], nil
}

// Set assigns the element at 1-based position i
func (s *Sequence) Set(i int, v interface{}) error {
	if i < 1 || i > len(s.values) {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(s.values))
	}
	s.values[i-1] = v
	return nil
}

// Append adds values to the end of the sequence
func (s *Sequence) Append(values ...interface{}) {
	s.values = append(s.values, values...)
}

// Values returns the 0-based backing slice (not a copy)
func (s *Sequence) Values() []interface{} {
	return s.values
}

// Slice returns a copy of the elements in the 1-based half-open range [start, end)
func (s *Sequence) Slice(start, end int) (*Sequence, error) {
	if err := RangeCheck(len(s.values), start-1, end-1); err != nil {
		return nil, err
	}
	return New(s.values[start-1 : end-1]...), nil
}

// DataStruct returns the structure shared by every element, or nil if the
// sequence is empty or holds anything other than records of one structure.
func (s *Sequence) DataStruct() *DataStruct {
	if len(s.values) == 0 {
		return nil
	}
	first, ok := s.values[0].(*Record)
	if !ok {
		return nil
	}
	ds := first.DataStruct()
	for _, v := range s.values[1:] {
		r, ok := v.(*Record)
		if !ok || r.DataStruct() != ds {
			return nil
		}
	}
	return ds
}

// Table is a sequence of records that share one DataStruct
type Table struct {
	ds  *DataStruct
	seq *Sequence
}

// NewTable creates an empty table with room for capacity records
func NewTable(ds *DataStruct, capacity int) *Table {
	return &Table{ds: ds, seq: &Sequence{values: make([]interface{}, 0, capacity)}}
}

// NewRecord appends a blank record and returns it
func (t *Table) NewRecord() *Record {
	r := NewRecord(t.ds)
	t.seq.values = append(t.seq.values, r)
	return r
}

// AppendRecords appends records that must already use the table's structure
func (t *Table) AppendRecords(records ...*Record) {
	for _, r := range records {
		t.seq.values = append(t.seq.values, r)
	}
}

// DataStruct returns the table's structure
func (t *Table) DataStruct() *DataStruct {
	return t.ds
}

// Sequence returns the table's records as a sequence
func (t *Table) Sequence() *Sequence {
	return t.seq
}

// Len returns the number of records
func (t *Table) Len() int {
	return t.seq.Len()
}

// Record returns the record at 1-based position i
func (t *Table) Record(i int) (*Record, error) {
	v, err := t.seq.Get(i)
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Rows converts the table to column name to value maps
func (t *Table) Rows() []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, t.Len())
	for _, v := range t.seq.values {
		rows = append(rows, v.(*Record).ToMap())
	}
	return rows
}

// TableFromRows builds a table with the given field order from row maps.
// Columns missing from a row are left nil.
func TableFromRows(ds *DataStruct, rows []map[string]interface{}) *Table {
	t := NewTable(ds, len(rows))
	for _, row := range rows {
		r := t.NewRecord()
		for i, name := range ds.names {
			r.values[i] = row[name]
		}
	}
	return t
}

// TableOf wraps a sequence whose elements are all records of ds. Records
// are shared, not copied.
func TableOf(ds *DataStruct, seq *Sequence) (*Table, error) {
	for i, v := range seq.values {
		r, ok := v.(*Record)
		if !ok || r.DataStruct() != ds {
			return nil, fmt.Errorf("%w: element %d is not a record of %v", ErrMissingShape, i+1, ds)
		}
	}
	return &Table{ds: ds, seq: seq}, nil
}
