package sequence

import (
	"fmt"
	"strings"
)

// DataStruct is the ordered field shape shared by the records of a table
type DataStruct struct {
	names []string
	index map[string]int
}

// NewDataStruct creates a data structure with the given field names
func NewDataStruct(names ...string) *DataStruct {
	ds := &DataStruct{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	copy(ds.names, names)
	for i, name := range ds.names {
		if _, dup := ds.index[name]; !dup {
			ds.index[name] = i
		}
	}
	return ds
}

// Create returns a new data structure with the given field names.
// It exists so that derived shapes are always built through the source shape.
func (ds *DataStruct) Create(names ...string) *DataStruct {
	return NewDataStruct(names...)
}

// FieldCount returns the number of fields
func (ds *DataStruct) FieldCount() int {
	return len(ds.names)
}

// FieldNames returns a copy of the field names in order
func (ds *DataStruct) FieldNames() []string {
	names := make([]string, len(ds.names))
	copy(names, ds.names)
	return names
}

// FieldIndex returns the 0-based position of the named field, or -1
func (ds *DataStruct) FieldIndex(name string) int {
	if i, ok := ds.index[name]; ok {
		return i
	}
	return -1
}

// Equal reports whether two structures have the same field names in the same order
func (ds *DataStruct) Equal(other *DataStruct) bool {
	if ds == other {
		return true
	}
	if ds == nil || other == nil || len(ds.names) != len(other.names) {
		return false
	}
	for i := range ds.names {
		if ds.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

// String returns the field list, e.g. "[name age]"
func (ds *DataStruct) String() string {
	return "[" + strings.Join(ds.names, " ") + "]"
}

// Record is a row of values laid out according to a DataStruct
type Record struct {
	ds     *DataStruct
	values []interface{}
}

// NewRecord creates a record with all fields set to nil
func NewRecord(ds *DataStruct) *Record {
	return &Record{ds: ds, values: make([]interface{}, ds.FieldCount())}
}

// DataStruct returns the record's structure
func (r *Record) DataStruct() *DataStruct {
	return r.ds
}

// Field returns the value at 0-based field position i
func (r *Record) Field(i int) interface{} {
	return r.values[i]
}

// SetField sets the value at 0-based field position i
func (r *Record) SetField(i int, v interface{}) {
	r.values[i] = v
}

// Get returns the value of the named field
func (r *Record) Get(name string) (interface{}, bool) {
	i := r.ds.FieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Set sets the value of the named field
func (r *Record) Set(name string, v interface{}) error {
	i := r.ds.FieldIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	r.values[i] = v
	return nil
}

// SetValues assigns values to the leading fields in order and returns the record
func (r *Record) SetValues(values ...interface{}) *Record {
	copy(r.values, values)
	return r
}

// Values returns the record's values (not a copy)
func (r *Record) Values() []interface{} {
	return r.values
}

// ToMap returns the record as a column name to value map
func (r *Record) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.values))
	for i, name := range r.ds.names {
		m[name] = r.values[i]
	}
	return m
}
