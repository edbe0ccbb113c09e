// Package sequence provides the in-memory data model used by parseq.
//
// A Sequence is an ordered, 1-indexed, dense collection of values. A Table is
// a Sequence whose elements are Records sharing one DataStruct (an ordered
// list of field names). The package also carries the single-threaded
// primitive operations (calc, run, select, new, derive, sort) that the
// parallel package falls back to for small inputs and runs inside each
// partition job.
//
// # Basic Usage
//
//	ds := sequence.NewDataStruct("name", "age")
//	t := sequence.NewTable(ds, 2)
//	t.NewRecord().SetValues("alice", int64(30))
//	t.NewRecord().SetValues("bob", int64(25))
//
//	adults, err := t.Sequence().Select(predicate)
//
// # Indexing
//
// All positions are 1-based: Get(1) is the first element and a half-open
// range [start, end) covers elements start through end-1. Values() exposes
// the 0-based backing slice for callers that need direct access.
//
// # Comparison
//
// NaturalCompare orders nil first, numbers numerically regardless of their
// Go integer or float kind, strings lexically, false before true, and records
// field by field. Values of unrelated kinds return ErrIncomparable.
package sequence
