package parallel

import (
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/parseq/sequence"
)

// insertionSortThreshold is the range length below which insertion sort is used
const insertionSortThreshold = 9

// Sort stably sorts values in place. A nil comparator means
// sequence.NaturalCompare. After a comparator error the order of values is
// unspecified.
func Sort(values []interface{}, cmp sequence.Comparator) error {
	return SortRange(values, 0, len(values), cmp)
}

// SortSequence stably sorts the elements of seq in place
func SortSequence(seq *sequence.Sequence, cmp sequence.Comparator) error {
	return Sort(seq.Values(), cmp)
}

// SortRange stably sorts values[from:to] in place
func SortRange(values []interface{}, from, to int, cmp sequence.Comparator) error {
	if err := sequence.RangeCheck(len(values), from, to); err != nil {
		return err
	}
	if cmp == nil {
		cmp = sequence.NaturalCompare
	}

	s := load()
	length := to - from
	d := newDispatch("sort", length)
	if length >= insertionSortThreshold && !s.singleThreaded(length) {
		d.Parallel = true
		d.Threads = s.parallelism
	}
	d.report()

	m := merger{cmp: cmp, threshold: s.threshold}
	aux := make([]interface{}, length)
	copy(aux, values[from:to])
	return m.sort(aux, values, from, to, -from, s.parallelism)
}

// merger holds the parameters fixed for one top-level sort
type merger struct {
	cmp       sequence.Comparator
	threshold int
}

// sort orders dest[low:high] using src as scratch. src holds the same
// elements at src[low+off:high+off]. Each level swaps the roles of the two
// arrays and negates the offset.
//
// While the range is longer than the threshold and budget is at least 2, the
// right half is sorted on another goroutine with half the budget. The two
// halves touch disjoint regions of both arrays.
func (m *merger) sort(src, dest []interface{}, low, high, off, budget int) error {
	length := high - low

	if length < insertionSortThreshold {
		return m.insertionSort(dest, low, high)
	}

	destLow, destHigh := low, high
	low += off
	high += off
	mid := int(uint(low+high) >> 1)

	if length > m.threshold && budget >= 2 {
		var g errgroup.Group
		g.Go(func() error {
			return m.sort(dest, src, mid, high, -off, budget/2)
		})
		leftErr := m.sort(dest, src, low, mid, -off, budget/2)
		rightErr := g.Wait()
		if leftErr != nil {
			return leftErr
		}
		if rightErr != nil {
			return rightErr
		}
	} else {
		if err := m.sort(dest, src, low, mid, -off, budget); err != nil {
			return err
		}
		if err := m.sort(dest, src, mid, high, -off, budget); err != nil {
			return err
		}
	}

	// Already ordered across the boundary: one copy
	c, err := m.cmp(src[mid-1], src[mid])
	if err != nil {
		return err
	}
	if c <= 0 {
		copy(dest[destLow:destHigh], src[low:high])
		return nil
	}

	// Stable merge; ties take the left element
	for i, p, q := destLow, low, mid; i < destHigh; i++ {
		takeLeft := q >= high
		if !takeLeft && p < mid {
			c, err := m.cmp(src[p], src[q])
			if err != nil {
				return err
			}
			takeLeft = c <= 0
		}
		if takeLeft {
			dest[i] = src[p]
			p++
		} else {
			dest[i] = src[q]
			q++
		}
	}
	return nil
}

func (m *merger) insertionSort(dest []interface{}, low, high int) error {
	for i := low; i < high; i++ {
		for j := i; j > low; j-- {
			c, err := m.cmp(dest[j-1], dest[j])
			if err != nil {
				return err
			}
			if c <= 0 {
				break
			}
			dest[j-1], dest[j] = dest[j], dest[j-1]
		}
	}
	return nil
}
