package parallel

import (
	"fmt"

	"github.com/vegasq/parseq/sequence"
)

// Partition is a half-open 1-based range [Start, End) of a sequence
type Partition struct {
	Start int
	End   int
}

// Len returns the number of elements in the partition
func (p Partition) Len() int {
	return p.End - p.Start
}

func (p Partition) String() string {
	return fmt.Sprintf("[%d, %d)", p.Start, p.End)
}

// ThreadCount returns the number of partitions for length elements: one per
// threshold-sized chunk, capped at parallelism. A threshold of 0 or less is
// treated as 1.
func ThreadCount(length, parallelism, threshold int) int {
	if threshold < 1 {
		threshold = 1
	}
	n := (length-1)/threshold + 1
	if n > parallelism {
		n = parallelism
	}
	return n
}

// Partitions splits 1..length into threadCount contiguous ranges of
// length/threadCount elements; the last range also takes the remainder.
func Partitions(length, threadCount int) ([]Partition, error) {
	if threadCount < 1 {
		return nil, fmt.Errorf("%w: thread count %d", sequence.ErrInvalidRange, threadCount)
	}
	if length < threadCount {
		return nil, fmt.Errorf("%w: %d elements for %d partitions", sequence.ErrInvalidRange, length, threadCount)
	}

	chunk := length / threadCount
	parts := make([]Partition, threadCount)
	start := 1
	for i := range parts {
		end := start + chunk
		if i == threadCount-1 {
			end = length + 1
		}
		parts[i] = Partition{Start: start, End: end}
		start = end
	}
	return parts, nil
}
