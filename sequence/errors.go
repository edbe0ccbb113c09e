package sequence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for malformed [from, to) bounds
	ErrInvalidRange = errors.New("invalid range")

	// ErrIndexOutOfRange is returned when a 1-based position is outside [1, Len()]
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMissingShape is returned when an operation needs records with a common DataStruct
	ErrMissingShape = errors.New("sequence has no common record structure")

	// ErrIncomparable is returned when two values have no natural order
	ErrIncomparable = errors.New("values are not comparable")

	// ErrFieldNotFound is returned when a named field does not exist
	ErrFieldNotFound = errors.New("field not found")
)

// RangeCheck validates a half-open [from, to) range over 0-based storage of
// the given length.
func RangeCheck(length, from, to int) error {
	if from > to {
		return fmt.Errorf("%w: from(%d) > to(%d)", ErrInvalidRange, from, to)
	}
	if from < 0 {
		return fmt.Errorf("%w: from(%d) < 0", ErrInvalidRange, from)
	}
	if to > length {
		return fmt.Errorf("%w: to(%d) > length(%d)", ErrInvalidRange, to, length)
	}
	return nil
}
