package sequence

import (
	"cmp"
	"fmt"
	"strings"
)

// Comparator returns a negative number, zero, or a positive number when a
// sorts before, equal to, or after b. It returns an error when the values
// cannot be ordered.
type Comparator func(a, b interface{}) (int, error)

// OrderBy names a record field to sort by
type OrderBy struct {
	Field string // Field name
	Desc  bool   // DESC vs ASC (default)
}

// NaturalCompare is the default ordering used when no comparator is given
func NaturalCompare(a, b interface{}) (int, error) {
	// Handle nil values
	if a == nil && b == nil {
		return 0, nil
	}
	if a == nil {
		return -1, nil
	}
	if b == nil {
		return 1, nil
	}

	// Integers compare exactly; floats only when one side is a float.
	// NaN sorts before every other number.
	if c, ok := compareIntegers(a, b); ok {
		return c, nil
	}
	aNum, aIsNum := ToFloat64(a)
	bNum, bIsNum := ToFloat64(b)
	if aIsNum && bIsNum {
		return cmp.Compare(aNum, bNum), nil
	}

	// Try string comparison
	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return strings.Compare(aStr, bStr), nil
	}

	// Try boolean comparison
	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		switch {
		case aBool == bBool:
			return 0, nil
		case !aBool:
			return -1, nil // false < true
		default:
			return 1, nil
		}
	}

	// Records compare field by field
	aRec, aIsRec := a.(*Record)
	bRec, bIsRec := b.(*Record)
	if aIsRec && bIsRec {
		return compareRecords(aRec, bRec)
	}

	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

// Equal reports whether two values are equal under NaturalCompare.
// Incomparable values are not equal.
func Equal(a, b interface{}) bool {
	c, err := NaturalCompare(a, b)
	return err == nil && c == 0
}

// FieldComparator orders records by the given fields in priority order.
// Missing fields and non-record elements compare as nil.
func FieldComparator(orderBy []OrderBy) Comparator {
	return func(a, b interface{}) (int, error) {
		for _, item := range orderBy {
			valA := fieldValue(a, item.Field)
			valB := fieldValue(b, item.Field)

			cmp, err := NaturalCompare(valA, valB)
			if err != nil {
				return 0, fmt.Errorf("order by %s: %w", item.Field, err)
			}
			if cmp != 0 {
				if item.Desc {
					return -cmp, nil
				}
				return cmp, nil
			}
			// Values are equal, continue to next field
		}
		return 0, nil
	}
}

func fieldValue(v interface{}, field string) interface{} {
	r, ok := v.(*Record)
	if !ok {
		return nil
	}
	val, _ := r.Get(field)
	return val
}

func compareRecords(a, b *Record) (int, error) {
	n := len(a.values)
	if len(b.values) < n {
		n = len(b.values)
	}
	for i := 0; i < n; i++ {
		c, err := NaturalCompare(a.values[i], b.values[i])
		if err != nil || c != 0 {
			return c, err
		}
	}
	return cmp.Compare(len(a.values), len(b.values)), nil
}

// compareIntegers orders two integer kinds without going through float64,
// which would merge values above 2^53
func compareIntegers(a, b interface{}) (int, bool) {
	ai, aSigned := signedValue(a)
	bi, bSigned := signedValue(b)
	au, aUnsigned := unsignedValue(a)
	bu, bUnsigned := unsignedValue(b)

	switch {
	case aSigned && bSigned:
		return cmp.Compare(ai, bi), true
	case aUnsigned && bUnsigned:
		return cmp.Compare(au, bu), true
	case aSigned && bUnsigned:
		if ai < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(ai), bu), true
	case aUnsigned && bSigned:
		if bi < 0 {
			return 1, true
		}
		return cmp.Compare(au, uint64(bi)), true
	default:
		return 0, false
	}
}

func signedValue(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	default:
		return 0, false
	}
}

func unsignedValue(v interface{}) (uint64, bool) {
	switch val := v.(type) {
	case uint:
		return uint64(val), true
	case uint8:
		return uint64(val), true
	case uint16:
		return uint64(val), true
	case uint32:
		return uint64(val), true
	case uint64:
		return val, true
	default:
		return 0, false
	}
}

// ToFloat64 converts a numeric value to float64 if possible
func ToFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// IsTrue reports the truth value of an expression result: nil and false are
// false, every other value is true.
func IsTrue(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
