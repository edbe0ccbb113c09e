package expr

import (
	"fmt"
	"strings"
)

// String Functions

// UpperFunc converts a string to uppercase
type UpperFunc struct{}

func (f *UpperFunc) Name() string  { return "UPPER" }
func (f *UpperFunc) MinArity() int { return 1 }
func (f *UpperFunc) MaxArity() int { return 1 }
func (f *UpperFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("UPPER: %w", err)
	}
	return strings.ToUpper(str), nil
}

// LowerFunc converts a string to lowercase
type LowerFunc struct{}

func (f *LowerFunc) Name() string  { return "LOWER" }
func (f *LowerFunc) MinArity() int { return 1 }
func (f *LowerFunc) MaxArity() int { return 1 }
func (f *LowerFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("LOWER: %w", err)
	}
	return strings.ToLower(str), nil
}

// ConcatFunc concatenates its arguments as strings, skipping nulls
type ConcatFunc struct{}

func (f *ConcatFunc) Name() string  { return "CONCAT" }
func (f *ConcatFunc) MinArity() int { return 1 }
func (f *ConcatFunc) MaxArity() int { return -1 } // variadic
func (f *ConcatFunc) Evaluate(args []interface{}) (interface{}, error) {
	var builder strings.Builder
	for i, arg := range args {
		if arg == nil {
			continue
		}
		str, err := valueToString(arg)
		if err != nil {
			return nil, fmt.Errorf("CONCAT: argument %d: %w", i+1, err)
		}
		builder.WriteString(str)
	}
	return builder.String(), nil
}

// LenFunc returns the length of a string in characters
type LenFunc struct{}

func (f *LenFunc) Name() string  { return "LEN" }
func (f *LenFunc) MinArity() int { return 1 }
func (f *LenFunc) MaxArity() int { return 1 }
func (f *LenFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("LEN: %w", err)
	}
	return int64(len([]rune(str))), nil
}

// TrimFunc trims whitespace from both ends of a string
type TrimFunc struct{}

func (f *TrimFunc) Name() string  { return "TRIM" }
func (f *TrimFunc) MinArity() int { return 1 }
func (f *TrimFunc) MaxArity() int { return 1 }
func (f *TrimFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("TRIM: %w", err)
	}
	return strings.TrimSpace(str), nil
}

// SubstrFunc extracts a substring. Positions are 1-based; the optional third
// argument is the length.
type SubstrFunc struct{}

func (f *SubstrFunc) Name() string  { return "SUBSTR" }
func (f *SubstrFunc) MinArity() int { return 2 }
func (f *SubstrFunc) MaxArity() int { return 3 }
func (f *SubstrFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("SUBSTR: %w", err)
	}
	startF, err := valueToNumber(args[1])
	if err != nil {
		return nil, fmt.Errorf("SUBSTR: start: %w", err)
	}

	runes := []rune(str)
	start := int(startF) - 1
	if start < 0 {
		start = 0
	}
	if start >= len(runes) {
		return "", nil
	}

	end := len(runes)
	if len(args) == 3 {
		lengthF, err := valueToNumber(args[2])
		if err != nil {
			return nil, fmt.Errorf("SUBSTR: length: %w", err)
		}
		if length := int(lengthF); length < 0 {
			return nil, fmt.Errorf("SUBSTR: negative length %d", length)
		} else if start+length < end {
			end = start + length
		}
	}
	return string(runes[start:end]), nil
}

// ContainsFunc reports whether the first string contains the second
type ContainsFunc struct{}

func (f *ContainsFunc) Name() string  { return "CONTAINS" }
func (f *ContainsFunc) MinArity() int { return 2 }
func (f *ContainsFunc) MaxArity() int { return 2 }
func (f *ContainsFunc) Evaluate(args []interface{}) (interface{}, error) {
	str, err := valueToString(args[0])
	if err != nil {
		return nil, fmt.Errorf("CONTAINS: %w", err)
	}
	sub, err := valueToString(args[1])
	if err != nil {
		return nil, fmt.Errorf("CONTAINS: substring: %w", err)
	}
	return strings.Contains(str, sub), nil
}
