package expr

import (
	"errors"
	"fmt"
	"math"
)

// Math Functions
//
// Integer arguments keep integer results wherever the result is exact
// (abs, round, floor, ceil, mod), matching the arithmetic operators. A null
// argument yields null.

var errDivisionByZero = errors.New("division by zero")

// AbsFunc returns the absolute value of a number
type AbsFunc struct{}

func (f *AbsFunc) Name() string  { return "ABS" }
func (f *AbsFunc) MinArity() int { return 1 }
func (f *AbsFunc) MaxArity() int { return 1 }
func (f *AbsFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	if i, ok := toInt64(args[0]); ok {
		if i == math.MinInt64 {
			return nil, fmt.Errorf("ABS: %d overflows int64", i)
		}
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	num, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("ABS: %w", err)
	}
	return math.Abs(num), nil
}

// RoundFunc rounds half away from zero to the given number of decimal
// places (default 0; negative rounds to tens, hundreds, ...)
type RoundFunc struct{}

func (f *RoundFunc) Name() string  { return "ROUND" }
func (f *RoundFunc) MinArity() int { return 1 }
func (f *RoundFunc) MaxArity() int { return 2 }
func (f *RoundFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}

	places := int64(0)
	if len(args) == 2 {
		p, err := valueToNumber(args[1])
		if err != nil {
			return nil, fmt.Errorf("ROUND: decimals: %w", err)
		}
		places = int64(p)
	}

	if i, ok := toInt64(args[0]); ok {
		if places >= 0 {
			return i, nil
		}
		return roundInt(i, -places), nil
	}

	num, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("ROUND: %w", err)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(num*scale) / scale, nil
}

// roundInt rounds i half away from zero to a multiple of 10^digits
func roundInt(i, digits int64) int64 {
	if digits > 18 {
		return 0
	}
	unit := int64(1)
	for ; digits > 0; digits-- {
		unit *= 10
	}
	rem := i % unit
	i -= rem
	switch {
	case rem*2 >= unit:
		i += unit
	case rem*2 <= -unit:
		i -= unit
	}
	return i
}

// FloorFunc returns the largest integer less than or equal to a number
type FloorFunc struct{}

func (f *FloorFunc) Name() string  { return "FLOOR" }
func (f *FloorFunc) MinArity() int { return 1 }
func (f *FloorFunc) MaxArity() int { return 1 }
func (f *FloorFunc) Evaluate(args []interface{}) (interface{}, error) {
	return integral(f.Name(), args[0], math.Floor)
}

// CeilFunc returns the smallest integer greater than or equal to a number
type CeilFunc struct{}

func (f *CeilFunc) Name() string  { return "CEIL" }
func (f *CeilFunc) MinArity() int { return 1 }
func (f *CeilFunc) MaxArity() int { return 1 }
func (f *CeilFunc) Evaluate(args []interface{}) (interface{}, error) {
	return integral(f.Name(), args[0], math.Ceil)
}

// integral applies fn to floats and returns integers unchanged
func integral(name string, v interface{}, fn func(float64) float64) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if i, ok := toInt64(v); ok {
		return i, nil
	}
	num, err := valueToNumber(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return fn(num), nil
}

// ModFunc returns the remainder of division, with the sign of the dividend
type ModFunc struct{}

func (f *ModFunc) Name() string  { return "MOD" }
func (f *ModFunc) MinArity() int { return 2 }
func (f *ModFunc) MaxArity() int { return 2 }
func (f *ModFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}

	a, aInt := toInt64(args[0])
	b, bInt := toInt64(args[1])
	if aInt && bInt {
		if b == 0 {
			return nil, fmt.Errorf("MOD: %w", errDivisionByZero)
		}
		if b == -1 {
			return int64(0), nil
		}
		return a % b, nil
	}

	dividend, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("MOD: dividend: %w", err)
	}
	divisor, err := valueToNumber(args[1])
	if err != nil {
		return nil, fmt.Errorf("MOD: divisor: %w", err)
	}
	if divisor == 0 {
		return nil, fmt.Errorf("MOD: %w", errDivisionByZero)
	}
	return math.Mod(dividend, divisor), nil
}

// SqrtFunc returns the square root as a float
type SqrtFunc struct{}

func (f *SqrtFunc) Name() string  { return "SQRT" }
func (f *SqrtFunc) MinArity() int { return 1 }
func (f *SqrtFunc) MaxArity() int { return 1 }
func (f *SqrtFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	num, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("SQRT: %w", err)
	}
	if num < 0 {
		return nil, fmt.Errorf("SQRT: negative argument %v", num)
	}
	return math.Sqrt(num), nil
}

// PowFunc raises a number to a power; the result is always a float
type PowFunc struct{}

func (f *PowFunc) Name() string  { return "POW" }
func (f *PowFunc) MinArity() int { return 2 }
func (f *PowFunc) MaxArity() int { return 2 }
func (f *PowFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}
	base, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("POW: base: %w", err)
	}
	exp, err := valueToNumber(args[1])
	if err != nil {
		return nil, fmt.Errorf("POW: exponent: %w", err)
	}
	return math.Pow(base, exp), nil
}
