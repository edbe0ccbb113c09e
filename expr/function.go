package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/vegasq/parseq/sequence"
)

// Function represents a scalar function that can be evaluated
type Function interface {
	// Name returns the function name (case-insensitive)
	Name() string
	// MinArity returns the minimum number of arguments (-1 for variadic with no minimum)
	MinArity() int
	// MaxArity returns the maximum number of arguments (-1 for unlimited)
	MaxArity() int
	// Evaluate evaluates the function with the given arguments
	Evaluate(args []interface{}) (interface{}, error)
}

// FunctionRegistry manages function lookup and registration
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry creates a new function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register registers a function
func (r *FunctionRegistry) Register(f Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[strings.ToUpper(f.Name())] = f
}

// Get retrieves a function by name (case-insensitive)
func (r *FunctionRegistry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, exists := r.functions[strings.ToUpper(name)]
	return f, exists
}

// globalRegistry is the default function registry
var globalRegistry *FunctionRegistry

func init() {
	globalRegistry = NewFunctionRegistry()

	// Register string functions
	globalRegistry.Register(&UpperFunc{})
	globalRegistry.Register(&LowerFunc{})
	globalRegistry.Register(&ConcatFunc{})
	globalRegistry.Register(&LenFunc{})
	globalRegistry.Register(&TrimFunc{})
	globalRegistry.Register(&SubstrFunc{})
	globalRegistry.Register(&ContainsFunc{})

	// Register math functions
	globalRegistry.Register(&AbsFunc{})
	globalRegistry.Register(&RoundFunc{})
	globalRegistry.Register(&FloorFunc{})
	globalRegistry.Register(&CeilFunc{})
	globalRegistry.Register(&ModFunc{})
	globalRegistry.Register(&SqrtFunc{})
	globalRegistry.Register(&PowFunc{})

	// Register conditional functions
	globalRegistry.Register(&IfFunc{})
	globalRegistry.Register(&CoalesceFunc{})
	globalRegistry.Register(&ErrorFunc{})
}

// GetGlobalRegistry returns the global function registry
func GetGlobalRegistry() *FunctionRegistry {
	return globalRegistry
}

// valueToString converts a scalar value to string
func valueToString(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32, float64:
		return fmt.Sprintf("%v", val), nil
	case bool:
		return fmt.Sprintf("%t", val), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", v)
	}
}

// valueToNumber converts a number or numeric string to float64
func valueToNumber(v interface{}) (float64, error) {
	if f, ok := sequence.ToFloat64(v); ok {
		return f, nil
	}
	if s, ok := v.(string); ok {
		return strconv.ParseFloat(s, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to number", v)
}

// Conditional Functions

// IfFunc returns its second argument when the first is true, else the third
type IfFunc struct{}

func (f *IfFunc) Name() string  { return "IF" }
func (f *IfFunc) MinArity() int { return 2 }
func (f *IfFunc) MaxArity() int { return 3 }
func (f *IfFunc) Evaluate(args []interface{}) (interface{}, error) {
	if sequence.IsTrue(args[0]) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return nil, nil
}

// CoalesceFunc returns the first non-null argument
type CoalesceFunc struct{}

func (f *CoalesceFunc) Name() string  { return "COALESCE" }
func (f *CoalesceFunc) MinArity() int { return 1 }
func (f *CoalesceFunc) MaxArity() int { return -1 }
func (f *CoalesceFunc) Evaluate(args []interface{}) (interface{}, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}

// ErrorFunc fails the evaluation with the given message when its optional
// condition is true (or always, with one argument).
type ErrorFunc struct{}

func (f *ErrorFunc) Name() string  { return "ERROR" }
func (f *ErrorFunc) MinArity() int { return 1 }
func (f *ErrorFunc) MaxArity() int { return 2 }
func (f *ErrorFunc) Evaluate(args []interface{}) (interface{}, error) {
	if len(args) == 2 && !sequence.IsTrue(args[1]) {
		return nil, nil
	}
	msg, err := valueToString(args[0])
	if err != nil {
		msg = fmt.Sprintf("%v", args[0])
	}
	return nil, errors.New(msg)
}
