package expr

import (
	"fmt"
	"math"

	"github.com/vegasq/parseq/sequence"
)

// node is one element of a parsed expression tree. Nodes are immutable and
// shared by every Expression compiled from the same source; anything that
// depends on the evaluation context lives in the binding.
type node interface {
	eval(b *binding) (interface{}, error)
}

// literalNode is a number, string, bool or null literal
type literalNode struct {
	value interface{}
}

// identNode references a field of the current record or a context variable
type identNode struct {
	name string
}

// elementNode is ~, the current element
type elementNode struct{}

// indexNode is #, the current 1-based index
type indexNode struct{}

// unaryNode is -x or not x
type unaryNode struct {
	op      TokenType
	operand node
}

// binaryNode is an arithmetic, comparison or logical operation
type binaryNode struct {
	op          TokenType
	left, right node
}

// assignNode is name := value
type assignNode struct {
	name  string
	value node
}

// callNode is a function call
type callNode struct {
	name string
	fn   Function
	args []node
}

func (n *literalNode) eval(*binding) (interface{}, error) {
	return n.value, nil
}

func (n *identNode) eval(b *binding) (interface{}, error) {
	if rec, ok := b.ctx.currentElement().(*sequence.Record); ok {
		if v, found := rec.Get(n.name); found {
			return v, nil
		}
	}
	if slot := b.slot(n.name, false); slot != nil {
		return slot.Value, nil
	}
	return nil, fmt.Errorf("%w: %q is neither a field nor a variable", ErrEvaluation, n.name)
}

func (n *elementNode) eval(b *binding) (interface{}, error) {
	return b.ctx.currentElement(), nil
}

func (n *indexNode) eval(b *binding) (interface{}, error) {
	return int64(b.ctx.currentIndex()), nil
}

func (n *unaryNode) eval(b *binding) (interface{}, error) {
	v, err := n.operand.eval(b)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case TokenNot:
		return !sequence.IsTrue(v), nil
	case TokenMinus:
		if v == nil {
			return nil, nil
		}
		if i, ok := toInt64(v); ok {
			return -i, nil
		}
		if f, ok := sequence.ToFloat64(v); ok {
			return -f, nil
		}
		return nil, fmt.Errorf("%w: cannot negate %T", ErrEvaluation, v)
	default:
		return nil, fmt.Errorf("%w: unsupported unary operator %v", ErrEvaluation, n.op)
	}
}

func (n *binaryNode) eval(b *binding) (interface{}, error) {
	left, err := n.left.eval(b)
	if err != nil {
		return nil, err
	}

	// and/or short-circuit
	switch n.op {
	case TokenAnd:
		if !sequence.IsTrue(left) {
			return false, nil
		}
		right, err := n.right.eval(b)
		if err != nil {
			return nil, err
		}
		return sequence.IsTrue(right), nil
	case TokenOr:
		if sequence.IsTrue(left) {
			return true, nil
		}
		right, err := n.right.eval(b)
		if err != nil {
			return nil, err
		}
		return sequence.IsTrue(right), nil
	}

	right, err := n.right.eval(b)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case TokenEqual:
		return sequence.Equal(left, right), nil
	case TokenNotEqual:
		return !sequence.Equal(left, right), nil
	case TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		return compare(left, n.op, right)
	default:
		return arithmetic(left, n.op, right)
	}
}

func (n *assignNode) eval(b *binding) (interface{}, error) {
	v, err := n.value.eval(b)
	if err != nil {
		return nil, err
	}
	if rec, ok := b.ctx.currentElement().(*sequence.Record); ok {
		if rec.Set(n.name, v) == nil {
			return v, nil
		}
	}
	b.slot(n.name, true).Value = v
	return v, nil
}

func (n *callNode) eval(b *binding) (interface{}, error) {
	args := make([]interface{}, len(n.args))
	for i, arg := range n.args {
		val, err := arg.eval(b)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	v, err := n.fn.Evaluate(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	return v, nil
}

// compare orders two values; nil on either side yields false
func compare(left interface{}, op TokenType, right interface{}) (interface{}, error) {
	if left == nil || right == nil {
		return false, nil
	}
	c, err := sequence.NaturalCompare(left, right)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	switch op {
	case TokenLess:
		return c < 0, nil
	case TokenGreater:
		return c > 0, nil
	case TokenLessEqual:
		return c <= 0, nil
	default:
		return c >= 0, nil
	}
}

// arithmetic applies + - * / %. Integer operands stay integers except for
// division; + also concatenates strings. A nil operand yields nil.
func arithmetic(left interface{}, op TokenType, right interface{}) (interface{}, error) {
	if left == nil || right == nil {
		return nil, nil
	}

	if op == TokenPlus {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok && rok {
			return ls + rs, nil
		}
	}

	li, lInt := toInt64(left)
	ri, rInt := toInt64(right)
	if lInt && rInt && op != TokenSlash {
		switch op {
		case TokenPlus:
			return li + ri, nil
		case TokenMinus:
			return li - ri, nil
		case TokenStar:
			return li * ri, nil
		case TokenPercent:
			if ri == 0 {
				return nil, fmt.Errorf("%w: modulo by zero", ErrEvaluation)
			}
			return li % ri, nil
		}
	}

	lf, lNum := sequence.ToFloat64(left)
	rf, rNum := sequence.ToFloat64(right)
	if !lNum || !rNum {
		return nil, fmt.Errorf("%w: cannot apply %v to %T and %T", ErrEvaluation, op, left, right)
	}
	switch op {
	case TokenPlus:
		return lf + rf, nil
	case TokenMinus:
		return lf - rf, nil
	case TokenStar:
		return lf * rf, nil
	case TokenSlash:
		if rf == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrEvaluation)
		}
		return lf / rf, nil
	case TokenPercent:
		if rf == 0 {
			return nil, fmt.Errorf("%w: modulo by zero", ErrEvaluation)
		}
		return math.Mod(lf, rf), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %v", ErrEvaluation, op)
	}
}

// toInt64 converts signed and unsigned integer kinds to int64
func toInt64(v interface{}) (int64, bool) {
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
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	default:
		return 0, false
	}
}
