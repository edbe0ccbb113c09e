package expr

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ParseCacheSize is the number of distinct sources whose parsed trees are kept
const ParseCacheSize = 512

var parseCache *lru.Cache[string, node]

func init() {
	c, err := lru.New[string, node](ParseCacheSize)
	if err != nil {
		panic(err)
	}
	parseCache = c
}

// Expression is a parsed expression bound to one Context. The parsed tree is
// shared; the binding is not, so an Expression must only be evaluated by the
// goroutine that owns its Context.
type Expression struct {
	src  string
	root node
	b    *binding
}

// Null is an expression that always yields nil. It is bound to a private
// context; bind it with NewExpression before use.
var Null = &Expression{src: "null", root: &literalNode{}, b: newBinding(NewContext())}

// Compile parses src and binds it to ctx. A nil ctx gets a fresh Context.
// Parsed trees are cached by source text.
func Compile(src string, ctx *Context) (*Expression, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	root, ok := parseCache.Get(src)
	if !ok {
		var err error
		root, err = parse(src, globalRegistry)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		parseCache.Add(src, root)
	}
	return &Expression{src: src, root: root, b: newBinding(ctx)}, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(src string, ctx *Context) *Expression {
	e, err := Compile(src, ctx)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the text the expression was compiled from
func (e *Expression) Source() string {
	return e.src
}

// Context returns the bound context
func (e *Expression) Context() *Context {
	return e.b.ctx
}

// IdentifierName returns the field or variable name when the expression is a
// bare identifier, otherwise its trimmed source.
func (e *Expression) IdentifierName() string {
	if id, ok := e.root.(*identNode); ok {
		return id.name
	}
	return strings.TrimSpace(e.src)
}

// NewExpression returns the same parsed tree bound to ctx, with none of the
// receiver's resolved variable slots.
func (e *Expression) NewExpression(ctx *Context) *Expression {
	return &Expression{src: e.src, root: e.root, b: newBinding(ctx)}
}

// Eval evaluates the expression with elem as the current element at 1-based
// position index.
func (e *Expression) Eval(elem interface{}, index int) (interface{}, error) {
	e.b.ctx.Push(elem, index)
	defer e.b.ctx.Pop()
	return e.root.eval(e.b)
}

// Calc evaluates the expression without a current element
func (e *Expression) Calc() (interface{}, error) {
	return e.root.eval(e.b)
}

func (e *Expression) String() string {
	return e.src
}
