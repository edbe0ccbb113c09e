// Package expr implements the expression language evaluated by parseq
// operations.
//
// An expression is parsed once into an immutable tree and bound to a
// Context. Binding is what makes concurrent evaluation safe: a Context holds
// variable bindings and the stack of elements currently being evaluated,
// so each goroutine works on its own clone (Context.NewComputeContext) with
// an expression rebound to that clone (Expression.NewExpression).
//
// Example usage:
//
//	ctx := expr.NewContext()
//	ctx.Set("limit", 30)
//	e, err := expr.Compile("age > limit and name != 'bob'", ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	adults, err := table.Sequence().Select(e)
package expr

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenBool
	TokenNull

	// Operators
	TokenEqual        // = or ==
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenPercent      // %
	TokenAssign       // :=

	// Literals
	TokenString
	TokenNumber
	TokenIdent

	// Element references
	TokenElement // ~
	TokenIndex   // #

	// Delimiters
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenBool:         "BOOL",
	TokenNull:         "NULL",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenAssign:       ":=",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenIdent:        "IDENT",
	TokenElement:      "~",
	TokenIndex:        "#",
	TokenComma:        ",",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenEOF:          "EOF",
	TokenError:        "ERROR",
}

// String returns a readable token name for error messages
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}
