package expr

import (
	"errors"
	"fmt"
)

// Validation constants to prevent resource exhaustion
const (
	// MaxExpressionLength is the maximum allowed expression length (64KB)
	MaxExpressionLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in an expression
	MaxTokens = 1000

	// MaxExpressionDepth is the maximum nesting depth for expressions
	MaxExpressionDepth = 100

	// MaxIdentifierLength is the maximum length for a field or variable name
	MaxIdentifierLength = 256
)

var (
	// ErrExpressionTooLong is returned when an expression exceeds MaxExpressionLength
	ErrExpressionTooLong = errors.New("expression too long")

	// ErrTooManyTokens is returned when an expression has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in expression")

	// ErrExpressionTooDeep is returned when expression nesting exceeds limit
	ErrExpressionTooDeep = errors.New("expression nesting too deep")

	// ErrIdentifierTooLong is returned when a name is too long
	ErrIdentifierTooLong = errors.New("identifier too long")

	// ErrSyntax is returned for malformed expressions
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownFunction is returned when a call names an unregistered function
	ErrUnknownFunction = errors.New("unknown function")

	// ErrEvaluation wraps failures raised while evaluating an expression
	ErrEvaluation = errors.New("evaluation error")
)

// ValidateExpression performs length validation on expression input
func ValidateExpression(src string) error {
	if len(src) > MaxExpressionLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrExpressionTooLong, len(src), MaxExpressionLength)
	}
	return nil
}

// ValidateIdentifier validates identifier length
func ValidateIdentifier(name string) error {
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrIdentifierTooLong, len(name), MaxIdentifierLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ExpressionDepthCounter tracks expression nesting depth
type ExpressionDepthCounter struct {
	depth    int
	maxDepth int
}

// NewExpressionDepthCounter creates a new depth counter
func NewExpressionDepthCounter() *ExpressionDepthCounter {
	return &ExpressionDepthCounter{depth: 0, maxDepth: MaxExpressionDepth}
}

// Enter increments depth and returns error if limit exceeded
func (c *ExpressionDepthCounter) Enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth
func (c *ExpressionDepthCounter) Exit() {
	c.depth--
}
