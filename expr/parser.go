package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses expressions into a tree
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *ExpressionDepthCounter
	registry     *FunctionRegistry
}

// NewParser creates a new parser that resolves calls against registry
func NewParser(tokens []Token, registry *FunctionRegistry) *Parser {
	return &Parser{
		tokens:       tokens,
		pos:          0,
		depthCounter: NewExpressionDepthCounter(),
		registry:     registry,
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return fmt.Errorf("%w: expected %v, got %q", ErrSyntax, tokType, p.current().Value)
	}
	p.advance()
	return nil
}

// parse parses an expression source into a tree
func parse(src string, registry *FunctionRegistry) (node, error) {
	if err := ValidateExpression(src); err != nil {
		return nil, err
	}

	tokens := Tokenize(src)
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}
	if last := tokens[len(tokens)-1]; last.Type == TokenError {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, last.Value)
	}

	p := NewParser(tokens, registry)
	n, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, fmt.Errorf("%w: unexpected %q after expression", ErrSyntax, p.current().Value)
	}
	return n, nil
}

// parseAssign parses name := value (lowest precedence, right associative)
func (p *Parser) parseAssign() (node, error) {
	if p.current().Type == TokenIdent && p.peek().Type == TokenAssign {
		name := p.current().Value
		if err := ValidateIdentifier(name); err != nil {
			return nil, err
		}
		p.advance()
		p.advance()
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &assignNode{name: name, value: value}, nil
	}
	return p.parseOr()
}

// parseOr parses OR expressions
func (p *Parser) parseOr() (node, error) {
	if err := p.depthCounter.Enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: TokenOr, left: left, right: right}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: TokenAnd, left: left, right: right}
	}

	return left, nil
}

// parseNot parses NOT prefixes
func (p *Parser) parseNot() (node, error) {
	if p.current().Type == TokenNot {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: TokenNot, operand: operand}, nil
	}
	return p.parseComparison()
}

// parseComparison parses a single, non-chained comparison
func (p *Parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	switch op := p.current().Type; op {
	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: op, left: left, right: right}, nil
	}

	return left, nil
}

// parseAdditive parses + and -
func (p *Parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := p.current().Type
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

// parseMultiplicative parses *, / and %
func (p *Parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenStar || p.current().Type == TokenSlash || p.current().Type == TokenPercent {
		op := p.current().Type
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

// parseUnary parses unary minus
func (p *Parser) parseUnary() (node, error) {
	if p.current().Type == TokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// Fold negative literals
		if lit, ok := operand.(*literalNode); ok {
			switch v := lit.value.(type) {
			case int64:
				return &literalNode{value: -v}, nil
			case float64:
				return &literalNode{value: -v}, nil
			}
		}
		return &unaryNode{op: TokenMinus, operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses literals, references, calls and parenthesized expressions
func (p *Parser) parsePrimary() (node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		// Try to parse as int first, then float
		if intVal, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return &literalNode{value: intVal}, nil
		}
		if floatVal, err := strconv.ParseFloat(tok.Value, 64); err == nil {
			return &literalNode{value: floatVal}, nil
		}
		return nil, fmt.Errorf("%w: invalid number %q", ErrSyntax, tok.Value)
	case TokenString:
		p.advance()
		return &literalNode{value: tok.Value}, nil
	case TokenBool:
		p.advance()
		return &literalNode{value: strings.ToLower(tok.Value) == "true"}, nil
	case TokenNull:
		p.advance()
		return &literalNode{value: nil}, nil
	case TokenElement:
		p.advance()
		return &elementNode{}, nil
	case TokenIndex:
		p.advance()
		return &indexNode{}, nil
	case TokenLeftParen:
		p.advance()
		n, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return n, nil
	case TokenIdent:
		if err := ValidateIdentifier(tok.Value); err != nil {
			return nil, err
		}
		p.advance()
		if p.current().Type == TokenLeftParen {
			return p.parseCall(tok.Value)
		}
		return &identNode{name: tok.Value}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %v %q", ErrSyntax, tok.Type, tok.Value)
	}
}

// parseCall parses the argument list of name(...) and checks arity
func (p *Parser) parseCall(name string) (node, error) {
	fn, ok := p.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	p.advance() // skip (

	var args []node
	if p.current().Type != TokenRightParen {
		for {
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}

	if minArity := fn.MinArity(); minArity >= 0 && len(args) < minArity {
		return nil, fmt.Errorf("%w: function %s: expected at least %d arguments, got %d", ErrSyntax, name, minArity, len(args))
	}
	if maxArity := fn.MaxArity(); maxArity >= 0 && len(args) > maxArity {
		return nil, fmt.Errorf("%w: function %s: expected at most %d arguments, got %d", ErrSyntax, name, maxArity, len(args))
	}

	return &callNode{name: name, fn: fn, args: args}, nil
}
