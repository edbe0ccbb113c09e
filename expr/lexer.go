package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes expression strings
type Lexer struct {
	input string
	pos   int // byte offset of the next character
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += size
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a quoted string
func (l *Lexer) readString(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case quote:
				result.WriteRune(quote)
			default:
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.ch != quote {
		return result.String(), false
	}
	l.readChar() // skip closing quote
	return result.String(), true
}

// readNumber reads an unsigned integer or decimal number
func (l *Lexer) readNumber() string {
	var result strings.Builder
	for unicode.IsDigit(l.ch) || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// two consumes a two-character operator
func (l *Lexer) two(t TokenType, value string) Token {
	l.readChar()
	l.readChar()
	return Token{Type: t, Value: value}
}

// one consumes a single-character operator
func (l *Lexer) one(t TokenType) Token {
	tok := Token{Type: t, Value: string(l.ch)}
	l.readChar()
	return tok
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Value: ""}
	case '=':
		if l.peekChar() == '=' {
			return l.two(TokenEqual, "==")
		}
		return l.one(TokenEqual)
	case '!':
		if l.peekChar() == '=' {
			return l.two(TokenNotEqual, "!=")
		}
		return l.one(TokenNot)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.two(TokenLessEqual, "<=")
		case '>':
			return l.two(TokenNotEqual, "<>")
		}
		return l.one(TokenLess)
	case '>':
		if l.peekChar() == '=' {
			return l.two(TokenGreaterEqual, ">=")
		}
		return l.one(TokenGreater)
	case '&':
		if l.peekChar() == '&' {
			return l.two(TokenAnd, "&&")
		}
		return l.one(TokenError)
	case '|':
		if l.peekChar() == '|' {
			return l.two(TokenOr, "||")
		}
		return l.one(TokenError)
	case ':':
		if l.peekChar() == '=' {
			return l.two(TokenAssign, ":=")
		}
		return l.one(TokenError)
	case '+':
		return l.one(TokenPlus)
	case '-':
		return l.one(TokenMinus)
	case '*':
		return l.one(TokenStar)
	case '/':
		return l.one(TokenSlash)
	case '%':
		return l.one(TokenPercent)
	case '~':
		return l.one(TokenElement)
	case '#':
		return l.one(TokenIndex)
	case ',':
		return l.one(TokenComma)
	case '(':
		return l.one(TokenLeftParen)
	case ')':
		return l.one(TokenRightParen)
	case '\'', '"':
		value, closed := l.readString(l.ch)
		if !closed {
			return Token{Type: TokenError, Value: "unterminated string"}
		}
		return Token{Type: TokenString, Value: value}
	}

	if unicode.IsDigit(l.ch) {
		return Token{Type: TokenNumber, Value: l.readNumber()}
	}
	if unicode.IsLetter(l.ch) || l.ch == '_' {
		value := l.readIdentifier()
		return Token{Type: identifierType(value), Value: value}
	}
	return l.one(TokenError)
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"true":  TokenBool,
	"false": TokenBool,
	"null":  TokenNull,
}

// identifierType determines if an identifier is a keyword (case-insensitive)
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToLower(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
