package expr

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"identifier", "age"},
		{"comparison", "age > 30"},
		{"logical", "age > 30 and name != 'bob' or not active"},
		{"symbolic logical", "age > 30 && (x || !y)"},
		{"arithmetic", "(a + b) * c - d / 2 % 3"},
		{"assignment", "total := total + ~"},
		{"element and index", "~ * #"},
		{"negative literal", "-5 + -x"},
		{"call", "upper(trim(name))"},
		{"variadic call", "concat(a, '-', b, '-', c)"},
		{"nested parens", "((((1))))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(tt.src, GetGlobalRegistry()); err != nil {
				t.Errorf("parse(%q) error = %v", tt.src, err)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"empty", "", ErrSyntax},
		{"dangling operator", "age >", ErrSyntax},
		{"incomplete and", "a and", ErrSyntax},
		{"chained comparison", "1 < 2 < 3", ErrSyntax},
		{"missing paren", "(a + b", ErrSyntax},
		{"trailing tokens", "a b", ErrSyntax},
		{"lexer error", "a & b", ErrSyntax},
		{"unknown function", "frobnicate(1)", ErrUnknownFunction},
		{"too few arguments", "pow(2)", ErrSyntax},
		{"too many arguments", "abs(1, 2)", ErrSyntax},
		{"too long", strings.Repeat("a", MaxExpressionLength+1), ErrExpressionTooLong},
		{"long identifier", strings.Repeat("a", MaxIdentifierLength+1), ErrIdentifierTooLong},
		{"too many tokens", strings.Repeat("1+", MaxTokens) + "1", ErrTooManyTokens},
		{"too deep", strings.Repeat("(", MaxExpressionDepth+1) + "1" + strings.Repeat(")", MaxExpressionDepth+1), ErrExpressionTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.src, GetGlobalRegistry())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want interface{}
	}{
		{"1 + 2 * 3", int64(7)},
		{"(1 + 2) * 3", int64(9)},
		{"10 - 4 - 3", int64(3)},
		{"7 / 2", 3.5},
		{"7 % 4", int64(3)},
		{"-2 * 3", int64(-6)},
		{"1 + 1 = 2", true},
		{"not 1 = 2", true},
		{"true or false and false", true},
		{"(true or false) and false", false},
		{"'a' + 'b'", "ab"},
		{"1 + null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src, nil)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := e.Calc()
			if err != nil {
				t.Fatalf("Calc() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Calc() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}
