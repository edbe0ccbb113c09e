package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/vegasq/parseq/sequence"
)

func person(name string, age int64) *sequence.Record {
	ds := sequence.NewDataStruct("name", "age")
	return sequence.NewRecord(ds).SetValues(name, age)
}

func TestExpression_Eval(t *testing.T) {
	ctx := NewContext()
	ctx.Set("limit", int64(30))

	tests := []struct {
		name  string
		src   string
		elem  interface{}
		index int
		want  interface{}
	}{
		{"field", "age", person("alice", 30), 1, int64(30)},
		{"field arithmetic", "age * 2", person("alice", 30), 1, int64(60)},
		{"field comparison with variable", "age >= limit", person("alice", 30), 1, true},
		{"string field", "upper(name)", person("alice", 30), 1, "ALICE"},
		{"element", "~ + 1", int64(41), 1, int64(42)},
		{"index", "# * 10", "ignored", 7, int64(70)},
		{"element and index", "~ * #", int64(5), 3, int64(15)},
		{"null comparison", "~ > 1", nil, 1, false},
		{"null equality", "~ = null", nil, 1, true},
		{"large integer equality", "~ = 1700000000000000000", int64(1700000000000000001), 1, false},
		{"large integer order", "~ > 1700000000000000000", int64(1700000000000000001), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Compile(tt.src, ctx)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := e.Eval(tt.elem, tt.index)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
			if ctx.Depth() != 0 {
				t.Errorf("context depth after Eval = %d, want 0", ctx.Depth())
			}
		})
	}
}

func TestExpression_FieldShadowsVariable(t *testing.T) {
	ctx := NewContext()
	ctx.Set("age", int64(99))
	e := MustCompile("age", ctx)

	got, err := e.Eval(person("bob", 20), 1)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != int64(20) {
		t.Errorf("Eval() = %v, want 20", got)
	}

	got, err = e.Eval(int64(0), 1)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != int64(99) {
		t.Errorf("Eval() on scalar = %v, want variable value 99", got)
	}
}

func TestExpression_Assignment(t *testing.T) {
	t.Run("accumulates into variable", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("total", int64(0))
		e := MustCompile("total := total + ~", ctx)
		for i, v := range []int64{1, 2, 3, 4} {
			if _, err := e.Eval(v, i+1); err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
		}
		if got, _ := ctx.Get("total"); got != int64(10) {
			t.Errorf("total = %v, want 10", got)
		}
	})

	t.Run("defines new variable", func(t *testing.T) {
		ctx := NewContext()
		e := MustCompile("last := ~", ctx)
		if _, err := e.Eval("x", 1); err != nil {
			t.Fatalf("Eval() error = %v", err)
		}
		if got, ok := ctx.Get("last"); !ok || got != "x" {
			t.Errorf("last = %v, %v; want x, true", got, ok)
		}
	})

	t.Run("writes record field", func(t *testing.T) {
		ctx := NewContext()
		rec := person("carol", 40)
		e := MustCompile("age := age + 1", ctx)
		if _, err := e.Eval(rec, 1); err != nil {
			t.Fatalf("Eval() error = %v", err)
		}
		if got, _ := rec.Get("age"); got != int64(41) {
			t.Errorf("age = %v, want 41", got)
		}
		if _, ok := ctx.Get("age"); ok {
			t.Error("assignment to a field must not define a variable")
		}
	})
}

func TestExpression_VariableSlotFollowsSet(t *testing.T) {
	ctx := NewContext()
	ctx.Set("x", int64(1))
	e := MustCompile("x", ctx)

	if got, _ := e.Eval(nil, 1); got != int64(1) {
		t.Fatalf("Eval() = %v, want 1", got)
	}
	ctx.Set("x", int64(5))
	if got, _ := e.Eval(nil, 1); got != int64(5) {
		t.Errorf("Eval() after Set = %v, want 5", got)
	}
}

func TestContext_NewComputeContextIsolation(t *testing.T) {
	parent := NewContext()
	parent.Set("n", int64(1))
	parent.Push("outer", 1)

	clone := parent.NewComputeContext()
	if clone.Depth() != 0 {
		t.Errorf("clone depth = %d, want 0", clone.Depth())
	}
	if got, _ := clone.Get("n"); got != int64(1) {
		t.Errorf("clone n = %v, want 1", got)
	}

	e := MustCompile("n := n + 1", parent).NewExpression(clone)
	if _, err := e.Eval(nil, 1); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	if got, _ := clone.Get("n"); got != int64(2) {
		t.Errorf("clone n = %v, want 2", got)
	}
	if got, _ := parent.Get("n"); got != int64(1) {
		t.Errorf("parent n = %v, want 1 (clone writes leaked)", got)
	}

	parent.Set("m", "only in parent")
	if _, ok := clone.Get("m"); ok {
		t.Error("variable defined on parent after cloning is visible in clone")
	}
}

func TestExpression_NewExpressionRebinds(t *testing.T) {
	ctx1 := NewContext()
	ctx1.Set("x", int64(1))
	ctx2 := NewContext()
	ctx2.Set("x", int64(2))

	e1 := MustCompile("x", ctx1)
	if got, _ := e1.Eval(nil, 1); got != int64(1) {
		t.Fatalf("e1.Eval() = %v, want 1", got)
	}

	e2 := e1.NewExpression(ctx2)
	if got, _ := e2.Eval(nil, 1); got != int64(2) {
		t.Errorf("rebound Eval() = %v, want 2", got)
	}
	if got, _ := e1.Eval(nil, 1); got != int64(1) {
		t.Errorf("original Eval() after rebind = %v, want 1", got)
	}
	if e2.Context() != ctx2 || e2.Source() != e1.Source() {
		t.Error("rebound expression has wrong context or source")
	}
}

func TestCompile_UsesParseCache(t *testing.T) {
	src := "abs(~) + 12345"
	e1 := MustCompile(src, nil)
	e2 := MustCompile(src, NewContext())
	if e1.root != e2.root {
		t.Error("same source parsed twice")
	}
}

func TestExpression_IdentifierName(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"age", "age"},
		{"  age  ", "age"},
		{"age + 1", "age + 1"},
		{" upper(name) ", "upper(name)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := MustCompile(tt.src, nil).IdentifierName(); got != tt.want {
				t.Errorf("IdentifierName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNull(t *testing.T) {
	ctx := NewContext()
	e := Null.NewExpression(ctx)
	got, err := e.Eval(person("dave", 50), 1)
	if err != nil || got != nil {
		t.Errorf("Null.Eval() = %v, %v; want nil, nil", got, err)
	}
}

func TestExpression_EvalErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		elem    interface{}
		wantMsg string
	}{
		{"error function", "error('boom')", nil, "boom"},
		{"conditional error", "error('bad ' + ~, ~ = 'x')", "x", "bad x"},
		{"unknown name", "nosuchthing + 1", int64(1), "nosuchthing"},
		{"division by zero", "~ / 0", int64(1), "division by zero"},
		{"incomparable", "~ < 'a'", true, "not comparable"},
		{"bad arithmetic", "~ * 2", "abc", "cannot apply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			e := MustCompile(tt.src, ctx)
			_, err := e.Eval(tt.elem, 1)
			if !errors.Is(err, ErrEvaluation) {
				t.Fatalf("Eval() error = %v, want ErrEvaluation", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Eval() error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if ctx.Depth() != 0 {
				t.Errorf("context depth after failed Eval = %d, want 0", ctx.Depth())
			}
		})
	}

	t.Run("conditional error not raised", func(t *testing.T) {
		got, err := MustCompile("error('bad', ~ = 'x')", nil).Eval("y", 1)
		if err != nil || got != nil {
			t.Errorf("Eval() = %v, %v; want nil, nil", got, err)
		}
	})
}
