package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vegasq/parseq/sequence"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes every record of t in the formatter's specific format
	Format(t *sequence.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

var constructors = map[string]func(io.Writer) Formatter{
	"json":  func(w io.Writer) Formatter { return NewJSONFormatter(w) },
	"jsonl": func(w io.Writer) Formatter { return NewJSONLinesFormatter(w) },
	"csv":   func(w io.Writer) Formatter { return NewCSVFormatter(w) },
	"table": func(w io.Writer) Formatter { return NewTableFormatter(w) },
}

// Formats lists the names accepted by New, sorted
func Formats() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the formatter registered under name, writing to w
func New(name string, w io.Writer) (Formatter, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported format '%s' (supported: %s)", name, strings.Join(Formats(), ", "))
	}
	return ctor(w), nil
}

// records returns the records of t in order. Elements that are not records
// of t's structure are rejected.
func records(t *sequence.Table) ([]*sequence.Record, error) {
	values := t.Sequence().Values()
	out := make([]*sequence.Record, len(values))
	for i, v := range values {
		r, ok := v.(*sequence.Record)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, not a record", i+1, v)
		}
		out[i] = r
	}
	return out, nil
}
