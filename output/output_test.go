package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/vegasq/parseq/sequence"
)

var userStruct = sequence.NewDataStruct("name", "id", "age")

func users() *sequence.Table {
	t := sequence.NewTable(userStruct, 3)
	t.NewRecord().SetValues("alice", int64(1), int32(30))
	t.NewRecord().SetValues("bob", int64(2), nil)
	t.NewRecord().SetValues("=SUM(A1)", int64(3), int32(41))
	return t
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    interface{}
		wantErr bool
	}{
		{"json", &JSONFormatter{}, false},
		{"jsonl", &JSONLinesFormatter{}, false},
		{"CSV", &CSVFormatter{}, false},
		{"table", &TableFormatter{}, false},
		{"xml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.name, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), "jsonl") {
					t.Errorf("error %q should list supported formats", err)
				}
				return
			}
			if reflect.TypeOf(f) != reflect.TypeOf(tt.want) {
				t.Errorf("New(%q) = %T, want %T", tt.name, f, tt.want)
			}
		})
	}
}

func TestFormats(t *testing.T) {
	want := []string{"csv", "json", "jsonl", "table"}
	if got := Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestJSONLinesFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONLinesFormatter(&buf).Format(users()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if want := `{"name":"alice","id":1,"age":30}`; lines[0] != want {
		t.Errorf("line 1 = %s, want %s", lines[0], want)
	}
	if want := `{"name":"bob","id":2,"age":null}`; lines[1] != want {
		t.Errorf("line 2 = %s, want %s", lines[1], want)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name  string
		table *sequence.Table
		want  []map[string]interface{}
	}{
		{
			name:  "empty table",
			table: sequence.NewTable(userStruct, 0),
			want:  []map[string]interface{}{},
		},
		{
			name:  "records",
			table: users(),
			want: []map[string]interface{}{
				{"name": "alice", "id": float64(1), "age": float64(30)},
				{"name": "bob", "id": float64(2), "age": nil},
				{"name": "=SUM(A1)", "id": float64(3), "age": float64(41)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewJSONFormatter(&buf).Format(tt.table); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			var got []map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONFormatter_KeepsFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(users()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !(strings.Index(out, `"name"`) < strings.Index(out, `"id"`) && strings.Index(out, `"id"`) < strings.Index(out, `"age"`)) {
		t.Errorf("keys out of field order:\n%s", out)
	}
}

func TestJSONFormatter_UnsupportedValue(t *testing.T) {
	tbl := sequence.NewTable(sequence.NewDataStruct("x"), 1)
	tbl.NewRecord().SetValues(math.NaN())

	if err := NewJSONFormatter(&bytes.Buffer{}).Format(tbl); err == nil {
		t.Error("Format() of NaN succeeded, want error")
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(users()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{
		{"name", "id", "age"},
		{"alice", "1", "30"},
		{"bob", "2", ""},
		{"'=SUM(A1)", "3", "41"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Format() = %v, want %v", got, want)
	}
}

func TestCSVFormatter_EmptyTableWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(sequence.NewTable(userStruct, 0)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "name,id,age\n" {
		t.Errorf("Format() = %q, want header only", got)
	}
}

func TestFormatCSVValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{"", ""},
		{"=1+1", "'=1+1"},
		{"+cmd", "'+cmd"},
		{"-1", "'-1"},
		{"@SUM", "'@SUM"},
		{"|pipe", "'|pipe"},
		{"=it's", "'=it''s"},
		{int64(-1), "-1"},
		{2.5, "2.5"},
		{true, "true"},
		{[]byte("raw"), "raw"},
	}

	for _, tt := range tests {
		if got := formatCSVValue(tt.in); got != tt.want {
			t.Errorf("formatCSVValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(users()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name", "id", "age", "alice", "bob", "=SUM(A1)", "NULL"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NAME") {
		t.Errorf("headers should not be upper-cased:\n%s", out)
	}
}

func TestFormat_RejectsNonRecords(t *testing.T) {
	tbl, err := sequence.TableOf(userStruct, sequence.New())
	if err != nil {
		t.Fatalf("TableOf() error = %v", err)
	}
	tbl.Sequence().Append(42)

	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			f, _ := New(name, &bytes.Buffer{})
			if err := f.Format(tbl); err == nil {
				t.Errorf("%s Format() accepted a non-record element", name)
			}
		})
	}
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	f := NewJSONLinesFormatter(&first)
	f.SetOutput(&second)
	if err := f.Format(users()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if first.Len() != 0 || second.Len() == 0 {
		t.Errorf("SetOutput did not redirect: first=%d second=%d bytes", first.Len(), second.Len())
	}
}
