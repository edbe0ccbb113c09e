package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vegasq/parseq/sequence"
)

// JSONLinesFormatter outputs records as JSON Lines format
type JSONLinesFormatter struct {
	writer io.Writer
}

// NewJSONLinesFormatter creates a new JSON Lines formatter
func NewJSONLinesFormatter(w io.Writer) *JSONLinesFormatter {
	return &JSONLinesFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLinesFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per line. Keys follow the table's field order.
func (j *JSONLinesFormatter) Format(t *sequence.Table) error {
	recs, err := records(t)
	if err != nil {
		return err
	}
	names := t.DataStruct().FieldNames()

	bw := bufio.NewWriter(j.writer)
	var buf bytes.Buffer
	for i, r := range recs {
		buf.Reset()
		if err := encodeRecord(&buf, names, r); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		buf.WriteByte('\n')
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// JSONFormatter outputs all records as a single indented JSON array
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON array formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the records as a JSON array. An empty table yields "[]".
func (j *JSONFormatter) Format(t *sequence.Table) error {
	recs, err := records(t)
	if err != nil {
		return err
	}
	names := t.DataStruct().FieldNames()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range recs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRecord(&buf, names, r); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(j.writer)
	return err
}

// encodeRecord writes r as a JSON object with keys in field order
func encodeRecord(buf *bytes.Buffer, names []string, r *sequence.Record) error {
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Field(i))
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return nil
}
