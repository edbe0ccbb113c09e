package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/parseq/sequence"
)

// CSVFormatter outputs records as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a header row of field names followed by one row per record.
// An empty table still gets its header.
func (c *CSVFormatter) Format(t *sequence.Table) error {
	recs, err := records(t)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(c.writer)
	if err := csvWriter.Write(t.DataStruct().FieldNames()); err != nil {
		return err
	}

	row := make([]string, t.DataStruct().FieldCount())
	for _, r := range recs {
		for i := range row {
			row[i] = formatCSVValue(r.Field(i))
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// formatCSVValue renders v as text, quoting strings that a spreadsheet would
// treat as a formula
func formatCSVValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return formatValue(v)
	}
	if s != "" && strings.ContainsRune("=+-@\t\r\n|", rune(s[0])) {
		return "'" + strings.ReplaceAll(s, "'", "''")
	}
	return s
}

// formatValue converts a value to its text form; nil becomes ""
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
