package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/parseq/sequence"
)

// TableFormatter outputs records as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table with a header of field names. nil renders as
// "NULL" so that it is distinguishable from an empty string.
func (f *TableFormatter) Format(t *sequence.Table) error {
	recs, err := records(t)
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.DataStruct().FieldNames())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	for _, r := range recs {
		row := make([]string, t.DataStruct().FieldCount())
		for i := range row {
			if v := r.Field(i); v == nil {
				row[i] = "NULL"
			} else {
				row[i] = formatValue(v)
			}
		}
		tw.Append(row)
	}
	tw.Render()
	return nil
}
