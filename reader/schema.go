package reader

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/parseq/sequence"
)

// ColumnInfo describes one leaf column of a parquet file
type ColumnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// SchemaStruct is the structure of the table returned by SchemaTable
var SchemaStruct = sequence.NewDataStruct("name", "type", "physical_type", "logical_type", "required", "optional", "repeated")

// ExtractSchema lists the leaf columns of a parquet file. Nested fields use
// dot notation (e.g. "address.street") and inherit repetition from their
// parents.
func ExtractSchema(path string) ([]ColumnInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var columns []ColumnInfo
	for _, field := range r.Schema().Fields() {
		columns = appendLeaves(columns, field, "", false)
	}
	return columns, nil
}

// SchemaTable describes the columns of a parquet file as a table, one record
// per leaf column
func SchemaTable(path string) (*sequence.Table, error) {
	columns, err := ExtractSchema(path)
	if err != nil {
		return nil, err
	}
	t := sequence.NewTable(SchemaStruct, len(columns))
	for _, c := range columns {
		t.NewRecord().SetValues(c.Name, c.Type, c.PhysicalType, c.LogicalType, c.Required, c.Optional, c.Repeated)
	}
	return t, nil
}

func appendLeaves(columns []ColumnInfo, field parquet.Field, prefix string, parentRepeated bool) []ColumnInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	// Groups contribute their leaves only
	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			columns = appendLeaves(columns, child, name, repeated)
		}
		return columns
	}

	return append(columns, ColumnInfo{
		Name:         name,
		Type:         friendlyType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     repeated,
	})
}

var physicalNames = map[parquet.Kind]string{
	parquet.Boolean:           "BOOLEAN",
	parquet.Int32:             "INT32",
	parquet.Int64:             "INT64",
	parquet.Int96:             "INT96",
	parquet.Float:             "FLOAT",
	parquet.Double:            "DOUBLE",
	parquet.ByteArray:         "BYTE_ARRAY",
	parquet.FixedLenByteArray: "FIXED_LEN_BYTE_ARRAY",
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}
	if name, ok := physicalNames[field.Type().Kind()]; ok {
		return name
	}
	return "UNKNOWN"
}

func logicalType(field parquet.Field) string {
	if field.Type() == nil || field.Type().LogicalType() == nil {
		return ""
	}
	return field.Type().LogicalType().String()
}

// friendlyType prefers the logical type and names floating point kinds by
// width.
func friendlyType(field parquet.Field) string {
	switch logicalType(field) {
	case "STRING", "UTF8":
		return "STRING"
	case "ENUM", "UUID", "DATE", "TIME", "TIMESTAMP", "DECIMAL", "JSON", "BSON":
		return logicalType(field)
	}

	switch physical := physicalType(field); physical {
	case "FLOAT":
		return "FLOAT32"
	case "DOUBLE":
		return "FLOAT64"
	default:
		return physical
	}
}
