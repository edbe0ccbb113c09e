// Package reader loads Apache Parquet files into sequence tables.
//
// Each file becomes a *sequence.Table whose DataStruct lists the top-level
// columns in schema order. Patterns with glob wildcards read every matching
// file and add a "_file" field naming the source of each record.
//
// # Basic Usage
//
//	tbl, err := reader.ReadMultipleFiles("data/2024-*.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tbl.Len(), tbl.DataStruct())
//
// # Schema Introspection
//
//	columns, err := reader.ExtractSchema("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range columns {
//	    fmt.Printf("%s: %s\n", c.Name, c.Type)
//	}
//
// The package uses github.com/parquet-go/parquet-go for the underlying
// parquet file operations.
package reader
