// Package output renders sequence tables in various output formats.
//
// Every formatter takes a *sequence.Table and writes its records in the
// table's field order.
//
// # Supported Formats
//
//   - json: a single indented JSON array
//   - jsonl: one JSON object per line (suitable for streaming)
//   - csv: header row plus one row per record, formula-like strings quoted
//   - table: an aligned text table for terminals
//
// # Basic Usage
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(tbl); err != nil {
//	    log.Fatal(err)
//	}
//
// Use SetOutput to redirect a formatter, for example into a bytes.Buffer.
package output
