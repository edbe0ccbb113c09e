package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/parseq/sequence"
)

// FileColumn is the column added to rows read through a glob pattern
const FileColumn = "_file"

// maxFiles limits how many files one glob pattern may expand to
const maxFiles = 1000

// Reader reads one parquet file into a table.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	path   string
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens path and validates it as a parquet file.
//
// Example:
//
//	r, err := NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{path: path, file: file, pqFile: pqFile}, nil
}

// DataStruct returns the record structure of the file: one field per
// top-level column, in schema order. Nested groups become a single field
// holding a map.
func (r *Reader) DataStruct() *sequence.DataStruct {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return sequence.NewDataStruct(names...)
}

// NumRows returns the row count recorded in the file metadata
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadAll loads every row of the file into memory as a table
func (r *Reader) ReadAll() (*sequence.Table, error) {
	ds := r.DataStruct()
	names := ds.FieldNames()
	t := sequence.NewTable(ds, int(r.NumRows()))

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]interface{})
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", t.Len()+1, err)
		}
		rec := t.NewRecord()
		for i, name := range names {
			rec.SetField(i, normalize(row[name]))
		}
	}

	return t, nil
}

// normalize converts byte slices to strings so that they compare and print
// like text
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Schema returns the parquet file schema
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the file handle. It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// IsGlob reports whether path contains glob wildcards
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// ReadFile reads a single parquet file
func ReadFile(path string) (*sequence.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll()
}

// ReadMultipleFiles reads a single file, or every file matching a glob
// pattern (see filepath.Match for the syntax).
//
// Rows from a pattern are tagged with a FileColumn field holding the source
// path. The fields of the result are the union of the files' fields in
// first-seen order; fields a file lacks are nil. Returns an error if no files
// match the pattern or if any file fails to read.
func ReadMultipleFiles(pattern string) (*sequence.Table, error) {
	if !IsGlob(pattern) {
		return ReadFile(pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	tables := make([]*sequence.Table, 0, len(matches))
	var names []string
	seen := make(map[string]bool)
	for _, path := range matches {
		t, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		tables = append(tables, t)
		for _, name := range t.DataStruct().FieldNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if !seen[FileColumn] {
		names = append(names, FileColumn)
	}

	ds := sequence.NewDataStruct(names...)
	total := 0
	for _, t := range tables {
		total += t.Len()
	}
	merged := sequence.NewTable(ds, total)
	for i, t := range tables {
		srcDs := t.DataStruct()
		for _, v := range t.Sequence().Values() {
			src := v.(*sequence.Record)
			rec := merged.NewRecord()
			for k, name := range names {
				if j := srcDs.FieldIndex(name); j >= 0 {
					rec.SetField(k, src.Field(j))
				}
			}
			_ = rec.Set(FileColumn, matches[i])
		}
	}
	return merged, nil
}
