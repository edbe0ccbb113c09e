// Command parseq reads parquet files and filters, derives, sorts and projects
// their records with the parallel executor.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/parseq/output"
)

// options holds the parsed command line
type options struct {
	configPath string
	format     string
	limit      int
	schema     bool
	skipNull   bool
	threads    int
	threshold  int
	logLevel   string

	where   string
	eq      []string
	params  []string
	derive  []string
	sortBy  []string
	project []string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "parseq [flags] <file.parquet|glob>",
		Short: "Filter, derive, sort and project parquet records in parallel",
		Long: `parseq loads parquet files into memory and runs each step of the query
on the parallel executor. Sequences longer than the single-thread threshold
are split into contiguous partitions whose results are joined in order.`,
		Example: `  parseq data.parquet
  parseq -f csv --where "age > 30" data.parquet
  parseq --eq dept=eng --sort age:desc --limit 10 'logs/*.parquet'
  parseq --derive "bonus=salary * rate" --param rate=0.1 --select name --select bonus data.parquet
  parseq --schema -f table data.parquet`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return o.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.format, "format", "f", "jsonl", "Output format: "+strings.Join(output.Formats(), ", "))
	f.IntVar(&o.limit, "limit", 0, "Limit number of records (0 = unlimited)")
	f.BoolVar(&o.schema, "schema", false, "Show schema information instead of data")
	f.StringVar(&o.where, "where", "", "Keep records for which the expression is true")
	f.StringArrayVar(&o.eq, "eq", nil, "Keep records whose field equals a value, as field=value (repeatable)")
	f.StringArrayVar(&o.params, "param", nil, "Bind an expression variable, as name=value (repeatable)")
	f.StringArrayVar(&o.derive, "derive", nil, "Append a computed field, as name=expr (repeatable)")
	f.StringArrayVar(&o.sortBy, "sort", nil, "Sort by a field, as field or field:desc (repeatable)")
	f.StringArrayVar(&o.project, "select", nil, "Output field, as name=expr or a field name (repeatable)")
	f.BoolVar(&o.skipNull, "skip-null", false, "Drop records where a derived or selected field is null")
	f.IntVar(&o.threads, "threads", 0, "Maximum concurrent partitions (0 = from config)")
	f.IntVar(&o.threshold, "threshold", 0, "Single-thread threshold (overrides config when set)")
	f.StringVar(&o.configPath, "config", "", "Config file (yaml, toml or json)")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")

	return cmd
}

func (o *options) validate() error {
	if o.limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", o.limit)
	}
	if o.threads < 0 {
		return fmt.Errorf("--threads must be non-negative, got %d", o.threads)
	}
	if o.threshold < 0 {
		return fmt.Errorf("--threshold must be non-negative, got %d", o.threshold)
	}
	if o.schema && (o.where != "" || len(o.eq) > 0 || len(o.derive) > 0 || len(o.sortBy) > 0 || len(o.project) > 0) {
		return fmt.Errorf("--schema cannot be combined with query flags")
	}
	return nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
