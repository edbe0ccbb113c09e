package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/vegasq/parseq/config"
	"github.com/vegasq/parseq/expr"
	"github.com/vegasq/parseq/internal/logger"
	"github.com/vegasq/parseq/output"
	"github.com/vegasq/parseq/parallel"
	"github.com/vegasq/parseq/reader"
	"github.com/vegasq/parseq/sequence"
)

func (o *options) run(cmd *cobra.Command, pattern string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.applyFlags(cmd, &cfg)

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, AddSource: cfg.Log.AddSource})
	parallel.Configure(cfg.Parallel)

	formatter, err := output.New(o.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var tbl *sequence.Table
	if o.schema {
		tbl, err = schemaTable(pattern)
	} else {
		tbl, err = o.query(pattern)
	}
	if err != nil {
		logger.Error("query failed", "path", pattern, "error", err)
		return err
	}

	if err := formatter.Format(tbl); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// applyFlags lets explicitly set flags override loaded configuration
func (o *options) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Parallel.Parallelism = o.threads
	}
	if flags.Changed("threshold") {
		cfg.Parallel.Threshold = o.threshold
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
}

// query runs read, filter, derive, sort, limit and projection in that order
func (o *options) query(pattern string) (*sequence.Table, error) {
	start := time.Now()

	tbl, err := reader.ReadMultipleFiles(pattern)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded input", "path", pattern, "records", tbl.Len(), "fields", tbl.DataStruct().FieldCount())

	ctx := expr.NewContext()
	if err := bindParams(ctx, o.params); err != nil {
		return nil, err
	}

	ds := tbl.DataStruct()
	seq := tbl.Sequence()
	opts := sequence.Options{SkipNull: o.skipNull}

	if o.where != "" {
		exp, err := expr.Compile(o.where, ctx)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
		if seq, err = parallel.Select(seq, exp, ctx, opts); err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
	}

	if len(o.eq) > 0 {
		exps, values, err := compileEq(ds, o.eq, ctx)
		if err != nil {
			return nil, err
		}
		if seq, err = parallel.SelectEq(seq, exps, values, ctx, opts); err != nil {
			return nil, fmt.Errorf("--eq: %w", err)
		}
	}

	if len(o.derive) > 0 {
		names, exps, err := compileAssignments(o.derive, ctx)
		if err != nil {
			return nil, fmt.Errorf("--derive: %w", err)
		}
		if seq.Len() == 0 {
			ds = sequence.DeriveStruct(ds, names)
		} else {
			derived, err := parallel.Derive(seq, names, exps, ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("--derive: %w", err)
			}
			ds, seq = derived.DataStruct(), derived.Sequence()
		}
	}

	if len(o.sortBy) > 0 {
		orderBy, err := parseOrderBy(ds, o.sortBy)
		if err != nil {
			return nil, err
		}
		if err := parallel.SortSequence(seq, sequence.FieldComparator(orderBy)); err != nil {
			return nil, fmt.Errorf("--sort: %w", err)
		}
	}

	if o.limit > 0 && seq.Len() > o.limit {
		if seq, err = seq.Slice(1, o.limit+1); err != nil {
			return nil, err
		}
	}

	var result *sequence.Table
	if len(o.project) > 0 {
		names, exps, err := compileAssignments(o.project, ctx)
		if err != nil {
			return nil, fmt.Errorf("--select: %w", err)
		}
		if result, err = parallel.NewTable(seq, sequence.NewDataStruct(names...), exps, ctx, opts); err != nil {
			return nil, fmt.Errorf("--select: %w", err)
		}
	} else if result, err = sequence.TableOf(ds, seq); err != nil {
		return nil, err
	}

	logger.Info("query complete", "records", result.Len(), "elapsed", time.Since(start))
	return result, nil
}

// schemaTable describes pattern, or its first match when it is a glob
func schemaTable(pattern string) (*sequence.Table, error) {
	path := pattern
	if reader.IsGlob(pattern) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern: %s", pattern)
		}
		path = matches[0]
		if len(matches) > 1 {
			logger.Info("showing schema of first match", "path", path, "matched", len(matches))
		}
	}
	return reader.SchemaTable(path)
}

// compileAssignments compiles "name=expr" items. An item without a name is
// named after its expression.
func compileAssignments(items []string, ctx *expr.Context) ([]string, []*expr.Expression, error) {
	names := make([]string, len(items))
	exps := make([]*expr.Expression, len(items))
	for i, item := range items {
		name, src := splitAssignment(item)
		exp, err := expr.Compile(src, ctx)
		if err != nil {
			return nil, nil, err
		}
		if name == "" {
			name = exp.IdentifierName()
		}
		names[i], exps[i] = name, exp
	}
	return names, exps, nil
}

// compileEq turns "field=value" items into field expressions and literal
// values
func compileEq(ds *sequence.DataStruct, items []string, ctx *expr.Context) ([]*expr.Expression, []interface{}, error) {
	exps := make([]*expr.Expression, len(items))
	values := make([]interface{}, len(items))
	for i, item := range items {
		field, raw, ok := strings.Cut(item, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, nil, fmt.Errorf("--eq: expected field=value, got %q", item)
		}
		if ds.FieldIndex(field) < 0 {
			return nil, nil, fmt.Errorf("--eq: unknown field %q", field)
		}
		exp, err := expr.Compile(field, ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("--eq: %w", err)
		}
		exps[i], values[i] = exp, parseLiteral(raw)
	}
	return exps, values, nil
}

func bindParams(ctx *expr.Context, items []string) error {
	for _, item := range items {
		name, raw, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || !isIdentifier(name) {
			return fmt.Errorf("--param: expected name=value, got %q", item)
		}
		ctx.Set(name, parseLiteral(raw))
	}
	return nil
}

func parseOrderBy(ds *sequence.DataStruct, items []string) ([]sequence.OrderBy, error) {
	orderBy := make([]sequence.OrderBy, len(items))
	for i, item := range items {
		field, dir, _ := strings.Cut(item, ":")
		var desc bool
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return nil, fmt.Errorf("--sort: unknown direction %q in %q", dir, item)
		}
		if ds.FieldIndex(field) < 0 {
			return nil, fmt.Errorf("--sort: unknown field %q", field)
		}
		orderBy[i] = sequence.OrderBy{Field: field, Desc: desc}
	}
	return orderBy, nil
}

// splitAssignment splits "name=expr". Items whose first '=' is part of an
// operator (==, <=, !=, >=) are a bare expression.
func splitAssignment(item string) (name, src string) {
	i := strings.IndexByte(item, '=')
	if i <= 0 || strings.HasPrefix(item[i+1:], "=") {
		return "", item
	}
	name = strings.TrimSpace(item[:i])
	if !isIdentifier(name) {
		return "", item
	}
	return name, item[i+1:]
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// parseLiteral reads a command line value as null, a bool, an integer, a
// float, or else a string. Surrounding quotes force a string.
func parseLiteral(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if n := len(s); n >= 2 && (s[0] == '\'' || s[0] == '"') && s[n-1] == s[0] {
		return s[1 : n-1]
	}
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
