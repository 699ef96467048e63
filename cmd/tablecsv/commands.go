package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/oleg578/tablecsv"
)

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat [file]",
		Short: "Stream a table and re-encode it with the output settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, err := a.openInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			defer in.Close()

			out, closeOut, err := a.openOutput(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeOut()) }()

			w := a.newWriter(out)
			wrote := false
			p := a.newParser(in)
			p.Sink = a.collector.Sink(func(r *tablecsv.Row) error {
				wrote = true
				return w.WriteRow(r)
			})

			t, err := p.Parse()
			if err != nil {
				return err
			}
			if t != nil && !wrote {
				return w.Write(t.HeaderValues())
			}
			return nil
		},
	}
}

func newJSONCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "json [file]",
		Short: "Stream a table as JSON lines keyed by header",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, err := a.openInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			defer in.Close()

			out, closeOut, err := a.openOutput(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeOut()) }()

			enc := json.NewEncoder(out)
			p := a.newParser(in)
			p.Sink = a.collector.Sink(func(r *tablecsv.Row) error {
				return enc.Encode(jsonRow(r))
			})
			_, err = p.Parse()
			return err
		},
	}
}

func jsonRow(r *tablecsv.Row) map[string]any {
	m := make(map[string]any, r.Len())
	for k, v := range r.ToMap() {
		m[string(k)] = jsonValue(v)
	}
	return m
}

func jsonValue(v tablecsv.Value) any {
	switch v.Kind() {
	case tablecsv.Int:
		n, _ := v.Int()
		return n
	case tablecsv.Float:
		f, _ := v.Float()
		return f
	case tablecsv.Text:
		s, _ := v.Text()
		return s
	default:
		return nil
	}
}

func newHeadersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "headers [file]",
		Short: "Print the normalized header keys of a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.openInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			defer in.Close()

			keys, err := a.newParser(in).Headers()
			if err != nil {
				return err
			}
			if keys == nil {
				return fmt.Errorf("%s: no header row", displayName(inputArg(args)))
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "lookup [file] --where column=value...",
		Short: "Print the rows whose columns equal the given values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			key, err := a.parseWhere(where)
			if err != nil {
				return err
			}
			t, err := a.readTable(cmd, inputArg(args))
			if err != nil {
				return err
			}

			out, closeOut, err := a.openOutput(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeOut()) }()

			w := a.newWriter(out)
			if err := w.Write(t.HeaderValues()); err != nil {
				return err
			}
			for _, r := range t.Lookup(key, nil) {
				if err := w.Write(r.Values()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "column=value condition (repeatable)")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

// parseWhere turns column=value conditions into a lookup key. Values are
// classified the same way fields are, so numeric columns match when numeric
// inference is on.
func (a *app) parseWhere(conds []string) (map[string]tablecsv.Value, error) {
	key := make(map[string]tablecsv.Value, len(conds))
	for _, cond := range conds {
		col, val, ok := strings.Cut(cond, "=")
		if !ok {
			return nil, fmt.Errorf("invalid condition %q: want column=value", cond)
		}
		var acc tablecsv.Accumulator = tablecsv.NewTextAccumulator()
		if a.cfg.Input.InferNumbers {
			acc = tablecsv.NewNumericAccumulator()
		}
		for i := 0; i < len(val); i++ {
			acc.Push(val[i])
		}
		key[col] = acc.Convert(false)
	}
	return key, nil
}

func newMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge base other...",
		Short: "Update rows of base with fields from other tables joined on shared headers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tables := make([]*tablecsv.Table, len(args))
			for i, path := range args {
				if tables[i], err = a.readTable(cmd, path); err != nil {
					return err
				}
			}
			base := tables[0].Merge(tables[1:]...)

			out, closeOut, err := a.openOutput(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeOut()) }()

			return writeMerged(a.newWriter(out), base)
		},
	}
}

// writeMerged emits t under the union of its schema and every column a merge
// added to its rows, leaving absent cells empty.
func writeMerged(w *tablecsv.Writer, t *tablecsv.Table) error {
	columns := t.Headers()
	for _, r := range t.Rows() {
		for _, k := range r.Keys() {
			if !slices.Contains(columns, k) {
				columns = append(columns, k)
			}
		}
	}

	record := make([]tablecsv.Value, len(columns))
	for i, k := range columns {
		record[i] = tablecsv.TextValue(string(k))
	}
	if err := w.Write(record); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		for i, k := range columns {
			record[i] = r.GetKey(k)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
