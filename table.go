package tablecsv

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/oleg578/tablecsv/internal/logger"
)

// MalformedRowMessage is the log message of the column-count diagnostic.
const MalformedRowMessage = "column count mismatch"

// Sink receives rows as they are appended instead of the Table retaining them.
// Returning an error aborts the append (and the parse driving it).
type Sink func(*Row) error

// TableOption configures a Table at construction.
type TableOption func(*Table)

// WithFailOnMalformedColumns controls whether a column-count mismatch aborts
// the append. The default is true.
func WithFailOnMalformedColumns(fail bool) TableOption {
	return func(t *Table) { t.failOnMalformed = fail }
}

// WithSink streams appended rows to fn.
func WithSink(fn Sink) TableOption {
	return func(t *Table) { t.sink = fn }
}

// WithLogger sets the logger that receives malformed-row diagnostics.
func WithLogger(l *zap.Logger) TableOption {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// Table is an ordered collection of rows sharing one header schema.
// A Table is not safe for concurrent use.
type Table struct {
	headers         []Key
	rows            []*Row
	failOnMalformed bool
	sink            Sink
	lines           int
	indexes         map[string]*Index
	logger          *zap.Logger
}

// NewTable creates an empty table whose schema is the normalized form of headers.
func NewTable(headers []string, opts ...TableOption) *Table {
	return newTable(FormatHeaders(headers), opts...)
}

func newTable(headers []Key, opts ...TableOption) *Table {
	t := &Table{
		headers:         headers,
		failOnMalformed: true,
		indexes:         make(map[string]*Index),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logger.Get()
	}
	return t
}

// Headers returns a copy of the schema.
func (t *Table) Headers() []Key { return slices.Clone(t.headers) }

// HeaderValues returns the schema as a text record.
func (t *Table) HeaderValues() []Value {
	return keyValues(t.headers)
}

func keyValues(keys []Key) []Value {
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = TextValue(string(k))
	}
	return out
}

// Rows returns the retained rows. The slice is shared with the table.
func (t *Table) Rows() []*Row { return t.rows }

// Len returns the number of retained rows. It stays zero when a sink is set.
func (t *Table) Len() int { return len(t.rows) }

// Lines returns how many rows have been offered to Append, successful or not.
func (t *Table) Lines() int { return t.lines }

// Row returns the i-th retained row, or nil when out of range.
func (t *Table) Row(i int) *Row {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}

// Append wraps values in a row numbered by the table's append counter and
// appends it as AppendRow does.
func (t *Table) Append(values []Value) error {
	return t.appendValues(values, t.lines+1)
}

func (t *Table) appendValues(values []Value, line int) error {
	return t.AppendRow(newTableRow(t.headers, values, line))
}

// AppendRow validates the width of row against the schema and either hands it
// to the sink or retains it. A mismatch is always logged; it is returned as a
// *MalformedRowError only when the table fails on malformed columns, otherwise
// the row is accepted unchanged.
func (t *Table) AppendRow(row *Row) error {
	t.lines++
	if len(t.headers) != row.Len() {
		merr := t.malformed(row)
		t.logger.Warn(MalformedRowMessage,
			zap.Int("row", merr.Row),
			zap.Int("line", merr.Line),
			zap.Int("expected", merr.Expected),
			zap.Int("found", merr.Found),
			zap.String("dump", merr.Dump),
		)
		if t.failOnMalformed {
			return merr
		}
	}
	if t.sink != nil {
		return t.sink(row)
	}
	t.rows = append(t.rows, row)
	return nil
}

func (t *Table) malformed(row *Row) *MalformedRowError {
	var b strings.Builder
	fmt.Fprintf(&b, "*** WARNING - COLUMN COUNT MISMATCH - WARNING ***\n*** ROW %d : EXPECTED %d : FOUND %d\n\n",
		len(t.rows), len(t.headers), row.Len())
	for i, h := range t.headers {
		fmt.Fprintf(&b, "%-32s : %s\n", h, row.At(i))
	}
	return &MalformedRowError{
		Row:      len(t.rows),
		Line:     row.Line(),
		Expected: len(t.headers),
		Found:    row.Len(),
		Dump:     b.String(),
	}
}

// Merge folds each other table into t. The join columns are the headers the
// two tables share; every row of other updates the rows of t with the same
// join values. Rows of other without a match are dropped.
func (t *Table) Merge(others ...*Table) *Table {
	for _, other := range others {
		var shared []Key
		for _, k := range t.headers {
			if slices.Contains(other.headers, k) && !slices.Contains(shared, k) {
				shared = append(shared, k)
			}
		}
		idx := t.IndexKeys(shared, false)
		for _, orow := range other.rows {
			vals := make([]Value, len(idx.columns))
			for i, k := range idx.columns {
				vals[i] = orow.GetKey(k)
			}
			for _, r := range idx.Get(vals...) {
				r.Merge(orow)
			}
		}
	}
	return t
}

// Write emits the header row followed by every retained row.
func (t *Table) Write(dst io.Writer, quote, comma byte) error {
	w := NewWriter(dst)
	w.Quote = quote
	w.Comma = comma
	return t.Encode(w)
}

// Encode emits the table through an already configured Writer.
func (t *Table) Encode(w *Writer) error {
	if err := w.Write(t.HeaderValues()); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := w.Write(r.values); err != nil {
			return err
		}
	}
	return nil
}
