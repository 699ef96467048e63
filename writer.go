package tablecsv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errNilWriter      = errors.New("tablecsv: writer is nil")
	errWriterNoTarget = errors.New("tablecsv: writer destination cannot be nil")
)

// Writer encodes records as delimited text. Each record, the header row
// included, reaches the destination in exactly one Write call.
type Writer struct {
	dst io.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool
	// AlwaysQuote forces quoting for all text fields when enabled.
	AlwaysQuote bool
	// QuoteNumbers wraps numeric fields in quotes as well.
	QuoteNumbers bool

	started bool
	line    []byte
	err     error
}

// NewWriter creates a new Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:   w,
		Comma: ',',
		Quote: '"',
		line:  make([]byte, 0, defaultBufferSize),
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
// The next Row written emits its headers again.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	w.dst = dst
	w.started = false
	w.err = nil
}

// Write emits a single record.
func (w *Writer) Write(record []Value) error {
	if err := w.check(); err != nil {
		return err
	}
	w.started = true

	comma, quote := w.delims()
	w.line = w.line[:0]
	for i, v := range record {
		if i > 0 {
			w.line = append(w.line, comma)
		}
		w.line = w.appendField(w.line, v, comma, quote)
	}
	return w.flushLine()
}

// WriteRow emits r. When r is the first record written, its headers are
// written first.
func (w *Writer) WriteRow(r *Row) error {
	if err := w.check(); err != nil {
		return err
	}
	if !w.started {
		if err := w.Write(keyValues(r.headers)); err != nil {
			return err
		}
	}
	return w.Write(r.values)
}

// WriteStrings emits a record of plain text fields.
func (w *Writer) WriteStrings(record []string) error {
	values := make([]Value, len(record))
	for i, s := range record {
		values[i] = TextValue(s)
	}
	return w.Write(values)
}

// WriteRecord emits rec, which must be a *Row, []Value, []string or []any.
// Anything else yields an *UnwritableValueError.
func (w *Writer) WriteRecord(rec any) error {
	switch r := rec.(type) {
	case *Row:
		return w.WriteRow(r)
	case []Value:
		return w.Write(r)
	case []string:
		return w.WriteStrings(r)
	case []any:
		values := make([]Value, len(r))
		for i, v := range r {
			values[i] = ValueOf(v)
		}
		return w.Write(values)
	default:
		return &UnwritableValueError{Type: fmt.Sprintf("%T", rec), Repr: fmt.Sprintf("%#v", rec)}
	}
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]Value) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) check() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	return w.err
}

func (w *Writer) delims() (comma, quote byte) {
	comma, quote = w.Comma, w.Quote
	if comma == 0 {
		comma = ','
	}
	if quote == 0 {
		quote = '"'
	}
	return comma, quote
}

func (w *Writer) flushLine() error {
	if w.UseCRLF {
		w.line = append(w.line, '\r', '\n')
	} else {
		w.line = append(w.line, '\n')
	}
	if _, err := w.dst.Write(w.line); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) appendField(b []byte, v Value, comma, quote byte) []byte {
	switch {
	case v.IsAbsent():
		return b
	case v.IsNumeric():
		if w.QuoteNumbers {
			return append(append(append(b, quote), v.String()...), quote)
		}
		return append(b, v.String()...)
	}

	field := v.String()
	if field == "" {
		return append(b, quote, quote)
	}
	if !w.AlwaysQuote && !fieldNeedsQuote(field, comma, quote) {
		return append(b, field...)
	}

	b = append(b, quote)
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == quote {
			b = append(b, field[start:i]...)
			b = append(b, quote, quote)
			start = i + 1
		}
	}
	b = append(b, field[start:]...)
	return append(b, quote)
}

func fieldNeedsQuote(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, comma, '\n':
			return true
		}
	}
	return false
}

// Generate runs fn against a Writer backed by a string buffer and returns the text.
func Generate(fn func(*Writer) error) (string, error) {
	var b strings.Builder
	if err := fn(NewWriter(&b)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFile truncates path and runs fn against a Writer on it.
func WriteFile(path string, fn func(*Writer) error) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fn)
}

// AppendFile runs fn against a Writer appending to path.
func AppendFile(path string, fn func(*Writer) error) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, fn)
}

func writeFile(path string, flag int, fn func(*Writer) error) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("tablecsv: open %s: %w", path, err)
	}
	if err := fn(NewWriter(f)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
