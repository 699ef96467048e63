package tablecsv

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

const defaultBufferSize = 1 << 10 // 1024 bytes

// Parser decodes a delimited byte stream into a Table. The first non-empty
// record becomes the header row; every later record is appended to the table.
type Parser struct {
	src io.Reader

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// FailOnMalformedColumns aborts the parse on the first record whose width
	// differs from the header row. Default is true.
	FailOnMalformedColumns bool
	// InferNumbers converts unquoted integer and float lexemes into numbers.
	// Ignored when Accumulator is set.
	InferNumbers bool
	// Accumulator overrides the field accumulator chosen by InferNumbers.
	Accumulator Accumulator
	// Sink, when set, receives every data row instead of the table retaining it.
	Sink Sink
	// Logger receives malformed-row diagnostics. Defaults to the package logger.
	Logger *zap.Logger

	buf    []byte
	bufPos int
	bufLen int
	bufErr error
	line   int
}

// NewParser creates a Parser that consumes delimited data from r, panicking if r is nil.
func NewParser(r io.Reader) *Parser {
	if r == nil {
		panic("tablecsv: parser source cannot be nil")
	}
	return &Parser{
		src:                    r,
		Comma:                  ',',
		Quote:                  '"',
		FailOnMalformedColumns: true,
		buf:                    make([]byte, defaultBufferSize),
		line:                   1,
	}
}

// parseState is the per-stream state of the decoder. It survives across
// records because quoted fields may span lines.
type parseState struct {
	inQuote      bool
	clean        bool // at a field boundary, nothing consumed for the field yet
	maybeClosing bool // last quote may close the field or start an escaped pair
	hasField     bool // the current row already ended a field with a separator
	afterEOL     bool // the last byte consumed ended a row
}

// Parse drains the source and returns the resulting table. An empty stream (or
// one holding only line breaks) yields a nil table and a nil error.
func (p *Parser) Parse() (*Table, error) {
	comma := p.Comma
	if comma == 0 {
		comma = ','
	}
	quote := p.Quote
	if quote == 0 {
		quote = '"'
	}
	acc := p.Accumulator
	if acc == nil {
		if p.InferNumbers {
			acc = NewNumericAccumulator()
		} else {
			acc = NewTextAccumulator()
		}
	}
	acc.Reset()

	var (
		table     *Table
		row       []Value
		rowLine   = p.line
		st        = parseState{clean: true, afterEOL: true}
		endField  func(forceText bool)
		endRecord func() error
	)

	endField = func(forceText bool) {
		row = append(row, acc.Convert(forceText))
		acc.Reset()
	}
	endRecord = func() error {
		values, line := row, rowLine
		row = nil
		rowLine = p.line
		if len(values) == 0 {
			return nil
		}
		if table == nil {
			table = p.newTable(values)
			return nil
		}
		return table.appendValues(values, line)
	}

	for {
		c, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: p.line, Err: err}
		}

		switch {
		case c == '\r':
			// Line endings are normalized to LF.
		case st.maybeClosing && c == comma:
			endField(true)
			st = parseState{clean: true, hasField: true}
		case st.maybeClosing && c == '\n':
			if !(acc.Len() == 0 && st.afterEOL) {
				endField(true)
			}
			acc.Reset()
			p.line++
			if err := endRecord(); err != nil {
				return nil, err
			}
			st = parseState{clean: true, afterEOL: true}
		case st.clean && c == quote:
			st.inQuote, st.clean, st.afterEOL = true, false, false
		case st.maybeClosing && c == quote:
			// Doubled quote: a literal quote character.
			acc.Push(c)
			st.clean, st.maybeClosing, st.afterEOL = false, false, false
		case c == quote:
			st.maybeClosing, st.afterEOL = true, false
		case st.inQuote:
			if c == '\n' {
				p.line++
			}
			acc.Push(c)
			st.clean, st.afterEOL = false, false
		case c == comma:
			endField(false)
			st.clean, st.hasField, st.afterEOL = true, true, false
		case c == '\n':
			if !(acc.Len() == 0 && st.afterEOL) {
				endField(false)
			}
			acc.Reset()
			p.line++
			if err := endRecord(); err != nil {
				return nil, err
			}
			st = parseState{clean: true, afterEOL: true}
		default:
			acc.Push(c)
			st.clean, st.afterEOL = false, false
		}
	}

	switch {
	case !st.clean:
		endField(st.maybeClosing)
	case st.hasField:
		// A trailing separator leaves one absent field behind it.
		row = append(row, Nil())
	}
	if err := endRecord(); err != nil {
		return nil, err
	}
	return table, nil
}

var errHeaderRead = errors.New("tablecsv: header read")

// Headers decodes only as far as the header record and returns its normalized
// keys, or nil when the stream holds no record. A quoted header spanning lines
// is read whole. Sink, FailOnMalformedColumns and Logger are overridden.
func (p *Parser) Headers() ([]Key, error) {
	var headers []Key
	p.Sink = func(r *Row) error {
		headers = r.Keys()
		return errHeaderRead
	}
	p.FailOnMalformedColumns = false
	p.Logger = zap.NewNop()

	t, err := p.Parse()
	switch {
	case errors.Is(err, errHeaderRead):
		return headers, nil
	case err != nil:
		return nil, err
	case t == nil:
		return nil, nil
	}
	return t.Headers(), nil
}

func (p *Parser) newTable(header []Value) *Table {
	names := make([]string, len(header))
	for i, v := range header {
		names[i] = v.String()
	}
	return NewTable(names,
		WithFailOnMalformedColumns(p.FailOnMalformedColumns),
		WithSink(p.Sink),
		WithLogger(p.Logger),
	)
}

// next returns the next byte of the source, refilling the buffer as needed.
func (p *Parser) next() (byte, error) {
	for {
		if p.bufPos < p.bufLen {
			c := p.buf[p.bufPos]
			p.bufPos++
			return c, nil
		}
		if p.bufErr != nil {
			return 0, p.bufErr
		}

		n, err := p.src.Read(p.buf)
		p.bufPos = 0
		p.bufLen = n
		if err != nil {
			p.bufErr = err
		}
		if n == 0 && err == nil {
			continue
		}
	}
}
