package tablecsv

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow is matched by every *MalformedRowError.
	ErrMalformedRow = errors.New("tablecsv: column count mismatch")
	// ErrUnwritableValue is matched by every *UnwritableValueError.
	ErrUnwritableValue = errors.New("tablecsv: value is not a record")
)

// ParseError reports a failure of the byte source together with the line
// being read when it happened.
type ParseError struct {
	Line int
	Err  error
}

// Error formats the parse error message with the stored line and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("tablecsv: read error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MalformedRowError describes a row whose width differs from the table schema.
// Dump holds the human-readable report also sent to the logger.
type MalformedRowError struct {
	Row      int
	Line     int
	Expected int
	Found    int
	Dump     string
}

// Error summarizes the mismatch on one line; Dump carries the full report.
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("tablecsv: row %d (line %d): expected %d columns, found %d", e.Row, e.Line, e.Expected, e.Found)
}

// Is matches ErrMalformedRow.
func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// UnwritableValueError is returned when a Writer is handed something that is not a record.
type UnwritableValueError struct {
	Type string
	Repr string
}

// Error names the rejected type and value.
func (e *UnwritableValueError) Error() string {
	return fmt.Sprintf("tablecsv: can only write records, got %s %s", e.Type, e.Repr)
}

// Is matches ErrUnwritableValue.
func (e *UnwritableValueError) Is(target error) bool { return target == ErrUnwritableValue }
