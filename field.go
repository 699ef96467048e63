package tablecsv

import "strconv"

// Accumulator collects the raw bytes of one field and converts them into a Value
// once the field ends.
type Accumulator interface {
	// Push appends one byte of field content.
	Push(c byte)
	// Convert returns the accumulated field. With forceText set the bytes are
	// returned as text even when empty; otherwise an empty field is absent.
	Convert(forceText bool) Value
	// Len reports the number of buffered bytes.
	Len() int
	// Reset clears the buffer for the next field.
	Reset()
}

// TextAccumulator performs no type inference: every present field is text.
type TextAccumulator struct {
	buf []byte
}

// NewTextAccumulator returns an empty TextAccumulator.
func NewTextAccumulator() *TextAccumulator {
	return &TextAccumulator{buf: make([]byte, 0, 64)}
}

// Push appends c to the field.
func (a *TextAccumulator) Push(c byte) { a.buf = append(a.buf, c) }

// Convert returns the field as text, or absent when nothing was read and
// forceText is false.
func (a *TextAccumulator) Convert(forceText bool) Value {
	if !forceText && len(a.buf) == 0 {
		return Nil()
	}
	return TextValue(string(a.buf))
}

// Len returns the number of bytes read.
func (a *TextAccumulator) Len() int { return len(a.buf) }

// Reset empties the field, keeping its buffer.
func (a *TextAccumulator) Reset() { a.buf = a.buf[:0] }

// NumericAccumulator classifies the field while it is being read so that
// integer and float lexemes convert to numbers without a second scan.
type NumericAccumulator struct {
	buf      []byte
	maybeInt bool
	maybeFlt bool
	sawDot   bool
}

// NewNumericAccumulator returns an empty NumericAccumulator.
func NewNumericAccumulator() *NumericAccumulator {
	return &NumericAccumulator{
		buf:      make([]byte, 0, 64),
		maybeInt: true,
		maybeFlt: true,
	}
}

// Push appends c and narrows the int and float candidates.
func (a *NumericAccumulator) Push(c byte) {
	switch {
	case c == '-':
		// A sign is only valid in leading position.
		lead := len(a.buf) == 0
		a.maybeInt, a.maybeFlt = lead, lead
	case c == '.' && a.sawDot:
		a.maybeInt, a.maybeFlt = false, false
	case c == '.':
		a.maybeInt = false
		a.sawDot = true
	case c < '0' || c > '9':
		a.maybeInt, a.maybeFlt = false, false
	}
	a.buf = append(a.buf, c)
}

// Convert returns an int or float when the field still lexes as one, text
// otherwise, and absent for an empty field unless forceText is set.
func (a *NumericAccumulator) Convert(forceText bool) Value {
	if forceText {
		return TextValue(string(a.buf))
	}
	if len(a.buf) == 0 {
		return Nil()
	}
	s := string(a.buf)
	if !hasDigit(a.buf) {
		return TextValue(s)
	}
	if a.maybeInt {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(n)
		}
		// Out of int64 range: keep the magnitude as a float.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
		return TextValue(s)
	}
	if a.maybeFlt {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
	}
	return TextValue(s)
}

// Len returns the number of bytes read.
func (a *NumericAccumulator) Len() int { return len(a.buf) }

// Reset empties the field and restores both candidates.
func (a *NumericAccumulator) Reset() {
	a.buf = a.buf[:0]
	a.maybeInt, a.maybeFlt = true, true
	a.sawDot = false
}

func hasDigit(b []byte) bool {
	for _, c := range b {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
