package tablecsv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// Absent marks a missing field, distinct from empty text.
	Absent Kind = iota
	Int
	Float
	Text
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single decoded field: an integer, a float, text, or absent.
// The zero Value is absent. Values are comparable with ==, except that a NaN
// float never equals itself; Equal treats it as equal.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Nil returns the absent Value.
func Nil() Value { return Value{} }

// IntValue wraps n.
func IntValue(n int64) Value { return Value{kind: Int, i: n} }

// FloatValue wraps f.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// TextValue wraps s. Empty text is a present value, not absent.
func TextValue(s string) Value { return Value{kind: Text, s: s} }

// ValueOf converts a Go value into a Value. nil becomes absent, integer and float
// types become numbers, strings and fmt.Stringers become text, and anything else
// is rendered with fmt.Sprint.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Nil()
	case Value:
		return x
	case int:
		return IntValue(int64(x))
	case int8:
		return IntValue(int64(x))
	case int16:
		return IntValue(int64(x))
	case int32:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return IntValue(int64(x))
	case uint16:
		return IntValue(int64(x))
	case uint32:
		return IntValue(int64(x))
	case uint64:
		return uintValue(x)
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case string:
		return TextValue(x)
	case []byte:
		return TextValue(string(x))
	case fmt.Stringer:
		return TextValue(x.String())
	default:
		return TextValue(fmt.Sprint(x))
	}
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return FloatValue(float64(u))
	}
	return IntValue(int64(u))
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the absent value.
func (v Value) IsAbsent() bool { return v.kind == Absent }

// IsNumeric reports whether v holds an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == Int || v.kind == Float }

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Float returns v as a float64 when v is numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Int:
		return float64(v.i), true
	}
	return 0, false
}

// Text returns the text held by v.
func (v Value) Text() (string, bool) { return v.s, v.kind == Text }

// Equal reports whether v and o have the same kind and value. Floats compare
// by bit pattern, matching index keys.
func (v Value) Equal(o Value) bool {
	if v.kind == Float && o.kind == Float {
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	}
	return v == o
}

// String renders v as plain text. Absent renders as the empty string and floats
// always carry a decimal point so they parse back as floats.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case Text:
		return v.s
	default:
		return ""
	}
}

// GoString is used by %#v in diagnostics.
func (v Value) GoString() string {
	switch v.kind {
	case Absent:
		return "nil"
	case Text:
		return strconv.Quote(v.s)
	default:
		return v.String()
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// appendKey writes a collision-free encoding of v to b, used for index tuples.
func (v Value) appendKey(b []byte) []byte {
	b = append(b, byte('0'+v.kind))
	var s string
	switch v.kind {
	case Int:
		s = strconv.FormatInt(v.i, 10)
	case Float:
		s = strconv.FormatUint(math.Float64bits(v.f), 16)
	case Text:
		s = v.s
	}
	b = strconv.AppendInt(b, int64(len(s)), 10)
	b = append(b, ':')
	return append(b, s...)
}
