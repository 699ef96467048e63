package tablecsv

import (
	"maps"
	"slices"
)

// Row is one decoded record. Its header list is shared with the owning Table
// until a Set introduces a key the Table does not know, at which point the Row
// takes a private copy.
type Row struct {
	values  []Value
	headers []Key
	owned   bool
	line    int
}

// NewRow builds a synthetic row (Line reports -1) over the given headers.
func NewRow(headers []string, values []Value) *Row {
	return &Row{
		values:  slices.Clone(values),
		headers: FormatHeaders(headers),
		owned:   true,
		line:    -1,
	}
}

func newTableRow(headers []Key, values []Value, line int) *Row {
	return &Row{values: values, headers: headers, line: line}
}

// Line returns the 1-based line the record started on, or -1 for synthetic rows.
func (r *Row) Line() int { return r.line }

// Len returns the number of values.
func (r *Row) Len() int { return len(r.values) }

// At returns the value at position i, or absent when i is out of range.
func (r *Row) At(i int) Value {
	if i < 0 || i >= len(r.values) {
		return Nil()
	}
	return r.values[i]
}

// Get resolves each name to a header position and returns the first present
// value found, trying names in order.
func (r *Row) Get(names ...string) Value {
	for _, name := range names {
		if v := r.GetKey(ToKey(name)); !v.IsAbsent() {
			return v
		}
	}
	return Nil()
}

// GetKey is Get for an already normalized key.
func (r *Row) GetKey(k Key) Value {
	return r.At(indexOfKey(r.headers, k))
}

// Pull fetches several columns at once; each column lists alternative names
// tried in order as with Get.
func (r *Row) Pull(columns ...[]string) []Value {
	out := make([]Value, len(columns))
	for i, names := range columns {
		out[i] = r.Get(names...)
	}
	return out
}

// SetAt stores v at position i, padding with absent values as needed.
// Negative positions are ignored.
func (r *Row) SetAt(i int, v Value) {
	if i < 0 {
		return
	}
	for len(r.values) <= i {
		r.values = append(r.values, Nil())
	}
	r.values[i] = v
}

// Set stores v under name. An unknown name is appended to this row's headers
// without affecting the Table or sibling rows.
func (r *Row) Set(name string, v Value) {
	r.SetKey(ToKey(name), v)
}

// SetKey is Set for an already normalized key.
func (r *Row) SetKey(k Key, v Value) {
	i := indexOfKey(r.headers, k)
	if i < 0 {
		if !r.owned {
			r.headers = slices.Clone(r.headers)
			r.owned = true
		}
		r.headers = append(r.headers, k)
		i = len(r.headers) - 1
	}
	r.SetAt(i, v)
}

// Merge copies every field of other into r, overwriting in place.
func (r *Row) Merge(other *Row) *Row {
	for _, k := range other.headers {
		r.SetKey(k, other.GetKey(k))
	}
	return r
}

// MergeMap copies every entry of m into r. Entries are applied in name order,
// so of two names that normalize to the same key the greater one wins.
func (r *Row) MergeMap(m map[string]Value) *Row {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		r.Set(name, m[name])
	}
	return r
}

// Keys returns a copy of the row's headers.
func (r *Row) Keys() []Key { return slices.Clone(r.headers) }

// Values returns a copy of the row's values.
func (r *Row) Values() []Value { return slices.Clone(r.values) }

// Strings renders every value as text.
func (r *Row) Strings() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = v.String()
	}
	return out
}

// ToMap returns the row as a header-keyed mapping.
func (r *Row) ToMap() map[Key]Value {
	m := make(map[Key]Value, len(r.headers))
	for _, k := range r.headers {
		m[k] = r.GetKey(k)
	}
	return m
}

// HasKey reports whether name is one of the row's headers.
func (r *Row) HasKey(name string) bool {
	return indexOfKey(r.headers, ToKey(name)) >= 0
}

// HasValue reports whether v is one of the row's values.
func (r *Row) HasValue(v Value) bool {
	return slices.ContainsFunc(r.values, v.Equal)
}
