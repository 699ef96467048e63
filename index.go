package tablecsv

import (
	"maps"
	"slices"
	"strings"
)

// Index groups the rows of a Table by the values of a fixed, sorted set of
// columns. It is built on first use and only rebuilt on request, so it does not
// see rows appended or values changed after the build.
type Index struct {
	columns []Key
	buckets map[string][]*Row
}

// Columns returns the indexed columns in sorted order.
func (x *Index) Columns() []Key { return slices.Clone(x.columns) }

// Len returns the number of distinct value tuples.
func (x *Index) Len() int { return len(x.buckets) }

// Get returns the rows whose indexed columns equal values, given in the
// order of Columns, in insertion order. A miss returns nil.
func (x *Index) Get(values ...Value) []*Row {
	if x == nil || len(values) != len(x.columns) {
		return nil
	}
	return x.buckets[tupleKey(values)]
}

func (x *Index) build(rows []*Row) {
	clear(x.buckets)
	vals := make([]Value, len(x.columns))
	for _, r := range rows {
		for i, k := range x.columns {
			vals[i] = r.GetKey(k)
		}
		key := tupleKey(vals)
		x.buckets[key] = append(x.buckets[key], r)
	}
}

func tupleKey(values []Value) string {
	b := make([]byte, 0, 16*len(values))
	for _, v := range values {
		b = v.appendKey(b)
	}
	return string(b)
}

func sortedKeys(columns []Key) []Key {
	out := make([]Key, 0, len(columns))
	for _, k := range columns {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Index returns the index over columns, building it when it is new or empty,
// or when reindex is set.
func (t *Table) Index(columns []string, reindex bool) *Index {
	return t.IndexKeys(FormatHeaders(columns), reindex)
}

// IndexKeys is Index for already normalized columns.
func (t *Table) IndexKeys(columns []Key, reindex bool) *Index {
	columns = sortedKeys(columns)
	name := joinKeys(columns)
	idx, ok := t.indexes[name]
	if !ok {
		idx = &Index{columns: columns, buckets: make(map[string][]*Row)}
		t.indexes[name] = idx
	}
	if reindex || len(idx.buckets) == 0 {
		idx.build(t.rows)
	}
	return idx
}

// Lookup returns the rows whose columns match every entry of key, using (and
// building if needed) the index over the key's columns. When fn is non-nil it is
// called once per matching row.
func (t *Table) Lookup(key map[string]Value, fn func(*Row)) []*Row {
	byKey := make(map[Key]Value, len(key))
	// Apply names in order so collisions after normalization resolve deterministically.
	for _, name := range slices.Sorted(maps.Keys(key)) {
		byKey[ToKey(name)] = key[name]
	}
	columns := slices.Sorted(maps.Keys(byKey))
	values := make([]Value, len(columns))
	for i, k := range columns {
		values[i] = byKey[k]
	}

	rows := t.IndexKeys(columns, false).Get(values...)
	if fn != nil {
		for _, r := range rows {
			fn(r)
		}
	}
	return rows
}

func joinKeys(keys []Key) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("|#|")
		}
		b.WriteString(string(k))
	}
	return b.String()
}
