package tablecsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPeopleTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable([]string{"ID", "Name", "Nick"}, WithLogger(zap.NewNop()))
	require.NoError(t, table.Append([]Value{IntValue(1), TextValue("Alan"), Nil()}))
	require.NoError(t, table.Append([]Value{IntValue(2), TextValue("Ben"), TextValue("benny")}))
	return table
}

func TestRowGet(t *testing.T) {
	t.Parallel()

	table := newPeopleTable(t)
	r := table.Row(0)

	assert.Equal(t, IntValue(1), r.Get("id"))
	assert.Equal(t, IntValue(1), r.Get("ID"))
	assert.Equal(t, TextValue("Alan"), r.At(1))
	assert.Equal(t, Nil(), r.At(7))
	assert.Equal(t, Nil(), r.At(-1))
	assert.Equal(t, Nil(), r.Get("missing"))

	// First present value wins.
	assert.Equal(t, TextValue("Alan"), r.Get("nick", "name"))
	assert.Equal(t, TextValue("benny"), table.Row(1).Get("nick", "name"))

	assert.Equal(t, []Value{IntValue(1), TextValue("Alan")}, r.Pull([]string{"id"}, []string{"nick", "name"}))
	assert.Equal(t, 1, r.Line())
}

func TestRowSetDivergesHeaders(t *testing.T) {
	t.Parallel()

	table := newPeopleTable(t)
	first, second := table.Row(0), table.Row(1)

	first.Set("name", TextValue("Al"))
	assert.Equal(t, TextValue("Al"), first.Get("name"))
	assert.Len(t, first.Keys(), 3)

	first.Set("Extra Field", TextValue("x"))
	assert.Equal(t, []Key{"id", "name", "nick", "extra_field"}, first.Keys())
	assert.Equal(t, TextValue("x"), first.Get("extra field"))
	assert.Equal(t, 4, first.Len())

	assert.Equal(t, []Key{"id", "name", "nick"}, table.Headers())
	assert.Equal(t, []Key{"id", "name", "nick"}, second.Keys())
	assert.False(t, second.HasKey("extra_field"))
}

func TestRowSetAtPads(t *testing.T) {
	t.Parallel()

	r := NewRow([]string{"a"}, nil)
	r.SetAt(2, IntValue(5))
	assert.Equal(t, []Value{Nil(), Nil(), IntValue(5)}, r.Values())
	assert.Equal(t, -1, r.Line())

	r.SetAt(-1, IntValue(9))
	assert.Equal(t, 3, r.Len())
}

func TestRowMerge(t *testing.T) {
	t.Parallel()

	table := newPeopleTable(t)
	r := table.Row(0)

	other := NewRow([]string{"Nick", "Score"}, []Value{TextValue("al"), IntValue(90)})
	got := r.Merge(other)

	require.Same(t, r, got)
	assert.Equal(t, TextValue("al"), r.Get("nick"))
	assert.Equal(t, IntValue(90), r.Get("score"))
	assert.Equal(t, TextValue("Alan"), r.Get("name"))

	r.MergeMap(map[string]Value{"Name": TextValue("A."), "city": TextValue("Oslo")})
	assert.Equal(t, TextValue("A."), r.Get("name"))
	assert.Equal(t, TextValue("Oslo"), r.Get("city"))
}

func TestRowViews(t *testing.T) {
	t.Parallel()

	r := newPeopleTable(t).Row(1)

	assert.Equal(t, map[Key]Value{
		"id":   IntValue(2),
		"name": TextValue("Ben"),
		"nick": TextValue("benny"),
	}, r.ToMap())
	assert.True(t, r.HasKey("Name"))
	assert.False(t, r.HasKey("age"))
	assert.True(t, r.HasValue(TextValue("Ben")))
	assert.False(t, r.HasValue(TextValue("2")))
	assert.Equal(t, []string{"2", "Ben", "benny"}, r.Strings())
}

func TestRowDuplicateHeaders(t *testing.T) {
	t.Parallel()

	r := NewRow([]string{"a", "A"}, []Value{IntValue(1), IntValue(2)})
	assert.Equal(t, IntValue(1), r.Get("a"))
	assert.Equal(t, IntValue(2), r.At(1))
}
