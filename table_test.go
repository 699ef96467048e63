package tablecsv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTableAppendMalformed(t *testing.T) {
	t.Run("fail on malformed columns", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		table := NewTable([]string{"a", "b"}, WithLogger(zap.New(core)))

		err := table.Append([]Value{IntValue(1), IntValue(2), IntValue(3)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedRow))

		var merr *MalformedRowError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, 2, merr.Expected)
		assert.Equal(t, 3, merr.Found)
		assert.Contains(t, merr.Dump, "*** ROW 0 : EXPECTED 2 : FOUND 3")
		assert.Contains(t, merr.Dump, "a                                : 1\n")

		assert.Equal(t, 1, table.Lines())
		assert.Equal(t, 0, table.Len())
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("warn and keep", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		table := NewTable([]string{"a", "b"}, WithLogger(zap.New(core)), WithFailOnMalformedColumns(false))

		require.NoError(t, table.Append([]Value{IntValue(1), IntValue(2), IntValue(3)}))
		assert.Equal(t, 1, table.Lines())
		require.Equal(t, 1, table.Len())
		assert.Equal(t, 3, table.Row(0).Len())
		assert.Equal(t, 1, logs.FilterMessage("column count mismatch").Len())
	})

	t.Run("sink receives malformed rows", func(t *testing.T) {
		var seen []*Row
		table := NewTable([]string{"a", "b"},
			WithLogger(zap.NewNop()),
			WithFailOnMalformedColumns(false),
			WithSink(func(r *Row) error {
				seen = append(seen, r)
				return nil
			}),
		)

		require.NoError(t, table.Append([]Value{IntValue(1)}))
		require.NoError(t, table.Append([]Value{IntValue(1), IntValue(2)}))
		assert.Len(t, seen, 2)
		assert.Equal(t, 0, table.Len())
		assert.Equal(t, 2, table.Lines())
	})
}

func newGroupTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable([]string{"id", "Group"}, WithLogger(zap.NewNop()))
	for _, rec := range [][]Value{
		{IntValue(1), TextValue("x")},
		{IntValue(2), TextValue("y")},
		{IntValue(3), TextValue("x")},
	} {
		require.NoError(t, table.Append(rec))
	}
	return table
}

func TestTableIndexLookup(t *testing.T) {
	t.Parallel()

	table := newGroupTable(t)

	idx := table.Index([]string{"GROUP"}, false)
	assert.Equal(t, []Key{"group"}, idx.Columns())
	assert.Equal(t, 2, idx.Len())

	rows := table.Lookup(map[string]Value{"group": TextValue("x")}, nil)
	require.Len(t, rows, 2)
	assert.Same(t, table.Row(0), rows[0])
	assert.Same(t, table.Row(2), rows[1])

	var visited []int64
	table.Lookup(map[string]Value{"Group": TextValue("x")}, func(r *Row) {
		n, _ := r.Get("id").Int()
		visited = append(visited, n)
	})
	assert.Equal(t, []int64{1, 3}, visited)

	assert.Nil(t, table.Lookup(map[string]Value{"group": TextValue("z")}, nil))
	assert.Nil(t, table.Lookup(map[string]Value{"group": IntValue(1)}, nil))
}

func TestTableIndexCompositeKey(t *testing.T) {
	t.Parallel()

	table := newGroupTable(t)

	rows := table.Lookup(map[string]Value{"group": TextValue("x"), "ID": IntValue(3)}, nil)
	require.Len(t, rows, 1)
	assert.Same(t, table.Row(2), rows[0])

	// Column order of the request does not matter.
	idx := table.Index([]string{"id", "group"}, false)
	assert.Same(t, idx, table.Index([]string{"group", "id"}, false))
	assert.Equal(t, []Key{"group", "id"}, idx.Columns())
	assert.Len(t, idx.Get(TextValue("y"), IntValue(2)), 1)
	assert.Nil(t, idx.Get(TextValue("y")))
}

func TestTableReindex(t *testing.T) {
	t.Parallel()

	table := newGroupTable(t)
	key := map[string]Value{"group": TextValue("x")}

	require.Len(t, table.Lookup(key, nil), 2)

	require.NoError(t, table.Append([]Value{IntValue(4), TextValue("x")}))
	table.Row(1).Set("group", TextValue("x"))

	assert.Len(t, table.Lookup(key, nil), 2, "index must not refresh on its own")

	table.Index([]string{"group"}, true)
	rows := table.Lookup(key, nil)
	require.Len(t, rows, 4)
	assert.Same(t, table.Row(1), rows[1])

	table.Index([]string{"group"}, true)
	assert.Len(t, table.Lookup(key, nil), 4, "reindex must not duplicate rows")
}

func TestTableMerge(t *testing.T) {
	t.Parallel()

	a := NewTable([]string{"id", "name"}, WithLogger(zap.NewNop()))
	require.NoError(t, a.Append([]Value{IntValue(1), TextValue("al")}))
	require.NoError(t, a.Append([]Value{IntValue(2), TextValue("bo")}))

	b := NewTable([]string{"ID", "Score"}, WithLogger(zap.NewNop()))
	require.NoError(t, b.Append([]Value{IntValue(2), IntValue(90)}))
	require.NoError(t, b.Append([]Value{IntValue(3), IntValue(70)}))

	got := a.Merge(b)

	require.Same(t, a, got)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []Key{"id", "name"}, a.Headers())
	assert.Equal(t, IntValue(90), a.Row(1).Get("score"))
	assert.Equal(t, TextValue("bo"), a.Row(1).Get("name"))
	assert.True(t, a.Row(0).Get("score").IsAbsent())
	assert.False(t, a.Row(0).HasKey("score"))
	assert.Empty(t, a.Lookup(map[string]Value{"id": IntValue(3)}, nil))
}

func TestTableMergeSeveral(t *testing.T) {
	t.Parallel()

	a := NewTable([]string{"id", "name"}, WithLogger(zap.NewNop()))
	require.NoError(t, a.Append([]Value{TextValue("1"), TextValue("al")}))

	b := NewTable([]string{"id", "score"}, WithLogger(zap.NewNop()))
	require.NoError(t, b.Append([]Value{TextValue("1"), TextValue("10")}))
	c := NewTable([]string{"id", "city"}, WithLogger(zap.NewNop()))
	require.NoError(t, c.Append([]Value{TextValue("1"), TextValue("Oslo")}))

	a.Merge(b, c)
	assert.Equal(t, map[Key]Value{
		"id":    TextValue("1"),
		"name":  TextValue("al"),
		"score": TextValue("10"),
		"city":  TextValue("Oslo"),
	}, a.Row(0).ToMap())
}

func TestTableWrite(t *testing.T) {
	t.Parallel()

	table := NewTable([]string{"Name", "Note", "N"}, WithLogger(zap.NewNop()))
	require.NoError(t, table.Append([]Value{TextValue("Al,an"), TextValue(""), IntValue(3)}))
	require.NoError(t, table.Append([]Value{TextValue("Ben"), Nil(), FloatValue(2.5)}))

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf, '"', ','))
	assert.Equal(t, "name,note,n\n\"Al,an\",\"\",3\nBen,,2.5\n", buf.String())

	buf.Reset()
	require.NoError(t, table.Write(&buf, '\'', ';'))
	assert.Equal(t, "name;note;n\nAl,an;'';3\nBen;;2.5\n", buf.String())
}
