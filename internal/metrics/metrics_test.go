package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oleg578/tablecsv"
)

func TestCollectorCountsParseAndWrite(t *testing.T) {
	c := NewCollector("tablecsv_test")

	var rows []*tablecsv.Row
	p := tablecsv.NewParser(strings.NewReader("a,b\n1,2\n3\n4,5\n"))
	p.FailOnMalformedColumns = false
	p.Logger = c.Logger(zap.NewNop())
	p.Sink = c.Sink(func(r *tablecsv.Row) error {
		rows = append(rows, r)
		return nil
	})

	table, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Len(t, rows, 3)

	var buf bytes.Buffer
	w := tablecsv.NewWriter(c.Writer(&buf))
	for _, r := range rows {
		require.NoError(t, w.WriteRow(r))
	}

	stats := c.Snapshot()
	assert.Equal(t, int64(3), stats.RowsDecoded)
	assert.Equal(t, int64(1), stats.RowsMalformed)
	assert.Equal(t, int64(4), stats.RowsWritten)
	assert.Equal(t, int64(buf.Len()), stats.BytesWritten)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestCollectorCountsMalformedBelowLogLevel(t *testing.T) {
	c := NewCollector("tablecsv_test")
	core, logs := observer.New(zap.ErrorLevel)
	l := c.Logger(zap.New(core)).With(zap.String("command", "cat"))

	l.Warn(tablecsv.MalformedRowMessage, zap.Int("row", 1))
	l.Warn("something else")
	l.Info(tablecsv.MalformedRowMessage)
	l.Error("failed")

	assert.Equal(t, int64(1), c.Snapshot().RowsMalformed)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed", logs.All()[0].Message)
	assert.Equal(t, "cat", logs.All()[0].ContextMap()["command"])
}

func TestCollectorSinkPropagatesErrors(t *testing.T) {
	c := NewCollector("tablecsv_test")
	boom := assert.AnError

	err := c.Sink(func(*tablecsv.Row) error { return boom })(tablecsv.NewRow(nil, nil))
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, c.Sink(nil)(tablecsv.NewRow(nil, nil)))

	c.AddDecoded(3)
	assert.Equal(t, int64(5), c.Snapshot().RowsDecoded)
}
