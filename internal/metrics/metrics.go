// Package metrics counts decoded, malformed and written rows with Prometheus
// counters held in a private registry.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oleg578/tablecsv"
)

// Collector tracks row throughput for one run.
type Collector struct {
	registry      *prometheus.Registry
	rowsDecoded   prometheus.Counter
	rowsMalformed prometheus.Counter
	rowsWritten   prometheus.Counter
	bytesWritten  prometheus.Counter
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	RowsDecoded   int64
	RowsMalformed int64
	RowsWritten   int64
	BytesWritten  int64
}

// NewCollector creates a collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rowsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_decoded_total",
			Help:      "Data rows produced by the parser.",
		}),
		rowsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_malformed_total",
			Help:      "Rows whose column count differed from the header.",
		}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Records emitted by the writer, header rows included.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes emitted by the writer before compression.",
		}),
	}
	c.registry.MustRegister(c.rowsDecoded, c.rowsMalformed, c.rowsWritten, c.bytesWritten)
	return c
}

// Registry exposes the collector's registry, e.g. for an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Sink counts every row before handing it to next. A nil next accepts the row.
func (c *Collector) Sink(next tablecsv.Sink) tablecsv.Sink {
	return func(r *tablecsv.Row) error {
		c.rowsDecoded.Inc()
		if next == nil {
			return nil
		}
		return next(r)
	}
}

// AddDecoded counts n rows decoded outside a sink.
func (c *Collector) AddDecoded(n int) { c.rowsDecoded.Add(float64(n)) }

// Logger returns l teed with a core that counts malformed-row diagnostics.
// The counting core is enabled at Warn regardless of l's level, so the count
// does not depend on what l actually writes.
func (c *Collector) Logger(l *zap.Logger) *zap.Logger {
	return l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, malformedCore{c: c})
	}))
}

// malformedCore is a zapcore.Core that writes nothing and increments
// rows_malformed_total for every malformed-row entry.
type malformedCore struct {
	c *Collector
}

func (m malformedCore) Enabled(lvl zapcore.Level) bool { return lvl >= zapcore.WarnLevel }

func (m malformedCore) With([]zapcore.Field) zapcore.Core { return m }

func (m malformedCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if m.Enabled(e.Level) && e.Message == tablecsv.MalformedRowMessage {
		return ce.AddCore(e, m)
	}
	return ce
}

func (m malformedCore) Write(zapcore.Entry, []zapcore.Field) error {
	m.c.rowsMalformed.Inc()
	return nil
}

func (m malformedCore) Sync() error { return nil }

// Writer wraps w, counting one row per Write call, which is how
// tablecsv.Writer emits records.
func (c *Collector) Writer(w io.Writer) io.Writer {
	return &countingWriter{w: w, c: c}
}

type countingWriter struct {
	w io.Writer
	c *Collector
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.c.bytesWritten.Add(float64(n))
	if err == nil {
		cw.c.rowsWritten.Inc()
	}
	return n, err
}

// Snapshot reads the current counter values.
func (c *Collector) Snapshot() Stats {
	return Stats{
		RowsDecoded:   counterValue(c.rowsDecoded),
		RowsMalformed: counterValue(c.rowsMalformed),
		RowsWritten:   counterValue(c.rowsWritten),
		BytesWritten:  counterValue(c.bytesWritten),
	}
}

func counterValue(c prometheus.Counter) int64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetCounter().GetValue())
}
