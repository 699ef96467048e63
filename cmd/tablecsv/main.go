package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oleg578/tablecsv/internal/config"
	"github.com/oleg578/tablecsv/internal/logger"
	"github.com/oleg578/tablecsv/internal/metrics"
)

var version = "0.1.0"

// app carries the resolved configuration shared by every subcommand.
type app struct {
	configFile string
	stats      bool
	logLevel   string

	cfg       *config.Config
	log       *zap.Logger
	collector *metrics.Collector

	// flag values, applied over the config file only when set explicitly
	sep, quote, compression                  string
	numeric, lenient                         bool
	output, outSep, outQuote, outCompression string
	crlf, alwaysQuote, quoteNumbers          bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tablecsv",
		Short: "Decode, query, merge and re-encode delimited text tables",
		Long: `tablecsv reads CSV-family files (optionally gzip/zstd/snappy/s2/lz4 compressed),
uses the first record as the header row, and writes tables back with minimal quoting.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.stats && a.collector != nil {
				s := a.collector.Snapshot()
				fmt.Fprintf(cmd.ErrOrStderr(), "rows decoded: %d\nrows malformed: %d\nrows written: %d\nbytes written: %d\n",
					s.RowsDecoded, s.RowsMalformed, s.RowsWritten, s.BytesWritten)
			}
			// stderr cannot be fsynced on most terminals and pipes
			_ = logger.Sync()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&a.stats, "stats", false, "Print row counters to stderr when done")

	pf.StringVar(&a.sep, "sep", ",", "Input field separator (single byte, \\t for tab)")
	pf.StringVar(&a.quote, "quote", `"`, "Input quote character")
	pf.BoolVar(&a.numeric, "numeric", false, "Convert integer and float fields into numbers")
	pf.BoolVar(&a.lenient, "lenient", false, "Warn about rows with the wrong column count instead of failing")
	pf.StringVar(&a.compression, "compression", "auto", "Input compression (auto, none, gzip, zstd, snappy, s2, lz4)")

	pf.StringVarP(&a.output, "output", "o", "", "Write to this file instead of stdout")
	pf.StringVar(&a.outSep, "out-sep", ",", "Output field separator")
	pf.StringVar(&a.outQuote, "out-quote", `"`, "Output quote character")
	pf.BoolVar(&a.crlf, "crlf", false, "Terminate output records with CRLF")
	pf.BoolVar(&a.alwaysQuote, "always-quote", false, "Quote every text field")
	pf.BoolVar(&a.quoteNumbers, "quote-numbers", false, "Quote numeric fields too")
	pf.StringVar(&a.outCompression, "out-compression", "auto", "Output compression (auto, none, gzip, zstd, snappy, s2, lz4)")

	root.AddCommand(
		newCatCmd(a),
		newJSONCmd(a),
		newHeadersCmd(a),
		newLookupCmd(a),
		newMergeCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "tablecsv v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			},
		},
	)
	return root
}

// setup loads the config file, overlays explicitly set flags and builds the
// logger and metrics collector.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	overlay := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	overlay("sep", func() { cfg.Input.Separator = a.sep })
	overlay("quote", func() { cfg.Input.Quote = a.quote })
	overlay("numeric", func() { cfg.Input.InferNumbers = a.numeric })
	overlay("lenient", func() { cfg.Input.FailOnMalformedColumns = !a.lenient })
	overlay("compression", func() { cfg.Input.Compression = a.compression })
	overlay("out-sep", func() { cfg.Output.Separator = a.outSep })
	overlay("out-quote", func() { cfg.Output.Quote = a.outQuote })
	overlay("crlf", func() { cfg.Output.CRLF = a.crlf })
	overlay("always-quote", func() { cfg.Output.AlwaysQuote = a.alwaysQuote })
	overlay("quote-numbers", func() { cfg.Output.QuoteNumbers = a.quoteNumbers })
	overlay("out-compression", func() { cfg.Output.Compression = a.outCompression })
	overlay("log-level", func() { cfg.Log.Level = a.logLevel })

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}

	a.cfg = cfg
	a.collector = metrics.NewCollector("tablecsv")
	a.log = a.collector.Logger(logger.With(zap.String("command", cmd.Name())))
	return nil
}
