package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oleg578/tablecsv"
	"github.com/oleg578/tablecsv/internal/compress"
	"github.com/oleg578/tablecsv/internal/config"
)

// openInput opens path ("-" or empty for stdin) and undoes its compression.
func (a *app) openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	alg, err := compress.Parse(a.cfg.Input.Compression)
	if err != nil {
		return nil, err
	}

	if path == "" || path == "-" {
		return compress.NewReader(cmd.InOrStdin(), compress.Resolve(alg, ""))
	}

	f, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	r, err := compress.NewReader(f, compress.Resolve(alg, path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &stackedReadCloser{ReadCloser: r, under: f}, nil
}

// openOutput opens the configured destination with compression applied and
// byte/row counting in front of it.
func (a *app) openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	alg, err := compress.Parse(a.cfg.Output.Compression)
	if err != nil {
		return nil, nil, err
	}

	var (
		dst   io.Writer = cmd.OutOrStdout()
		under io.Closer
	)
	if a.output != "" {
		f, err := os.Create(a.output) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output: %w", err)
		}
		dst, under = f, f
	}

	cw, err := compress.NewWriter(dst, compress.Resolve(alg, a.output))
	if err != nil {
		if under != nil {
			under.Close()
		}
		return nil, nil, err
	}
	closeFn := func() error {
		err := cw.Close()
		if under != nil {
			err = errors.Join(err, under.Close())
		}
		return err
	}
	return a.collector.Writer(cw), closeFn, nil
}

func (a *app) newParser(r io.Reader) *tablecsv.Parser {
	p := tablecsv.NewParser(r)
	// Validate has already vetted the delimiters.
	p.Comma, _ = config.Byte(a.cfg.Input.Separator)
	p.Quote, _ = config.Byte(a.cfg.Input.Quote)
	p.InferNumbers = a.cfg.Input.InferNumbers
	p.FailOnMalformedColumns = a.cfg.Input.FailOnMalformedColumns
	p.Logger = a.log
	return p
}

func (a *app) newWriter(w io.Writer) *tablecsv.Writer {
	out := tablecsv.NewWriter(w)
	out.Comma, _ = config.Byte(a.cfg.Output.Separator)
	out.Quote, _ = config.Byte(a.cfg.Output.Quote)
	out.UseCRLF = a.cfg.Output.CRLF
	out.AlwaysQuote = a.cfg.Output.AlwaysQuote
	out.QuoteNumbers = a.cfg.Output.QuoteNumbers
	return out
}

// readTable fully decodes path into memory.
func (a *app) readTable(cmd *cobra.Command, path string) (*tablecsv.Table, error) {
	in, err := a.openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	t, err := a.newParser(in).Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	if t == nil {
		return nil, fmt.Errorf("%s: no header row", displayName(path))
	}
	a.collector.AddDecoded(t.Len())
	return t, nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

type stackedReadCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReadCloser) Close() error {
	return errors.Join(s.ReadCloser.Close(), s.under.Close())
}
