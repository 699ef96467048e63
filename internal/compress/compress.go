// Package compress wraps byte sources and sinks with streaming compression so
// compressed delimited files can be read and written directly.
//
// Supported algorithms: gzip, zstd, snappy (framed), s2 and lz4. Detect maps
// file extensions onto them.
package compress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Auto selects the algorithm from the file extension
	Auto Algorithm = "auto"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
)

var extensions = map[string]Algorithm{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".sz":   Snappy,
	".s2":   S2,
	".lz4":  LZ4,
}

// Parse validates an algorithm name. The empty string means Auto.
func Parse(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case "":
		return Auto, nil
	case None, Auto, Gzip, Zstd, Snappy, S2, LZ4:
		return a, nil
	}
	return "", fmt.Errorf("unsupported compression algorithm: %s", name)
}

// Detect returns the algorithm implied by the extension of path, or None.
func Detect(path string) Algorithm {
	if a, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return a
	}
	return None
}

// Resolve turns Auto into the algorithm detected from path.
func Resolve(a Algorithm, path string) Algorithm {
	if a == Auto || a == "" {
		return Detect(path)
	}
	return a
}

// NewReader wraps r so reads return decompressed bytes. Closing the result
// releases decoder resources but does not close r.
func NewReader(r io.Reader, a Algorithm) (io.ReadCloser, error) {
	switch a {
	case None, Auto, "":
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported compression algorithm: %s", a)
}

// NewWriter wraps w so written bytes are compressed. Close flushes the stream
// trailer but does not close w.
func NewWriter(w io.Writer, a Algorithm) (io.WriteCloser, error) {
	switch a {
	case None, Auto, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return enc, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unsupported compression algorithm: %s", a)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
