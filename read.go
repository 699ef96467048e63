package tablecsv

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Read parses r with default settings and no numeric inference.
func Read(r io.Reader) (*Table, error) {
	return NewParser(r).Parse()
}

// ReadNumeric parses r with default settings, converting integer and float
// lexemes into numbers.
func ReadNumeric(r io.Reader) (*Table, error) {
	p := NewParser(r)
	p.InferNumbers = true
	return p.Parse()
}

// ParseString parses s with default settings and no numeric inference.
func ParseString(s string) (*Table, error) {
	return Read(strings.NewReader(s))
}

// ReadFile opens path and parses it as Read does.
func ReadFile(path string) (*Table, error) {
	return readFile(path, false)
}

// ReadFileNumeric opens path and parses it as ReadNumeric does.
func ReadFileNumeric(path string) (*Table, error) {
	return readFile(path, true)
}

func readFile(path string, infer bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tablecsv: open %s: %w", path, err)
	}
	defer f.Close()

	p := NewParser(f)
	p.InferNumbers = infer
	return p.Parse()
}

// ParseHeaders returns the normalized header row of s, or nil when s holds no record.
func ParseHeaders(s string) ([]Key, error) {
	t, err := ParseString(s)
	if err != nil || t == nil {
		return nil, err
	}
	return t.Headers(), nil
}

// ReadHeaders returns the normalized headers of the first record of path,
// without decoding the rest of the file.
func ReadHeaders(path string) ([]Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tablecsv: open %s: %w", path, err)
	}
	defer f.Close()

	return NewParser(f).Headers()
}
