package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tablecsv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TABLECSV_SEP", ";")

	path := writeConfig(t, `
input:
  separator: "${TABLECSV_SEP}"
  infer_numbers: true
output:
  separator: '\t'
  crlf: true
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ";", cfg.Input.Separator)
	assert.Equal(t, `"`, cfg.Input.Quote)
	assert.True(t, cfg.Input.InferNumbers)
	assert.True(t, cfg.Input.FailOnMalformedColumns, "unset keys keep their defaults")
	assert.Equal(t, "auto", cfg.Input.Compression)
	assert.Equal(t, `\t`, cfg.Output.Separator)
	assert.True(t, cfg.Output.CRLF)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)

	b, err := Byte(cfg.Output.Separator)
	require.NoError(t, err)
	assert.Equal(t, byte('\t'), b)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "input: [\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("invalid delimiters", func(t *testing.T) {
		_, err := Load(writeConfig(t, "input:\n  separator: ';;'\noutput:\n  quote: ','\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input.separator")
		assert.Contains(t, err.Error(), "output: separator and quote must differ")
	})
}

func TestByte(t *testing.T) {
	for in, want := range map[string]byte{",": ',', ";": ';', `\t`: '\t', "|": '|'} {
		got, err := Byte(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "ab", "\n", "\r"} {
		_, err := Byte(in)
		assert.Error(t, err, "Byte(%q)", in)
	}
}
