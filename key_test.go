package tablecsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKey(t *testing.T) {
	t.Parallel()

	tests := map[string]Key{
		"name":        "name",
		"First Name":  "first_name",
		"A\r\nB":      "a_b",
		"tab\there":   "tab_here",
		"":            BlankKey,
		"\r":          BlankKey,
		" ":           "_",
		"Mixed_Case ": "mixed_case_",
	}
	for raw, want := range tests {
		got := ToKey(raw)
		assert.Equal(t, want, got, "ToKey(%q)", raw)
		assert.Equal(t, got, ToKey(string(got)), "ToKey not idempotent for %q", raw)
	}
}

func TestFormatHeaders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Key{"id", "_", "full_name"}, FormatHeaders([]string{"ID", "", "Full Name"}))
}
