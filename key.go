package tablecsv

import "strings"

// Key is a normalized header name.
type Key string

// BlankKey is the key of a header that normalizes to nothing.
const BlankKey Key = "_"

var keyReplacer = strings.NewReplacer("\r", "", "\n", "_", "\t", "_", " ", "_")

// ToKey normalizes a raw header: lower-cased, carriage returns dropped and
// newline, tab and space mapped to '_'. ToKey is idempotent.
func ToKey(raw string) Key {
	k := keyReplacer.Replace(strings.ToLower(raw))
	if k == "" {
		return BlankKey
	}
	return Key(k)
}

// FormatHeaders normalizes every raw header.
func FormatHeaders(raw []string) []Key {
	keys := make([]Key, len(raw))
	for i, h := range raw {
		keys[i] = ToKey(h)
	}
	return keys
}

func indexOfKey(keys []Key, k Key) int {
	for i, have := range keys {
		if have == k {
			return i
		}
	}
	return -1
}
