// # TableCSV: Delimited Text Tables for Go
//
// TableCSV decodes CSV-family byte streams into header-addressed tables and encodes tables back into delimited text. It follows RFC 4180 quoting, accepts LF and CRLF line endings, and can infer integer and float fields while reading.
//
// # Features
//
// - Byte-at-a-time Parser with custom field and quote separators; the first record becomes the header row.
// - Optional numeric inference (`Parser.InferNumbers`, `ReadNumeric`) yielding tagged `Value`s: integer, float, text or absent.
// - Streaming decode through `Parser.Sink` so rows are handed off instead of retained.
// - Column-count validation with a logged diagnostic; fatal via `*MalformedRowError` unless `FailOnMalformedColumns` is cleared.
// - `Row` access by position or normalized header name, with copy-on-extend headers and row merging.
// - Lazy composite-key `Index`, `Table.Lookup` and header-joined `Table.Merge`.
// - `Writer` that quotes only where needed and writes an empty field as `""` to tell it apart from an absent one.
//
// # Getting Started
//
//	t, err := tablecsv.ReadNumeric(strings.NewReader("name,age\nAl,30\n"))
//	if err != nil {
//		// handle error
//	}
//	age := t.Row(0).Get("Age") // IntValue(30)
package tablecsv
