package core

// encoding.go normalizes raw CSV bytes before parsing.
//
// Registry exports arrive from Windows Excel as often as from other tools:
//   - A UTF-8 BOM (0xEF 0xBB 0xBF) precedes the header
//   - "Save as CSV" writes Windows-1252, so "Número" is not valid UTF-8
//
// DecodeText handles both so header names match the table definitions.

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText strips a leading BOM and returns valid UTF-8.
// Input that is not valid UTF-8 is decoded as Windows-1252.
func DecodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}
	return decoded
}
