package sheet

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/JonMunkholm/resolutions/internal/core"
)

// readCSV parses a whole CSV document. Files saved by Spanish-locale Excel
// use ';' as the separator; the header line decides which one applies.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = core.DecodeText(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectSeparator(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return cr.ReadAll()
}

func detectSeparator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// writeCSV encodes t with a UTF-8 BOM so Excel shows accents correctly.
func writeCSV(w io.Writer, t *core.Table) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
