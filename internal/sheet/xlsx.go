package sheet

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/xuri/excelize/v2"
)

const (
	maxColumnWidth = 255
	// Built-in number format 49 is "@" (text).
	textNumFmt = 49
	// Largest serial Excel accepts (9999-12-31).
	maxExcelSerial = 2958465
)

// readXLSX returns the first worksheet's rows as raw cell values.
//
// Raw values are used so a cell's text does not depend on its display
// format. Date columns are the exception: Excel stores them as day serials,
// which are rendered back to ISO dates here.
func readXLSX(r io.Reader, def core.TableDefinition) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrNoHeader
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrNoHeader
	}

	idx := core.MakeHeaderIndex(rows[0])
	for _, spec := range def.FieldSpecs {
		if spec.Type != core.FieldDate {
			continue
		}
		pos, ok := idx[core.HeaderKey(spec.Name)]
		if !ok {
			continue
		}
		for _, row := range rows[1:] {
			if pos < len(row) {
				row[pos] = serialToDate(row[pos])
			}
		}
	}

	return rows, nil
}

// serialToDate renders an Excel day serial as "2006-01-02" (or with a time
// part when present). Anything else is returned unchanged.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 || serial > maxExcelSerial {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// writeXLSX encodes t as a single-sheet workbook. The header is bold, all
// cells are right-aligned text, and each column is as wide as its longest
// value plus two.
func writeXLSX(w io.Writer, t *core.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if t.Key != "" {
		if err := f.SetSheetName(sheet, t.Key); err != nil {
			return err
		}
		sheet = t.Key
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		NumFmt:    textNumFmt,
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(t.Columns))
	if err := writeSheetRow(f, sheet, 1, t.Columns, widths); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeSheetRow(f, sheet, i+2, row, widths); err != nil {
			return err
		}
	}

	if len(t.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
		if len(t.Rows) > 0 {
			end, err := excelize.CoordinatesToCellName(len(t.Columns), len(t.Rows)+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, "A2", end, bodyStyle); err != nil {
				return err
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// writeSheetRow writes values as strings starting at column A of the given
// 1-based row and widens widths as needed.
func writeSheetRow(f *excelize.File, sheet string, rowNum int, values []string, widths []int) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
		if i < len(widths) {
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
