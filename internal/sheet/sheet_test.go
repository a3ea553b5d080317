package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/core/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testDef = core.TableDefinition{
	Info: core.TableInfo{
		Key:     "search",
		Columns: []string{"NUMERO_COMPARENDO", "NUMERO_RESOLUCION", "FECHA_RESOLUCION", "Valor"},
	},
	FieldSpecs: []core.FieldSpec{
		{Name: "NUMERO_COMPARENDO", Type: core.FieldText, Required: true, Normalizer: strings.ToUpper},
		{Name: "NUMERO_RESOLUCION", Type: core.FieldText, Required: true},
		{Name: "FECHA_RESOLUCION", Type: core.FieldDate, Required: true},
		{Name: "Valor", Type: core.FieldNumeric},
	},
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"base.xlsx", FormatXLSX, false},
		{"BASE.XLSX", FormatXLSX, false},
		{"busqueda.csv", FormatCSV, false},
		{"dir/file.txt", FormatCSV, false},
		{"base.ods", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, core.ErrUnsupportedFormat, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestRead_CSVProjectsIntoDefinitionOrder(t *testing.T) {
	input := "FECHA_RESOLUCION,extra,numero_comparendo,NUMERO_RESOLUCION\n" +
		"2024-06-01,x, a1 ,R9\n" +
		",,,\n" +
		"bad-date,y,b2,R10\n"

	tbl, report, err := Read(strings.NewReader(input), "busqueda.csv", FormatCSV, testDef)
	require.NoError(t, err)

	assert.Equal(t, testDef.Info.Columns, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, core.Row{"A1", "R9", "2024-06-01", ""}, tbl.Rows[0])
	assert.Equal(t, core.Row{"B2", "R10", "bad-date", ""}, tbl.Rows[1])

	assert.Equal(t, 1, report.BlankRows)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "FECHA_RESOLUCION", report.Warnings[0].Field)
	assert.Equal(t, 4, report.Warnings[0].Line)
}

func TestRead_CSVSemicolonAndWindows1252(t *testing.T) {
	def := core.TableDefinition{
		Info:       core.TableInfo{Key: "base", Columns: []string{"Número Comparendo"}},
		FieldSpecs: []core.FieldSpec{{Name: "Número Comparendo", Required: true}},
	}
	input := []byte("N\xfamero Comparendo;Otro\nA1;x\n")

	tbl, _, err := Read(bytes.NewReader(input), "base.csv", FormatCSV, def)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "A1", tbl.Rows[0][0])
}

func TestRead_MissingColumns(t *testing.T) {
	input := "NUMERO_COMPARENDO\nA1\n"

	_, _, err := Read(strings.NewReader(input), "busqueda.csv", FormatCSV, testDef)
	require.Error(t, err)

	var le *core.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "search", le.Table)
	assert.Equal(t, "busqueda.csv", le.Path)
	assert.Equal(t, []string{"NUMERO_RESOLUCION", "FECHA_RESOLUCION"}, le.Missing)
	assert.Equal(t, "LOAD002", core.MapError(err).Code)
}

func TestRead_EmptyFile(t *testing.T) {
	_, _, err := Read(strings.NewReader(""), "empty.csv", FormatCSV, testDef)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoHeader)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), testDef)
	require.Error(t, err)

	var le *core.LoadError
	require.True(t, errors.As(err, &le))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "LOAD001", core.MapError(err).Code)
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	tbl := &core.Table{
		Key:     "search",
		Columns: testDef.Info.Columns,
		Rows: []core.Row{
			{"0001234", "R9", "2024-06-01", "150000"},
			{"A,2", "R\"10", "01/02/2024", ""},
		},
	}

	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "search"+ext)
			require.NoError(t, Write(path, "unmatched", tbl))

			got, _, err := Load(path, testDef)
			require.NoError(t, err)
			assert.Equal(t, tbl.Columns, got.Columns)
			assert.Equal(t, tbl.Rows, got.Rows)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files must not be left behind")
		})
	}
}

func TestRead_XLSXSearchDateCells(t *testing.T) {
	def, err := core.Lookup(tables.SearchKey)
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(name, "A1", &[]any{"NUMERO_COMPARENDO", "NUMERO_RESOLUCION", "FECHA_RESOLUCION"}))
	require.NoError(t, f.SetSheetRow(name, "A2", &[]any{"A1", "R9", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, f.SetSheetRow(name, "A3", &[]any{"B2", "R10", "01/07/2024"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tbl, report, err := Read(&buf, "busqueda.xlsx", FormatXLSX, def)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, core.Row{"A1", "R9", "2024-06-01"}, tbl.Rows[0])
	assert.Equal(t, core.Row{"B2", "R10", "01/07/2024"}, tbl.Rows[1], "text dates are kept verbatim")
	assert.Empty(t, report.Warnings)
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "final.ods"), "final", &core.Table{})

	var we *core.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "final", we.Output)
}

func TestSerialToDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"45292", "2024-01-01"},
		{"45292.5", "2024-01-01 12:00:00"},
		{"2024-01-01", "2024-01-01"},
		{"20240115", "20240115"},
		{"", ""},
		{"0", "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, serialToDate(tt.input), tt.input)
	}
}
