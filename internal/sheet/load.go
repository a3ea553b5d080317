package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/resolutions/internal/core"
)

// Report describes non-fatal findings from a load.
type Report struct {
	Warnings  []core.ValidationError // Typed cells that failed validation
	BlankRows int                    // Fully empty rows that were skipped
}

// Load reads the table at path. Any failure is returned as a *core.LoadError
// naming the table and path.
func Load(path string, def core.TableDefinition) (*core.Table, *Report, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, &core.LoadError{Table: def.Info.Key, Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &core.LoadError{Table: def.Info.Key, Path: path, Err: err}
	}
	defer f.Close()

	return Read(f, path, format, def)
}

// Read loads a table from r. name identifies the source in errors.
func Read(r io.Reader, name string, format Format, def core.TableDefinition) (*core.Table, *Report, error) {
	var (
		records [][]string
		err     error
	)

	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r, def)
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, nil, &core.LoadError{Table: def.Info.Key, Path: name, Err: err}
	}

	t, report, err := project(records, def)
	if err != nil {
		var le *core.LoadError
		if errors.As(err, &le) {
			le.Table, le.Path = def.Info.Key, name
			return nil, nil, le
		}
		return nil, nil, &core.LoadError{Table: def.Info.Key, Path: name, Err: err}
	}
	return t, report, nil
}

// project maps raw records onto the definition's columns. The first record
// is the header. Rows come out in source order with one cell per FieldSpec.
func project(records [][]string, def core.TableDefinition) (*core.Table, *Report, error) {
	if len(records) == 0 || isEmptyRow(records[0]) {
		return nil, nil, core.ErrNoHeader
	}

	idx, missing := core.ValidateHeaders(records[0], def.FieldSpecs)
	if len(missing) > 0 {
		return nil, nil, &core.LoadError{Missing: missing}
	}

	positions := make([]int, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		pos, ok := idx[core.HeaderKey(spec.Name)]
		if !ok {
			pos = -1
		}
		positions[i] = pos
	}

	t := core.NewTable(def)
	t.Rows = make([]core.Row, 0, len(records)-1)
	report := &Report{}

	for n, rec := range records[1:] {
		if isEmptyRow(rec) {
			report.BlankRows++
			continue
		}

		row := make(core.Row, len(def.FieldSpecs))
		for i, spec := range def.FieldSpecs {
			pos := positions[i]
			if pos < 0 || pos >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[pos])
			if spec.Normalizer != nil && v != "" {
				v = spec.Normalizer(v)
			}
			row[i] = v
		}

		// Header is line 1
		report.Warnings = append(report.Warnings, core.ValidateRow(row, def.FieldSpecs, n+2)...)
		t.Rows = append(t.Rows, row)
	}

	return t, report, nil
}

// isEmptyRow returns true if every cell is blank.
func isEmptyRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
