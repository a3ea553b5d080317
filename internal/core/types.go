package core

import "fmt"

// FieldType represents the expected data type for a table column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// FieldSpec defines validation rules for a single column.
type FieldSpec struct {
	Name       string              // Column header name (matched case- and accent-form-insensitively)
	Type       FieldType           // Expected data type
	Required   bool                // Column must exist in the header
	Normalizer func(string) string // Optional transformation applied at load time
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key     string   // Unique identifier: "base", "search"
	Label   string   // Display name
	Columns []string // Header column names, in definition order
}

// TableDefinition fixes the column-to-type mapping for one kind of input.
type TableDefinition struct {
	Info       TableInfo
	FieldSpecs []FieldSpec
}

// Index returns the position of the named column in definition order,
// or -1 if the definition has no such column.
func (d TableDefinition) Index(name string) int {
	key := HeaderKey(name)
	for i, spec := range d.FieldSpecs {
		if HeaderKey(spec.Name) == key {
			return i
		}
	}
	return -1
}

// HeaderIndex maps normalized column names to their position in a header row.
type HeaderIndex map[string]int

// Row is one record with cells aligned to its table's columns.
type Row []string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Cell returns the value at i, or "" when i is out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Table is an ordered, in-memory snapshot of a loaded file.
type Table struct {
	Key     string
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the definition's columns.
func NewTable(def TableDefinition) *Table {
	cols := make([]string, len(def.Info.Columns))
	copy(cols, def.Info.Columns)
	return &Table{Key: def.Info.Key, Columns: cols}
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	key := HeaderKey(name)
	for i, c := range t.Columns {
		if HeaderKey(c) == key {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns every value of the named column in row order.
func (t *Table) Column(name string) []string {
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for n, row := range t.Rows {
		out[n] = row.Cell(i)
	}
	return out
}

// String renders a short description for logs.
func (t *Table) String() string {
	return fmt.Sprintf("%s[%d cols x %d rows]", t.Key, len(t.Columns), len(t.Rows))
}
