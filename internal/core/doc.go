// Package core provides the table model shared by every stage of a
// reconciliation run.
//
// This package holds no reconciliation logic itself. It defines how input
// tables are described, cleaned and validated so the loader, the
// reconciliation pipeline, the history store and the HTTP surface all agree
// on column names and cell semantics.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// fixes the column-to-type mapping for one kind of input file:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: "search", Label: "Citations to resolve"},
//	    FieldSpecs: []core.FieldSpec{
//	        {Name: "NUMERO_COMPARENDO", Required: true, Type: core.FieldText},
//	        {Name: "FECHA_RESOLUCION", Required: true, Type: core.FieldDate},
//	    },
//	})
//
// Loaded rows are projected into FieldSpecs order, so a column's position in
// a [Row] is its position in the definition.
//
// # Cells
//
// Every cell is kept as a raw string. Dates are parsed on demand with a
// [DateParser]; a failed parse yields an invalid pgtype.Date rather than an
// error, so callers rank or skip the value explicitly.
//
// # Error Handling
//
// Stage failures are typed ([LoadError], [WriteError], [StageError]) and
// mapped to user-facing messages using [MapError]:
//
//   - LOAD001-LOAD004: Input file errors (missing file, columns, format)
//   - DATE001: Unparseable date (non-fatal)
//   - WRITE001-WRITE002: Output persistence errors
//   - HIST001-HIST002, UPL001, BUSY001: History and HTTP upload errors
//   - CFG001: Configuration errors
package core
