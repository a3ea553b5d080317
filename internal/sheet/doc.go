// Package sheet reads and writes the tabular files a reconciliation run
// consumes and produces.
//
// Two formats are supported, chosen by file extension:
//
//   - .xlsx via github.com/xuri/excelize/v2 (first worksheet only)
//   - .csv via encoding/csv (comma or semicolon separated, UTF-8 or
//     Windows-1252)
//
// Loading projects every row into the table definition's column order and
// fails with a *core.LoadError when required columns are missing. Writing is
// atomic per file: a failed write never leaves a truncated output behind.
package sheet
