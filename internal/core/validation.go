package core

// validation.go checks loaded data against a table's FieldSpecs.
//
// Validation happens at two levels:
//  1. Header validation: required columns must be present, or the load fails
//  2. Cell validation: typed columns are checked, but failures are only
//     reported; reconciliation never drops a row because of a bad cell

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Line    int    // 1-based line in the source file, 0 if unknown
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	return b.String()
}

// ValidateHeaders resolves every spec against the header row.
// It returns the header index and the names of required columns that are
// missing. Missing optional columns are not reported.
func ValidateHeaders(headers []string, specs []FieldSpec) (HeaderIndex, []string) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[HeaderKey(spec.Name)]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	return idx, missing
}

// ValidateCell validates a single cell value against a field specification.
// Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	if value == "" {
		return nil
	}

	switch spec.Type {
	case FieldNumeric:
		if !ToPgNumeric(value).Valid {
			return fmt.Errorf("invalid number format")
		}
	case FieldDate:
		if !DefaultDateParser.Parse(value).Valid {
			return fmt.Errorf("invalid date format (use DD/MM/YYYY or YYYY-MM-DD)")
		}
	}
	return nil
}

// ValidateRow checks every typed cell of a projected row and returns all
// problems found. line is the row's 1-based position in the source file.
func ValidateRow(row Row, specs []FieldSpec, line int) []ValidationError {
	var errs []ValidationError
	for i, spec := range specs {
		if spec.Type == FieldText {
			continue
		}
		v := row.Cell(i)
		if err := ValidateCell(v, spec); err != nil {
			errs = append(errs, ValidationError{
				Field:   spec.Name,
				Value:   v,
				Line:    line,
				Message: err.Error(),
			})
		}
	}
	return errs
}

// fieldTypeName returns a human-readable name for a field type.
func fieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	default:
		return "value"
	}
}

// DescribeSpecs renders the expected columns, one per line, for error help.
func DescribeSpecs(specs []FieldSpec) string {
	var b strings.Builder
	for _, spec := range specs {
		req := "optional"
		if spec.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "  %s (%s, %s)\n", spec.Name, fieldTypeName(spec.Type), req)
	}
	return b.String()
}
