package core

// convert.go turns raw spreadsheet cells into typed values.
//
// These functions handle the messy reality of exported registry data:
//   - Day-first and month-first dates, ISO timestamps, 2-digit years
//   - Currency symbols and thousand separators in amounts
//   - Excel formula prefixes (="value") and stray quotes
//   - Header names typed with decomposed accents or odd spacing
//
// All ToPg* functions return pgtype values with Valid=false for empty or
// invalid input. Callers treat Valid=false as "no value" instead of failing.

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/unicode/norm"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

var (
	isoLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04:05.000",
		"2006-01-02T15:04:05Z07:00",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"02/01/2006 15:04:05", "2/1/2006 15:04",
	}
	monthFirstLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"01/02/2006 15:04:05", "1/2/2006 15:04",
	}
	dayFirstShortLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "02-01-06", "2.1.06", "02.01.06",
	}
	monthFirstShortLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "01-02-06", "1.2.06", "01.02.06",
	}
)

// DateParser parses date cells tolerantly.
// DayFirst selects dd/mm/yyyy over mm/dd/yyyy for ambiguous slash dates.
type DateParser struct {
	DayFirst bool
}

// DefaultDateParser reads registry exports, which write dates day-first.
var DefaultDateParser = DateParser{DayFirst: true}

// Parse converts s to a pgtype.Date. The result is invalid when s is empty
// or matches no known layout; it never returns an error.
func (p DateParser) Parse(s string) pgtype.Date {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	long, short := monthFirstLayouts, monthFirstShortLayouts
	if p.DayFirst {
		long, short = dayFirstLayouts, dayFirstShortLayouts
	}

	// 4-digit year layouts first (unambiguous)
	for _, set := range [][]string{isoLayouts, long} {
		for _, layout := range set {
			if t, err := time.Parse(layout, s); err == nil {
				return pgtype.Date{Time: t, Valid: true}
			}
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range short {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	return pgtype.Date{Valid: false}
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgNumeric converts a string to pgtype.Numeric.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ToPgNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}

	return n
}

// ToPgUUID converts a uuid.UUID to pgtype.UUID.
// The nil UUID is stored as NULL.
func ToPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// HeaderKey normalizes a column name for matching: cleaned, NFC-composed,
// lowercased, with inner whitespace collapsed. "Fecha de la resolución"
// and "FECHA DE LA RESOLUCIÓN" share one key.
func HeaderKey(name string) string {
	s := norm.NFC.String(CleanCell(name))
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// When a name repeats, the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := HeaderKey(h)
		if _, seen := idx[key]; seen {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
