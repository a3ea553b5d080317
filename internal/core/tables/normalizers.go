package tables

import "strings"

// NormalizeCitation canonicalizes a citation number so the same citation
// typed in two files compares equal. It trims surrounding whitespace, a
// leading apostrophe (Excel's force-text marker) and a trailing ".0" left
// when a numeric cell is exported as a float. Inner characters are kept.
func NormalizeCitation(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "'"))
	if strings.HasSuffix(s, ".0") && isDigits(s[:len(s)-2]) {
		s = s[:len(s)-2]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
