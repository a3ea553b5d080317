package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// ----------------------------------------------------------------------------
// ToPgNumeric Tests
// ----------------------------------------------------------------------------

func TestToPgNumeric(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{name: "positive integer", input: "123", wantValid: true, wantValue: "123"},
		{name: "zero", input: "0", wantValid: true, wantValue: "0"},
		{name: "negative integer", input: "-456", wantValid: true, wantValue: "-456"},
		{name: "decimal number", input: "123.45", wantValid: true, wantValue: "123.45"},
		{name: "peso amount with separators", input: "$1,234,567", wantValid: true, wantValue: "1234567"},
		{name: "accounting negative", input: "($1,234.56)", wantValid: true, wantValue: "-1234.56"},
		{name: "surrounded by whitespace", input: "  123.45  ", wantValid: true, wantValue: "123.45"},
		{name: "empty string", input: "", wantValid: false},
		{name: "only whitespace", input: "   ", wantValid: false},
		{name: "alphabetic string", input: "abc", wantValid: false},
		{name: "only currency symbol", input: "$", wantValid: false},
		{name: "multiple decimal points", input: "1.2.3", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgNumeric(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgNumeric(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			f, err := got.Float64Value()
			if err != nil {
				t.Fatalf("Float64Value() error = %v", err)
			}
			want := ToPgNumeric(tt.wantValue)
			wf, _ := want.Float64Value()
			if f.Float64 != wf.Float64 {
				t.Errorf("ToPgNumeric(%q) = %v, want %v", tt.input, f.Float64, wf.Float64)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// DateParser Tests
// ----------------------------------------------------------------------------

func TestDateParser_DayFirst(t *testing.T) {
	p := DateParser{DayFirst: true}

	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{name: "ISO format", input: "2024-03-01", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 1},
		{name: "ISO with time", input: "2024-03-01 00:00:00", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 1},
		{name: "day first slashes", input: "01/03/2024", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 1},
		{name: "day first single digits", input: "5/1/2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 5},
		{name: "day first dashes", input: "15-01-2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "excel formula wrapper", input: `="2024-06-01"`, wantValid: true, wantYear: 2024, wantMonth: time.June, wantDay: 1},
		{name: "compact format", input: "20240115", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "empty", input: "", wantValid: false},
		{name: "garbage", input: "not a date", wantValid: false},
		{name: "impossible day", input: "32/01/2024", wantValid: false},
		{name: "month first rejected when day first", input: "01/15/2024", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("Parse(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if got.Time.Year() != tt.wantYear || got.Time.Month() != tt.wantMonth || got.Time.Day() != tt.wantDay {
				t.Errorf("Parse(%q) = %v, want %d-%02d-%02d", tt.input, got.Time, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestDateParser_MonthFirst(t *testing.T) {
	p := DateParser{DayFirst: false}

	got := p.Parse("01/15/2024")
	if !got.Valid {
		t.Fatal("Parse(01/15/2024) should be valid month-first")
	}
	if got.Time.Month() != time.January || got.Time.Day() != 15 {
		t.Errorf("Parse(01/15/2024) = %v, want 2024-01-15", got.Time)
	}
}

func TestDateParser_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20

	p := DateParser{DayFirst: true}

	got := p.Parse("15/01/24")
	if !got.Valid || got.Time.Year() != 2024 {
		t.Errorf("Parse(15/01/24) = %v, want year 2024", got.Time)
	}

	got = p.Parse("15/01/99")
	if !got.Valid || got.Time.Year() != 1999 {
		t.Errorf("Parse(15/01/99) = %v, want year 1999", got.Time)
	}

	TwoDigitYearPivot = -10
	got = p.Parse("15/01/24")
	if !got.Valid || got.Time.Year() != 1924 {
		t.Errorf("Parse(15/01/24) with negative pivot = %v, want year 1924", got.Time)
	}
}

// ----------------------------------------------------------------------------
// Text, UUID, header helpers
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	if got := ToPgText("  R1  "); !got.Valid || got.String != "R1" {
		t.Errorf("ToPgText(R1) = %+v", got)
	}
	if got := ToPgText("   "); got.Valid {
		t.Errorf("ToPgText(blank) should be invalid")
	}
}

func TestToPgUUID(t *testing.T) {
	id := uuid.New()
	got := ToPgUUID(id)
	if !got.Valid {
		t.Fatal("ToPgUUID should be valid")
	}
	if PgUUIDToString(got) != id.String() {
		t.Errorf("PgUUIDToString = %q, want %q", PgUUIDToString(got), id.String())
	}
	if ToPgUUID(uuid.Nil).Valid {
		t.Error("nil UUID should be invalid")
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{`="0001234"`, "0001234"},
		{"=SUM", "SUM"},
		{`"quoted"`, "quoted"},
		{"'apostrophe'", "apostrophe"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHeaderKey(t *testing.T) {
	composed := "Fecha de la resolución"
	decomposed := "Fecha de la resolucio\u0301n"

	if HeaderKey(composed) != HeaderKey(decomposed) {
		t.Errorf("HeaderKey should match composed and decomposed accents: %q vs %q",
			HeaderKey(composed), HeaderKey(decomposed))
	}
	if HeaderKey("  NUMERO   COMPARENDO ") != "numero comparendo" {
		t.Errorf("HeaderKey did not collapse spaces: %q", HeaderKey("  NUMERO   COMPARENDO "))
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"NUMERO_COMPARENDO", "Número Comparendo", "numero_comparendo"})

	if idx["numero_comparendo"] != 0 {
		t.Errorf("first occurrence should win, got %d", idx["numero_comparendo"])
	}
	if idx["número comparendo"] != 1 {
		t.Errorf("accented header index = %d, want 1", idx["número comparendo"])
	}
}
