package core

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "missing input file",
			err:      &LoadError{Table: "base", Path: "base.xlsx", Err: fmt.Errorf("open base.xlsx: %w", os.ErrNotExist)},
			wantCode: "LOAD001",
		},
		{
			name:     "missing input file from os",
			err:      &LoadError{Table: "base", Path: "base.xlsx", Err: errors.New("open base.xlsx: no such file or directory")},
			wantCode: "LOAD001",
		},
		{
			name:     "missing columns",
			err:      &LoadError{Table: "search", Path: "busqueda.xlsx", Missing: []string{"NUMERO_RESOLUCION"}},
			wantCode: "LOAD002",
		},
		{
			name:     "unsupported format",
			err:      &LoadError{Table: "base", Path: "base.ods", Err: ErrUnsupportedFormat},
			wantCode: "LOAD003",
		},
		{
			name:     "empty file",
			err:      &LoadError{Table: "base", Path: "base.csv", Err: ErrNoHeader},
			wantCode: "LOAD004",
		},
		{
			name:     "date parse",
			err:      DateParseError{Citation: "A1", Column: "Fecha", Value: "31/31/2024"},
			wantCode: "DATE001",
		},
		{
			name:     "write into missing directory is a write error",
			err:      &WriteError{Output: "final", Path: "out/final.xlsx", Err: errors.New("open out/.tmp-1: no such file or directory")},
			wantCode: "WRITE002",
		},
		{
			name:     "write permission denied",
			err:      &WriteError{Output: "final", Path: "final.xlsx", Err: errors.New("rename: permission denied")},
			wantCode: "WRITE001",
		},
		{
			name:     "stage wrapping preserved",
			err:      AtStage(StageLoad, &LoadError{Table: "base", Path: "b.csv", Missing: []string{"Número Comparendo"}}),
			wantCode: "LOAD002",
		},
		{
			name:     "history disabled",
			err:      errors.New("run history is disabled: set DATABASE_URL to enable it"),
			wantCode: "HIST001",
		},
		{
			name:     "upload over limit",
			err:      fmt.Errorf("parse upload: %w", errors.New("http: request body too large")),
			wantCode: "UPL001",
		},
		{
			name:     "unknown error",
			err:      errors.New("something unexpected"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q (err: %v)", got.Code, tt.wantCode, tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &LoadError{Table: "search", Path: "s.csv", Missing: []string{"NUMERO_COMPARENDO"}}
	got := FormatUserError(err)
	want := "Required columns are missing from the input file (Code: LOAD002). Compare the header row with the expected column layout"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrUnsupportedFormat) {
		t.Error("unsupported format should be user facing")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("generic error should not be user facing")
	}
}

func TestStageOf(t *testing.T) {
	err := fmt.Errorf("run: %w", AtStage(StageMatch, errors.New("boom")))
	if got := StageOf(err); got != StageMatch {
		t.Errorf("StageOf() = %q, want %q", got, StageMatch)
	}
	if AtStage(StageLoad, nil) != nil {
		t.Error("AtStage(nil) should be nil")
	}
	if StageOf(errors.New("plain")) != "" {
		t.Error("StageOf(plain) should be empty")
	}
}
