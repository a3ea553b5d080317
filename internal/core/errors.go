package core

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageConfig    Stage = "config"
	StageLoad      Stage = "load"
	StageDedup     Stage = "dedup"
	StageMatch     Stage = "match"
	StageTransform Stage = "transform"
	StageWrite     Stage = "write"
	StageRecord    Stage = "record"
)

// StageError tags an error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AtStage wraps err with a stage. Returns nil if err is nil.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded on err, or "" if none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// ErrUnsupportedFormat is returned for file extensions the loader can't read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNoHeader is returned when an input has no header row.
var ErrNoHeader = errors.New("empty file: no header row")

// LoadError reports a fatal failure reading an input table.
type LoadError struct {
	Table   string   // Table key: "base" or "search"
	Path    string   // Source path or upload name
	Missing []string // Required columns absent from the header
	Err     error
}

func (e *LoadError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("load %s table %s: missing required columns: %s",
			e.Table, e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("load %s table %s: %v", e.Table, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure persisting one output table.
// Outputs already written are not rolled back.
type WriteError struct {
	Output string // "final", "unmatched", "duplicates"
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s output %s: %v", e.Output, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DateParseError records a date cell that could not be parsed.
// It is never fatal: the value ranks last wherever dates are compared.
type DateParseError struct {
	Citation string
	Column   string
	Value    string
}

func (e DateParseError) Error() string {
	return fmt.Sprintf("unparseable date %q in %s for citation %s", e.Value, e.Column, e.Citation)
}
