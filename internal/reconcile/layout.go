package reconcile

import (
	"fmt"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/core/tables"
)

// BaseLayout holds the positions of the base columns the pipeline reads or
// rewrites. Every other column is passed through untouched.
type BaseLayout struct {
	Citation   int
	Resolution int
	Prior      int
	Date       int
	TypeCode   int

	// DedupDate is the column ranked when collapsing duplicates.
	DedupDate       int
	DedupDateColumn string
}

// SearchLayout holds the positions of the search columns.
type SearchLayout struct {
	Citation         int
	TargetResolution int
	TargetDate       int
}

// NewBaseLayout resolves the base columns in t. dedupDateColumn selects the
// date used to rank duplicates; empty means the resolution date.
func NewBaseLayout(t *core.Table, dedupDateColumn string) (BaseLayout, error) {
	if dedupDateColumn == "" {
		dedupDateColumn = tables.ColResolutionDate
	}

	l := BaseLayout{DedupDateColumn: dedupDateColumn}
	fields := []struct {
		name string
		dst  *int
	}{
		{tables.ColCitationNumber, &l.Citation},
		{tables.ColResolutionNumber, &l.Resolution},
		{tables.ColPriorResolution, &l.Prior},
		{tables.ColResolutionDate, &l.Date},
		{tables.ColResolutionTypeCode, &l.TypeCode},
		{dedupDateColumn, &l.DedupDate},
	}
	for _, f := range fields {
		*f.dst = t.Index(f.name)
		if *f.dst < 0 {
			return BaseLayout{}, fmt.Errorf("base table has no column %q", f.name)
		}
	}
	return l, nil
}

// NewSearchLayout resolves the search columns in t.
func NewSearchLayout(t *core.Table) (SearchLayout, error) {
	var l SearchLayout
	fields := []struct {
		name string
		dst  *int
	}{
		{tables.ColSearchCitation, &l.Citation},
		{tables.ColTargetResolution, &l.TargetResolution},
		{tables.ColTargetDate, &l.TargetDate},
	}
	for _, f := range fields {
		*f.dst = t.Index(f.name)
		if *f.dst < 0 {
			return SearchLayout{}, fmt.Errorf("search table has no column %q", f.name)
		}
	}
	return l, nil
}
