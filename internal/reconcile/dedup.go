package reconcile

import (
	"sort"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

// DedupResult is the outcome of ResolveDuplicates.
type DedupResult struct {
	// Resolved is the base table with every duplicate group collapsed to its
	// representative. Rows keep base order.
	Resolved []core.Row

	// Duplicates lists every member of every duplicate group, sorted by
	// citation. Members of one group keep base order.
	Duplicates []core.Row

	// Groups is the number of citations with two or more base rows.
	Groups int

	// DateErrors holds one entry per unparseable ranking date seen while
	// choosing representatives.
	DateErrors []core.DateParseError
}

// ResolveDuplicates collapses base rows that share a citation present in
// keys. Rows whose citation is not in keys pass through untouched, even if
// they repeat.
//
// The representative of a group is the member with the latest parseable
// date in layout.DedupDate. Equal dates keep the earliest row; a group where
// no date parses keeps its first row. The representative takes the position
// of the group's first member.
func ResolveDuplicates(base []core.Row, keys map[string]struct{}, layout BaseLayout, parser core.DateParser) DedupResult {
	groups := make(map[string][]int)
	var order []string

	for i, row := range base {
		c := row.Cell(layout.Citation)
		if _, ok := keys[c]; !ok {
			continue
		}
		if _, seen := groups[c]; !seen {
			order = append(order, c)
		}
		groups[c] = append(groups[c], i)
	}

	var res DedupResult
	// representative row index per duplicate group, keyed by citation
	rep := make(map[string]int)

	for _, c := range order {
		members := groups[c]
		if len(members) < 2 {
			continue
		}
		res.Groups++

		best := members[0]
		var bestDate pgtype.Date
		for _, i := range members {
			raw := base[i].Cell(layout.DedupDate)
			d := parser.Parse(raw)
			if !d.Valid {
				res.DateErrors = append(res.DateErrors, core.DateParseError{
					Citation: c,
					Column:   layout.DedupDateColumn,
					Value:    raw,
				})
				continue
			}
			if !bestDate.Valid || d.Time.After(bestDate.Time) {
				best, bestDate = i, d
			}
		}
		rep[c] = best

		for _, i := range members {
			res.Duplicates = append(res.Duplicates, base[i].Clone())
		}
	}

	res.Resolved = make([]core.Row, 0, len(base))
	for i, row := range base {
		c := row.Cell(layout.Citation)
		best, ok := rep[c]
		if !ok {
			res.Resolved = append(res.Resolved, row.Clone())
			continue
		}
		if i == groups[c][0] {
			res.Resolved = append(res.Resolved, base[best].Clone())
		}
	}

	sort.SliceStable(res.Duplicates, func(a, b int) bool {
		return res.Duplicates[a].Cell(layout.Citation) < res.Duplicates[b].Cell(layout.Citation)
	})

	return res
}
