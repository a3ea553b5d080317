package reconcile

import "github.com/JonMunkholm/resolutions/internal/core"

// MatchedPair joins one search row to one resolved base row.
type MatchedPair struct {
	Search core.Row
	Base   core.Row
}

// MatchResult is the outcome of Match.
type MatchResult struct {
	Pairs     []MatchedPair
	Unmatched []core.Row
}

// SearchKeys returns the set of non-blank citations in search.
func SearchKeys(search []core.Row, layout SearchLayout) map[string]struct{} {
	keys := make(map[string]struct{}, len(search))
	for _, row := range search {
		if c := row.Cell(layout.Citation); c != "" {
			keys[c] = struct{}{}
		}
	}
	return keys
}

// Match left-joins search onto resolved on citation, in search order. A
// search row fans out once per resolved row carrying its citation.
//
// A search row is unmatched when its citation is absent from original, the
// base table before duplicate resolution. Blank citations never match.
func Match(search, resolved, original []core.Row, sl SearchLayout, bl BaseLayout) MatchResult {
	index := make(map[string][]int, len(resolved))
	for i, row := range resolved {
		c := row.Cell(bl.Citation)
		index[c] = append(index[c], i)
	}

	present := make(map[string]struct{}, len(original))
	for _, row := range original {
		present[row.Cell(bl.Citation)] = struct{}{}
	}

	var res MatchResult
	for _, s := range search {
		c := s.Cell(sl.Citation)
		if c == "" {
			res.Unmatched = append(res.Unmatched, s.Clone())
			continue
		}
		if _, ok := present[c]; !ok {
			res.Unmatched = append(res.Unmatched, s.Clone())
			continue
		}
		for _, i := range index[c] {
			res.Pairs = append(res.Pairs, MatchedPair{Search: s, Base: resolved[i]})
		}
	}
	return res
}
