package reconcile

import "github.com/JonMunkholm/resolutions/internal/core"

// Kind tags an output record.
type Kind string

const (
	KindOriginal    Kind = "original"
	KindSuperseding Kind = "superseding"
)

// TypeCodes are the resolution type codes written to the two records of a
// pair.
type TypeCodes struct {
	Original    string
	Superseding string
}

// DefaultTypeCodes are the registry codes for an original resolution and the
// resolution that supersedes it.
var DefaultTypeCodes = TypeCodes{Original: "1", Superseding: "16"}

// OutputRecord is one row of the final table.
type OutputRecord struct {
	Kind     Kind
	Citation string
	Row      core.Row
}

// Transform maps each pair to its original and superseding records. Record
// 2i is the original of pairs[i] and record 2i+1 its superseding record.
//
// The original is a copy of the base row with the original type code. The
// superseding record moves the base resolution number into the prior
// column and takes the target number and date from the search row.
func Transform(pairs []MatchedPair, sl SearchLayout, bl BaseLayout, codes TypeCodes) []OutputRecord {
	out := make([]OutputRecord, 0, 2*len(pairs))
	for _, p := range pairs {
		citation := p.Base.Cell(bl.Citation)

		orig := p.Base.Clone()
		orig[bl.TypeCode] = codes.Original

		sup := p.Base.Clone()
		sup[bl.Prior] = p.Base.Cell(bl.Resolution)
		sup[bl.Resolution] = p.Search.Cell(sl.TargetResolution)
		sup[bl.Date] = p.Search.Cell(sl.TargetDate)
		sup[bl.TypeCode] = codes.Superseding

		out = append(out,
			OutputRecord{Kind: KindOriginal, Citation: citation, Row: orig},
			OutputRecord{Kind: KindSuperseding, Citation: citation, Row: sup},
		)
	}
	return out
}

// Rows strips the kind tags.
func Rows(records []OutputRecord) []core.Row {
	rows := make([]core.Row, len(records))
	for i, r := range records {
		rows[i] = r.Row
	}
	return rows
}
