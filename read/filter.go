package read

import "github.com/hybridgenomics/varcall/region"

// FilterKind enumerates the read-filter kinds as a closed sum type
// combined by an explicit pipeline, with no dynamic dispatch.
type FilterKind int

const (
	FilterBaseQuality FilterKind = iota
	FilterMappingQuality
	FilterBoolean
	FilterShortRead
	FilterRange
)

// Filter is one pre-filter applied to reads before they reach the core
// calling pipeline: base-quality threshold, mapping-quality threshold, an
// arbitrary predicate (e.g. mate presence or duplicate flag), minimum read
// length, or containment in a reference range. Every filter keeps or drops
// a whole read; none trims a read.
type Filter struct {
	Kind FilterKind

	MinMappingQual int
	MinBaseQual    byte
	MinLength      int
	RangeStart     region.PosType
	RangeEnd       region.PosType
	Predicate      func(Read) bool
}

// Keep reports whether r passes this filter.
func (f Filter) Keep(r Read) bool {
	switch f.Kind {
	case FilterMappingQuality:
		return r.MappingQual >= f.MinMappingQual
	case FilterBaseQuality:
		for _, q := range r.Qualities {
			if q < f.MinBaseQual {
				return false
			}
		}
		return true
	case FilterShortRead:
		return len(r.Sequence) >= f.MinLength
	case FilterRange:
		return r.Start >= f.RangeStart && r.End() <= f.RangeEnd
	case FilterBoolean:
		return f.Predicate == nil || f.Predicate(r)
	default:
		return true
	}
}

// Pipeline is an ordered list of filters, all of which a read must pass.
type Pipeline []Filter

// Apply returns a new slice holding only the reads that pass every filter
// in the pipeline, in original order; the input slice is not modified.
func (p Pipeline) Apply(reads []Read) []Read {
	out := reads[:0:0]
	for _, r := range reads {
		keep := true
		for _, f := range p {
			if !f.Keep(r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
