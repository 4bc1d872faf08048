// Package region implements the half-open genomic interval types used
// throughout the caller: a single (contig, start, end) Region, and an
// ordered, non-overlapping Set of regions on possibly many contigs.
//
// Coordinates reuse interval.PosType (int32, BAM-sized) rather than a
// bespoke type, so that region code composes directly with that
// package's endpoint-scanning helpers.
package region

import (
	"fmt"
	"sort"

	"github.com/hybridgenomics/varcall/interval"
)

// PosType is the genomic coordinate type, zero-based.
type PosType = interval.PosType

// Region is a half-open interval [Start, End) on a single contig.
type Region struct {
	Contig string
	Start  PosType
	End    PosType
}

// New returns the region [start, end) on contig.
func New(contig string, start, end PosType) Region {
	return Region{Contig: contig, Start: start, End: end}
}

// Len returns End-Start; 0 for a pure-insertion anchor region.
func (r Region) Len() PosType { return r.End - r.Start }

// Empty reports whether the region spans no reference bases.
func (r Region) Empty() bool { return r.Start >= r.End }

// Overlaps reports whether r and other intersect on the same contig.
func (r Region) Overlaps(other Region) bool {
	return r.Contig == other.Contig && r.Start < other.End && other.Start < r.End
}

// Contains reports whether pos lies within r.
func (r Region) Contains(contig string, pos PosType) bool {
	return r.Contig == contig && pos >= r.Start && pos < r.End
}

// Abuts reports whether r ends exactly where other begins (reference-space
// adjacency, used by variant.Join).
func (r Region) Abuts(other Region) bool {
	return r.Contig == other.Contig && r.End == other.Start
}

// Union returns the smallest region covering both r and other. Both must be
// on the same contig.
func (r Region) Union(other Region) Region {
	start, end := r.Start, r.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Region{Contig: r.Contig, Start: start, End: end}
}

// Intersect returns the overlap of r and other. The result is Empty if they
// don't overlap.
func (r Region) Intersect(other Region) Region {
	if r.Contig != other.Contig {
		return Region{Contig: r.Contig}
	}
	start, end := r.Start, r.End
	if other.Start > start {
		start = other.Start
	}
	if other.End < end {
		end = other.End
	}
	if end < start {
		end = start
	}
	return Region{Contig: r.Contig, Start: start, End: end}
}

// Pad returns r extended by left bases to the left and right bases to the
// right, clipped to floor/ceil (typically the enclosing reference window).
func (r Region) Pad(left, right PosType, floor, ceil PosType) Region {
	start := r.Start - left
	if start < floor {
		start = floor
	}
	end := r.End + right
	if end > ceil {
		end = ceil
	}
	return Region{Contig: r.Contig, Start: start, End: end}
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
}

// Less implements the region ordering lexicographic over (contig, start,
// end), matching variant ordering.
func (r Region) Less(other Region) bool {
	if r.Contig != other.Contig {
		return r.Contig < other.Contig
	}
	if r.Start != other.Start {
		return r.Start < other.Start
	}
	return r.End < other.End
}

// Set is an ordered, non-overlapping union of regions. The zero value is an
// empty set. Construction invariant: Regions() is always sorted and disjoint
// -- any newly merged-in region that overlaps an existing member is merged
// rather than appended.
type Set struct {
	regions []Region
}

// NewSet builds a Set from an arbitrary list of (possibly overlapping,
// unsorted) regions.
func NewSet(regions ...Region) Set {
	var s Set
	for _, r := range regions {
		s.Add(r)
	}
	return s
}

// Add merges r into the set, coalescing with any overlapping or abutting
// member on the same contig.
func (s *Set) Add(r Region) {
	if r.Empty() && r.Start != r.End {
		// zero-length "anchor" regions (pure indels) are still kept: Empty()
		// only excludes genuinely malformed (start>end) inputs below.
	}
	if r.Start > r.End {
		return
	}
	merged := r
	out := s.regions[:0:0]
	inserted := false
	for _, existing := range s.regions {
		if existing.Contig != merged.Contig || existing.End < merged.Start || merged.End < existing.Start {
			if !inserted && existing.Contig == merged.Contig && existing.Start > merged.Start {
				out = append(out, merged)
				inserted = true
			}
			out = append(out, existing)
			continue
		}
		// Overlapping or abutting (<=, not <, so [a,b) and [b,c) coalesce).
		merged = merged.Union(existing)
	}
	if !inserted {
		out = append(out, merged)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	s.regions = out
}

// Regions returns the ordered, disjoint list of member regions. The caller
// must not mutate the returned slice.
func (s Set) Regions() []Region { return s.regions }

// Span returns the smallest region covering every member of a single-contig
// set. It returns the zero Region if the set is empty and panics if the set
// spans more than one contig.
func (s Set) Span() Region {
	if len(s.regions) == 0 {
		return Region{}
	}
	span := s.regions[0]
	for _, r := range s.regions[1:] {
		if r.Contig != span.Contig {
			panic("region: Span called on a multi-contig Set")
		}
		span = span.Union(r)
	}
	return span
}

// Overlaps reports whether any member region overlaps r.
func (s Set) Overlaps(r Region) bool {
	for _, member := range s.regions {
		if member.Overlaps(r) {
			return true
		}
	}
	return false
}

// Len returns the number of disjoint member regions.
func (s Set) Len() int { return len(s.regions) }
