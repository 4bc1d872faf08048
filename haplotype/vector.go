package haplotype

import (
	"sort"

	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
)

// Vector is an ordered, deduplicated collection of haplotypes sharing a
// region set.
type Vector struct {
	haps []Haplotype
	ids  []string
}

// Push appends h, with an optional caller-supplied id (used by the
// assembler and by phase alignment to recover which cross-product index a
// combined haplotype came from). Duplicate detection happens at Merge
// time, not here; push/sort/merge is a three-step protocol.
func (v *Vector) Push(h Haplotype, id string) {
	v.haps = append(v.haps, h)
	v.ids = append(v.ids, id)
}

// Len returns the number of haplotypes currently held (pre- or post-merge).
func (v *Vector) Len() int { return len(v.haps) }

// At returns the haplotype at index i.
func (v *Vector) At(i int) Haplotype { return v.haps[i] }

// ID returns the id associated with the haplotype at index i.
func (v *Vector) ID(i int) string { return v.ids[i] }

// Sort orders the held haplotypes by Haplotype.Less (the padded-sequence
// tuple); haplotypes that compare equal keep their insertion order.
func (v *Vector) Sort() {
	idx := make([]int, len(v.haps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return v.haps[idx[i]].Less(v.haps[idx[j]]) })
	newHaps := make([]Haplotype, len(v.haps))
	newIDs := make([]string, len(v.haps))
	for newPos, oldPos := range idx {
		newHaps[newPos] = v.haps[oldPos]
		newIDs[newPos] = v.ids[oldPos]
	}
	v.haps = newHaps
	v.ids = newIDs
}

// Merge combines equal-string haplotypes (per Haplotype.Equal), preserving
// the id of the first occurrence. The vector must already be sorted; Merge
// re-sorts defensively if it is not.
func (v *Vector) Merge() {
	v.Sort()
	if len(v.haps) == 0 {
		return
	}
	out := v.haps[:1]
	ids := v.ids[:1]
	for i := 1; i < len(v.haps); i++ {
		if v.haps[i].Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, v.haps[i])
		ids = append(ids, v.ids[i])
	}
	v.haps = out
	v.ids = ids
}

// IndicesContainingVariant returns the indices of haplotypes that apply var.
func (v *Vector) IndicesContainingVariant(vr variant.Variant) []int {
	var out []int
	for i, h := range v.haps {
		if h.ContainsVariant(vr) {
			out = append(out, i)
		}
	}
	return out
}

// IndicesThatAreReferenceAt returns the indices of haplotypes that are
// reference (carry no variant) over r.
func (v *Vector) IndicesThatAreReferenceAt(r region.Region) []int {
	var out []int
	for i, h := range v.haps {
		if h.IsReferenceAt(r) {
			out = append(out, i)
		}
	}
	return out
}

// AllDistinct reports whether no two haplotypes in the vector compare
// equal -- the enumerator (C6) refuses to run on an un-merged vector for
// which this returns false (i.e. it requires true).
func (v *Vector) AllDistinct() bool {
	for i := 0; i < len(v.haps); i++ {
		for j := i + 1; j < len(v.haps); j++ {
			if v.haps[i].Equal(v.haps[j]) {
				return false
			}
		}
	}
	return true
}
