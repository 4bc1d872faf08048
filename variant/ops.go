package variant

import (
	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
)

// Trimmed strips matching reference/alt prefixes and suffixes in tandem,
// shrinking the region inward. It may return an empty variant (both sides
// length 0); callers must check Empty() and drop it.
func (v Variant) Trimmed() (Variant, error) {
	ref, err := v.Ref()
	if err != nil {
		return Variant{}, err
	}
	alt := v.alt
	start, end := v.r.Start, v.r.End
	refLo, refHi := 0, len(ref)
	altLo, altHi := 0, len(alt)

	for refLo < refHi && altLo < altHi && ref[refLo] == alt[altLo] {
		refLo++
		altLo++
	}
	for refLo < refHi && altLo < altHi && ref[refHi-1] == alt[altHi-1] {
		refHi--
		altHi--
	}
	newRegion := region.New(v.r.Contig, start+region.PosType(refLo), start+region.PosType(refHi))
	_ = end
	trimmed := v
	trimmed.r = newRegion
	trimmed.alt = append(refwindow.Sequence(nil), alt[altLo:altHi]...)
	trimmed.fullyLeftAligned = false
	return trimmed, nil
}

// Empty reports whether both the region and the alt allele are zero length.
func (v Variant) Empty() bool { return v.r.Len() == 0 && len(v.alt) == 0 }

// Split decomposes an MNP of length n into n SNPs at positions
// start..start+n.
func (v Variant) Split() ([]Variant, error) {
	if !v.IsMNP() {
		return []Variant{v}, nil
	}
	out := make([]Variant, 0, v.refLen())
	for i := 0; i < v.refLen(); i++ {
		r := region.New(v.r.Contig, v.r.Start+region.PosType(i), v.r.Start+region.PosType(i)+1)
		sub, err := New(v.window, r, v.alt[i:i+1], false)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// ErrNotJoinable is returned by Join when the two variants do not abut in
// reference space.
var ErrNotJoinable = errors.E(errors.Invalid, "variant: not joinable")

// Join concatenates self and other into a single variant spanning both
// regions. It fails with ErrNotJoinable unless self.region.end ==
// other.region.start.
func (v Variant) Join(other Variant) (Variant, error) {
	if !v.r.Abuts(other.r) {
		return Variant{}, ErrNotJoinable
	}
	combined := region.New(v.r.Contig, v.r.Start, other.r.End)
	alt := append(append(refwindow.Sequence(nil), v.alt...), other.alt...)
	joined, err := New(v.window, combined, alt, false)
	if err != nil {
		return Variant{}, err
	}
	return joined.Trimmed()
}

// Removable reports whether other is a contiguous sub-interval of v with a
// matching alt sub-string at the aligned alt offset.
func (v Variant) Removable(other Variant) bool {
	if other.r.Contig != v.r.Contig || other.r.Start < v.r.Start || other.r.End > v.r.End {
		return false
	}
	// Only defined when v and other change length by the same amount per
	// reference base (i.e. this is a pure substitution region), matching the
	// original's usage restricted to SNP/MNP decomposition.
	if v.refLen() != v.altLen() || other.refLen() != other.altLen() {
		return false
	}
	offset := int(other.r.Start - v.r.Start)
	if offset < 0 || offset+other.altLen() > v.altLen() {
		return false
	}
	return string(v.alt[offset:offset+other.altLen()]) == string(other.alt)
}

// Remove subtracts other's contribution from v. The caller must have
// checked Removable(other) first.
func (v Variant) Remove(other Variant) (Variant, error) {
	if !v.Removable(other) {
		return Variant{}, errors.E(errors.Precondition, "variant: Remove called on a non-removable pair")
	}
	var out []Variant
	if other.r.Start > v.r.Start {
		lead := region.New(v.r.Contig, v.r.Start, other.r.Start)
		offset := int(other.r.Start - v.r.Start)
		sub, err := New(v.window, lead, v.alt[:offset], false)
		if err != nil {
			return Variant{}, err
		}
		out = append(out, sub)
	}
	if other.r.End < v.r.End {
		tail := region.New(v.r.Contig, other.r.End, v.r.End)
		offset := int(other.r.End - v.r.Start)
		sub, err := New(v.window, tail, v.alt[offset:], false)
		if err != nil {
			return Variant{}, err
		}
		out = append(out, sub)
	}
	if len(out) == 0 {
		return New(v.window, region.New(v.r.Contig, v.r.Start, v.r.Start), nil, true)
	}
	result := out[0]
	for _, next := range out[1:] {
		joined, err := result.Join(next)
		if err != nil {
			return Variant{}, err
		}
		result = joined
	}
	return result, nil
}

// GetStartEndRegions returns the set of regions
// [leftAlignedStart, originalStart) U [originalEnd, rightAlignedEnd), both
// clipped to [minPos, maxPos). This is the window of reference positions
// that may inform the variant's support in read-support accounting (C7).
func (v Variant) GetStartEndRegions(minPos, maxPos region.PosType) (region.Set, error) {
	leftRegion, err := v.LeftAlignedRegion(minPos)
	if err != nil {
		return region.Set{}, err
	}
	rightRegion, err := v.RightAlignedRegion(maxPos)
	if err != nil {
		return region.Set{}, err
	}
	var out region.Set
	if leftRegion.Start < v.r.Start {
		out.Add(region.New(v.r.Contig, clampPos(leftRegion.Start, minPos, maxPos), v.r.Start))
	}
	if rightRegion.End > v.r.End {
		out.Add(region.New(v.r.Contig, v.r.End, clampPos(rightRegion.End, minPos, maxPos)))
	}
	return out, nil
}

func clampPos(p, lo, hi region.PosType) region.PosType {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
