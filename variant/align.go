package variant

import (
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
)

// LeftAlignedRegion returns the region v's indel would occupy if shifted as
// far left as possible, subject to (i) the reference window covering the
// shifted region, (ii) the optional minPos floor, and (iii) preservation of
// the realized haplotype string. For repeats, the shift shortens R and A by
// equal repeat-unit prefixes; here that reduces to repeatedly rotating the
// inserted/deleted unit one base left while the base being uncovered on the
// left matches the base rotating off the right.
//
// Substitutions (SNP/MNP) are already maximally "aligned" -- there is no
// ambiguity to remove -- so they are returned unchanged.
func (v Variant) LeftAlignedRegion(minPos region.PosType) (region.Region, error) {
	if !v.IsPureIndel() {
		return v.r, nil
	}
	floor := v.window.Start
	if minPos > floor {
		floor = minPos
	}
	start, end := v.r.Start, v.r.End
	unit := v.indelUnit()
	if len(unit) == 0 {
		return v.r, nil
	}
	for start > floor {
		leftBase, err := v.window.Base(start - 1)
		if err != nil {
			return region.Region{}, err
		}
		if leftBase != unit[len(unit)-1] {
			break
		}
		start--
		end--
		unit = rotateRight(unit)
	}
	return region.New(v.r.Contig, start, end), nil
}

// RightAlignedRegion is the mirror of LeftAlignedRegion.
func (v Variant) RightAlignedRegion(maxPos region.PosType) (region.Region, error) {
	if !v.IsPureIndel() {
		return v.r, nil
	}
	ceil := v.window.End()
	if maxPos > 0 && maxPos < ceil {
		ceil = maxPos
	}
	start, end := v.r.Start, v.r.End
	unit := v.indelUnit()
	if len(unit) == 0 {
		return v.r, nil
	}
	for end < ceil {
		rightBase, err := v.window.Base(end)
		if err != nil {
			return region.Region{}, err
		}
		if rightBase != unit[0] {
			break
		}
		start++
		end++
		unit = rotateLeft(unit)
	}
	return region.New(v.r.Contig, start, end), nil
}

// GetLeftAligned returns v shifted to its left-aligned region.
func (v Variant) GetLeftAligned(minPos region.PosType) (Variant, error) {
	r, err := v.LeftAlignedRegion(minPos)
	if err != nil {
		return Variant{}, err
	}
	return v.realignedTo(r, true)
}

// GetRightAligned returns v shifted to its right-aligned region.
func (v Variant) GetRightAligned(maxPos region.PosType) (Variant, error) {
	r, err := v.RightAlignedRegion(maxPos)
	if err != nil {
		return Variant{}, err
	}
	return v.realignedTo(r, false)
}

// realignedTo rebuilds v with region r, recomputing Alt from the indel unit
// so that the realized (ref-with-variant-applied) haplotype string over the
// union of the old and new regions is unchanged.
func (v Variant) realignedTo(r region.Region, isLeftAligned bool) (Variant, error) {
	if r == v.r {
		out := v
		out.fullyLeftAligned = isLeftAligned
		return out, nil
	}
	unit := v.indelUnit()
	var newAlt refwindow.Sequence
	if v.IsInsertion() {
		newAlt = rotateUnitFor(unit, v.altLen(), v.r, r)
	} else {
		newAlt = refwindow.Sequence{}
	}
	out, err := New(v.window, r, newAlt, isLeftAligned)
	if err != nil {
		return Variant{}, err
	}
	return out, nil
}

// indelUnit returns the non-empty side of a pure indel (the inserted or
// deleted bases), which is the repeat unit rotated during alignment.
func (v Variant) indelUnit() refwindow.Sequence {
	if v.altLen() > 0 {
		return v.alt
	}
	ref, err := v.Ref()
	if err != nil {
		return nil
	}
	return ref
}

func rotateLeft(s refwindow.Sequence) refwindow.Sequence {
	if len(s) == 0 {
		return s
	}
	out := make(refwindow.Sequence, len(s))
	copy(out, s[1:])
	out[len(s)-1] = s[0]
	return out
}

func rotateRight(s refwindow.Sequence) refwindow.Sequence {
	if len(s) == 0 {
		return s
	}
	out := make(refwindow.Sequence, len(s))
	out[0] = s[len(s)-1]
	copy(out[1:], s[:len(s)-1])
	return out
}

// rotateUnitFor recomputes the insertion's alt sequence after the region has
// shifted by delta bases, by rotating the unit delta times in the direction
// of the shift: right once per base for a leftward shift, left once per
// base for a rightward one. realignedTo calls it only when the region has
// moved, so delta is nonzero.
func rotateUnitFor(unit refwindow.Sequence, length int, oldR, newR region.Region) refwindow.Sequence {
	shift := int(oldR.Start - newR.Start)
	rotated := append(refwindow.Sequence(nil), unit...)
	if shift > 0 {
		for i := 0; i < shift; i++ {
			rotated = rotateRight(rotated)
		}
	} else {
		for i := 0; i < -shift; i++ {
			rotated = rotateLeft(rotated)
		}
	}
	return rotated[:length]
}
