// Package variant implements the normalized mutation representation:
// construction, left/right alignment, trimming, splitting MNPs into
// SNPs, joining abutting variants, and the start/end-region computation
// used by the read-support accountant.
package variant

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
)

// Default per-class priors.
const (
	defaultSNPPrior   = 3.33e-4
	mnpPriorBase      = 5e-5
	mnpPriorDecay     = 0.1
	mnpPriorScale     = 0.9
	indelPriorBase    = 1e-4
	indelPriorDecay   = 0.8
	minVariantPrior   = 1e-10
)

// Variant is an immutable (reference-window-ref, region, alt) triple.
// Equality is (contig, region, alt); ordering is lexicographic over
// (contig, region.start, region.end, alt).
type Variant struct {
	window *refwindow.Window
	r      region.Region
	alt    refwindow.Sequence

	fullyLeftAligned bool
	prior            float64
	neverFilter      bool
	genotyping       bool
	fromBreakpoint   bool
}

// New builds a Variant. It is rejected if both the region and the alt
// sequence are empty. isFullyLeftAligned records a caller assertion; it
// is never re-derived.
func New(window *refwindow.Window, r region.Region, alt refwindow.Sequence, isFullyLeftAligned bool) (Variant, error) {
	if r.Len() == 0 && len(alt) == 0 {
		return Variant{}, errors.E(errors.Invalid, "variant: empty variant (zero-length region and alt)")
	}
	if !window.Contains(r) {
		return Variant{}, errors.E(errors.Invalid, fmt.Sprintf("variant: region %v not contained in reference window %v", r, window.Region()))
	}
	return Variant{
		window:           window,
		r:                r,
		alt:              append(refwindow.Sequence(nil), alt...),
		fullyLeftAligned: isFullyLeftAligned,
		prior:            0,
	}, nil
}

// Region returns the reference-side interval replaced by Alt.
func (v Variant) Region() region.Region { return v.r }

// Contig is a convenience accessor for Region().Contig.
func (v Variant) Contig() string { return v.r.Contig }

// Alt returns the alt allele sequence.
func (v Variant) Alt() refwindow.Sequence { return v.alt }

// Ref returns the reference sub-sequence spanned by Region(); it is derived
// from the reference window rather than stored.
func (v Variant) Ref() (refwindow.Sequence, error) { return v.window.Subsequence(v.r) }

// Window returns the reference window this variant was built against.
func (v Variant) Window() *refwindow.Window { return v.window }

// refLen/altLen are the §3 classification building blocks.
func (v Variant) refLen() int { return int(v.r.Len()) }
func (v Variant) altLen() int { return len(v.alt) }

// IsSNP reports |R|=|A|=1.
func (v Variant) IsSNP() bool { return v.refLen() == 1 && v.altLen() == 1 }

// IsMNP reports |R|=|A|>1.
func (v Variant) IsMNP() bool { return v.refLen() == v.altLen() && v.refLen() > 1 }

// IsInsertion reports |R|<|A|.
func (v Variant) IsInsertion() bool { return v.refLen() < v.altLen() }

// IsDeletion reports |R|>|A|.
func (v Variant) IsDeletion() bool { return v.refLen() > v.altLen() }

// IsPureIndel reports that one side is length 0.
func (v Variant) IsPureIndel() bool { return v.refLen() == 0 || v.altLen() == 0 }

// IsIndel reports a reference-length-changing variant.
func (v Variant) IsIndel() bool { return v.refLen() != v.altLen() }

// IsLarge reports whether the reference span meets or exceeds threshold
// (the configured largeVariantSizeDefinition).
func (v Variant) IsLarge(threshold int) bool { return v.refLen() >= threshold }

// ZeroIndexedVCFPosition is R.start for substitutions, R.start-1 for pure
// indels (the anchoring base sits one before).
func (v Variant) ZeroIndexedVCFPosition() region.PosType {
	if v.IsPureIndel() {
		return v.r.Start - 1
	}
	return v.r.Start
}

// Overlaps reports whether v's region intersects r.
func (v Variant) Overlaps(r region.Region) bool { return v.r.Overlaps(r) }

// IsFullyLeftAligned returns the caller-asserted left-alignment flag.
func (v Variant) IsFullyLeftAligned() bool { return v.fullyLeftAligned }

// NeverFilter/DisableFiltering and the genotyping/from-breakpoint flags are
// carried from original_source's variant/type/variant.hpp; they let the
// cluster driver (C9) bypass soft-filtering and recognize genotyping-mode
// and breakpoint-assembly provenance without extra bookkeeping structures.
func (v Variant) NeverFilter() bool { return v.neverFilter }

func (v *Variant) DisableFiltering() { v.neverFilter = true }

func (v Variant) IsGenotypingVariant() bool { return v.genotyping }

func (v *Variant) SetGenotypingVariant() { v.genotyping = true }

func (v Variant) IsFromBreakpoint() bool { return v.fromBreakpoint }

func (v *Variant) SetFromBreakpoint() { v.fromBreakpoint = true }

// Prior returns the assigned prior (0 until SetPrior/AssignDefaultPrior is
// called).
func (v Variant) Prior() float64 { return v.prior }

// SetPrior assigns a caller-supplied prior, clipped below at
// minVariantPrior. It is idempotent: repeated calls simply overwrite.
func (v *Variant) SetPrior(p float64) {
	if p < minVariantPrior {
		p = minVariantPrior
	}
	v.prior = p
}

// AssignDefaultPrior fills in Prior() from the per-class default, unless
// a prior has already been set (prior() != 0). It is idempotent across
// repeat calls.
func (v *Variant) AssignDefaultPrior() {
	if v.prior != 0 {
		return
	}
	v.SetPrior(v.defaultPrior())
}

func (v Variant) defaultPrior() float64 {
	switch {
	case v.IsSNP():
		return defaultSNPPrior
	case v.IsMNP():
		n := v.refLen()
		return mnpPriorBase * pow(mnpPriorDecay, float64(n-1)) * mnpPriorScale
	case v.IsDeletion():
		return indelPriorBase * pow(indelPriorDecay, float64(v.refLen()))
	case v.IsInsertion():
		return indelPriorBase * pow(indelPriorDecay, float64(v.altLen()))
	default:
		return minVariantPrior
	}
}

// Equal implements (contig, region, alt) equality.
func (v Variant) Equal(other Variant) bool {
	return v.r == other.r && string(v.alt) == string(other.alt)
}

// Less implements lexicographic ordering over
// (contig, region.start, region.end, alt).
func (v Variant) Less(other Variant) bool {
	if v.r.Contig != other.r.Contig {
		return v.r.Contig < other.r.Contig
	}
	if v.r.Start != other.r.Start {
		return v.r.Start < other.r.Start
	}
	if v.r.End != other.r.End {
		return v.r.End < other.r.End
	}
	return string(v.alt) < string(other.alt)
}

func (v Variant) String() string {
	ref, _ := v.Ref()
	return fmt.Sprintf("%s %q->%q", v.r, string(ref), string(v.alt))
}

func pow(base, exp float64) float64 {
	if exp <= 0 {
		return 1
	}
	result := 1.0
	// exp is always a small non-negative integer-valued float here (mnp
	// substitution counts, indel lengths), so a simple multiply loop avoids
	// pulling in math.Pow's general floating-point machinery.
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}
