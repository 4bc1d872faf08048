// Package haplotype implements the haplotype model: a set of
// non-overlapping variants applied to a reference window, validity
// checks, and per-region padded sequences.
package haplotype

import (
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
)

// DefaultPadding is the number of reference bases appended/prepended to each
// region's haplotype sequence before alignment (C4 reads against the padded
// sequence, not the bare haplotype, so that reads can map even when they
// only partially overlap a variant's region).
const DefaultPadding = region.PosType(100)

// Haplotype is a set of non-overlapping variants applied to a reference
// window, restricted to (and padded over) a set of regions.
type Haplotype struct {
	window   *refwindow.Window
	regions  region.Set
	variants []variant.Variant
	padLeft  region.PosType
	padRight region.PosType

	// padded[i] is the padded sequence for regions.Regions()[i].
	padded []refwindow.Sequence
}

// New builds a Haplotype from a set of (non-overlapping) variants applied
// over regions, padded by padLeft/padRight bases (clipped to window).
//
// Construction fails with InvalidCombination if (a) any two variants
// overlap, or (b) two variants with different regions yield the same
// haplotype string over their combined interval -- an ambiguous
// representation of the same edit that would otherwise double-count in
// downstream accounting.
func New(window *refwindow.Window, regions region.Set, variants []variant.Variant, padLeft, padRight region.PosType) (Haplotype, error) {
	sorted := append([]variant.Variant(nil), variants...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Region().Overlaps(sorted[i].Region()) {
			return Haplotype{}, errors.E(errors.Invalid, "haplotype: overlapping variants in combination")
		}
	}
	if err := checkNoAmbiguousIndels(window, sorted); err != nil {
		return Haplotype{}, err
	}

	h := Haplotype{
		window:   window,
		regions:  mergeAdjacentForVariants(regions, sorted),
		variants: sorted,
		padLeft:  padLeft,
		padRight: padRight,
	}
	padded, err := h.buildPaddedSequences()
	if err != nil {
		return Haplotype{}, err
	}
	h.padded = padded
	return h, nil
}

// checkNoAmbiguousIndels rejects pairs of indels whose regions differ but
// which realize the same haplotype string over their combined window --
// e.g. two alignments of the same repeat-unit insertion.
func checkNoAmbiguousIndels(window *refwindow.Window, sorted []variant.Variant) error {
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if !a.IsIndel() || !b.IsIndel() {
				continue
			}
			if a.Region() == b.Region() {
				continue
			}
			combined := a.Region().Union(b.Region())
			seqA, errA := haplotypeString(window, combined, []variant.Variant{a})
			seqB, errB := haplotypeString(window, combined, []variant.Variant{b})
			if errA != nil || errB != nil {
				continue
			}
			if string(seqA) == string(seqB) {
				return errors.E(errors.Invalid, "haplotype: ambiguous indel representation")
			}
		}
	}
	return nil
}

// mergeAdjacentForVariants adds every variant's region to `regions`: two
// regions that a variant spans across are merged, so padding is computed
// once over the merged span, and a variant outside every region adds its
// own region to the set.
func mergeAdjacentForVariants(regions region.Set, variants []variant.Variant) region.Set {
	var merged region.Set
	for _, r := range regions.Regions() {
		merged.Add(r)
	}
	for _, v := range variants {
		merged.Add(v.Region())
	}
	return merged
}

// haplotypeString builds the haplotype's sequence over region r by walking it
// left-to-right: emitting each variant's alt allele on first encounter of
// its reference interval (skipping to its end), reference bases otherwise.
func haplotypeString(window *refwindow.Window, r region.Region, variants []variant.Variant) (refwindow.Sequence, error) {
	var out refwindow.Sequence
	pos := r.Start
	vi := 0
	for pos < r.End {
		for vi < len(variants) && variants[vi].Region().End <= pos {
			vi++
		}
		if vi < len(variants) && variants[vi].Region().Start == pos {
			out = append(out, variants[vi].Alt()...)
			pos = variants[vi].Region().End
			if variants[vi].Region().Len() == 0 {
				// Pure insertion: emitted before leaving this position, then
				// continue walking the reference from the same position.
				pos = variants[vi].Region().Start
				vi++
				ref, err := window.Base(pos)
				if err != nil {
					return nil, err
				}
				out = append(out, ref)
				pos++
				continue
			}
			vi++
			continue
		}
		base, err := window.Base(pos)
		if err != nil {
			return nil, err
		}
		out = append(out, base)
		pos++
	}
	return out, nil
}

// buildPaddedSequences computes one padded sequence per merged region.
func (h Haplotype) buildPaddedSequences() ([]refwindow.Sequence, error) {
	out := make([]refwindow.Sequence, 0, h.regions.Len())
	for _, r := range h.regions.Regions() {
		padded := r.Pad(h.padLeft, h.padRight, h.window.Start, h.window.End())
		leftPad, err := h.window.Subsequence(region.New(r.Contig, padded.Start, r.Start))
		if err != nil {
			return nil, err
		}
		body, err := haplotypeString(h.window, r, h.variantsIn(r))
		if err != nil {
			return nil, err
		}
		rightPad, err := h.window.Subsequence(region.New(r.Contig, r.End, padded.End))
		if err != nil {
			return nil, err
		}
		seq := append(append(append(refwindow.Sequence(nil), leftPad...), body...), rightPad...)
		out = append(out, seq)
	}
	return out, nil
}

func (h Haplotype) variantsIn(r region.Region) []variant.Variant {
	var out []variant.Variant
	for _, v := range h.variants {
		if v.Overlaps(r) {
			out = append(out, v)
		}
	}
	return out
}

// Regions returns the (merged) region set this haplotype is defined over.
func (h Haplotype) Regions() region.Set { return h.regions }

// Variants returns the variants applied by this haplotype, sorted.
func (h Haplotype) Variants() []variant.Variant { return h.variants }

// PaddedSequences returns one padded sequence per region in Regions().
func (h Haplotype) PaddedSequences() []refwindow.Sequence { return h.padded }

// ContainsVariant reports whether v (by contig/region/alt equality) is
// applied by this haplotype.
func (h Haplotype) ContainsVariant(v variant.Variant) bool {
	for _, hv := range h.variants {
		if hv.Equal(v) {
			return true
		}
	}
	return false
}

// IsReferenceAt reports whether this haplotype carries the reference allele
// over r -- i.e. no member variant overlaps r.
func (h Haplotype) IsReferenceAt(r region.Region) bool {
	for _, v := range h.variants {
		if v.Overlaps(r) {
			return false
		}
	}
	return true
}

// paddedKey joins the padded sequences for use as an equality/ordering
// key: equality and ordering are by region set and the tuple of padded
// sequences, not by variant identity.
func (h Haplotype) paddedKey() string {
	parts := make([]string, len(h.padded))
	for i, p := range h.padded {
		parts[i] = string(p)
	}
	return strings.Join(parts, "\x00")
}

// Equal implements haplotype equality: same region set and same tuple of
// padded sequences (not variant identity -- different variant sets yielding
// the same sequences are considered equal and merged by HaplotypeVector).
func (h Haplotype) Equal(other Haplotype) bool {
	if h.regions.Len() != other.regions.Len() {
		return false
	}
	for i, r := range h.regions.Regions() {
		if r != other.regions.Regions()[i] {
			return false
		}
	}
	return h.paddedKey() == other.paddedKey()
}

// Less orders haplotypes lexicographically over the tuple of padded
// sequences, used to break ties deterministically in assembly/ranking.
func (h Haplotype) Less(other Haplotype) bool {
	return h.paddedKey() < other.paddedKey()
}
