package caller

import (
	"sort"

	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
)

// SplitLargeVariants partitions variants into "small" (below the large-
// variant size threshold) and "large" (medium-SV scale) groups. Large
// variants are processed as their own single-variant clusters rather
// than combined combinatorially with nearby small variants, since the
// combinatorial haplotype blow-up of including a 150bp deletion in every
// haplotype combination is not tractable at cluster scale.
func SplitLargeVariants(variants []variant.Variant, threshold int) (small, large []variant.Variant) {
	for _, v := range variants {
		if v.IsLarge(threshold) {
			large = append(large, v)
		} else {
			small = append(small, v)
		}
	}
	return small, large
}

// MergeAdjacentLargeVariantClusters coalesces large-variant singleton
// cluster regions that overlap or sit within mergeDistance of each other
// into a single cluster region, so a cluster of two nearby large deletions
// is assembled and scored jointly rather than independently (which would
// silently drop their interaction, e.g. one deletion swallowing the other's
// breakpoint).
func MergeAdjacentLargeVariantClusters(regions []region.Region, mergeDistance region.PosType) []region.Region {
	if len(regions) == 0 {
		return nil
	}
	sorted := append([]region.Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := []region.Region{sorted[0]}
	for _, r := range sorted[1:] {
		last := out[len(out)-1]
		if r.Contig == last.Contig && r.Start <= last.End+mergeDistance {
			out[len(out)-1] = last.Union(r)
			continue
		}
		out = append(out, r)
	}
	return out
}

// LargeVariantClusterRegions returns one padded cluster region per large
// variant (post-merge), padded by padding bases on each side so the
// assembler and aligner have enough flanking reference to anchor against.
func LargeVariantClusterRegions(large []variant.Variant, padding region.PosType, windowFloor, windowCeil region.PosType) []region.Region {
	var regions []region.Region
	for _, v := range large {
		regions = append(regions, v.Region().Pad(padding, padding, windowFloor, windowCeil))
	}
	return MergeAdjacentLargeVariantClusters(regions, padding)
}
