// Package varqual implements the variant quality calculator: a posterior
// Phred quality derived by reweighting the haplotype frequency estimate
// with and without the candidate variant's haplotypes, rather than from
// genotype calls directly.
package varqual

import (
	"github.com/hybridgenomics/varcall/frequency"
	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/stats"
	"github.com/hybridgenomics/varcall/variant"
)

// Quality computes a variant's Phred quality from the combined haplotype
// frequency estimate alone: (1) variantMass is the estimate's mass over the
// haplotypes carrying v; (2) the estimate is recomputed with those
// haplotypes excluded and renormalized, and maxAlternative is the largest
// remaining frequency; (3) posterior = variantMass*(1 -
// maxAlternative*(1-variantMass)); (4) the result is ToPhredQ(1-posterior).
// It does not use the variant's prior or any genotype likelihoods.
func Quality(combinedFreq []float64, hv *haplotype.Vector, v variant.Variant) float64 {
	indices := hv.IndicesContainingVariant(v)
	if len(indices) == 0 {
		return 0
	}
	variantMass := 0.0
	for _, idx := range indices {
		variantMass += combinedFreq[idx]
	}
	if variantMass <= 0 {
		return 0
	}
	// Step 2: the counterfactual frequency estimate with the variant's
	// haplotypes zeroed and the remaining mass renormalized. Its largest
	// entry measures how strongly a single non-variant haplotype explains
	// the data once the variant's own contribution is removed.
	counterfactual := combinedFreq
	for _, idx := range indices {
		counterfactual = frequency.ExcludingHaplotype(counterfactual, idx)
	}
	maxAlternative := 0.0
	for i, f := range counterfactual {
		if contains(indices, i) {
			continue
		}
		if f > maxAlternative {
			maxAlternative = f
		}
	}

	// Step 3: the variant's posterior is its own mass discounted by how much
	// of the counterfactual mass concentrates on a single competing
	// haplotype (a strong single alternative explanation should pull the
	// posterior down even when variantMass is high).
	posterior := variantMass * (1 - maxAlternative*(1-variantMass))
	return stats.ToPhredQ(1 - posterior)
}

func contains(indices []int, i int) bool {
	for _, idx := range indices {
		if idx == i {
			return true
		}
	}
	return false
}
