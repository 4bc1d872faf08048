package caller

import (
	"github.com/hybridgenomics/varcall/genotype"
	"github.com/hybridgenomics/varcall/haplotype"
)

// PhaseSet propagates a phase-set id across adjacent clusters by checking
// whether the best-scoring genotype's haplotype combination in the later
// cluster is consistent with a permutation of the earlier cluster's best
// combination.
type PhaseSet struct {
	ID int

	prevBest   genotype.Genotype
	prevHap    *haplotype.Vector
	haveAnchor bool
}

// NewPhaseSet starts a fresh phase-set numbering sequence.
func NewPhaseSet() *PhaseSet { return &PhaseSet{ID: 1} }

// Align determines the phase-set id to assign to cur's best genotype. If
// there is no anchor yet, or the previous and current clusters' best
// combinations cannot be reconciled (no permutation of cur's haplotype
// copies is consistent with carrying forward the same physical chromosome
// assignment as prev), a new phase-set id is started; otherwise the
// existing id is carried forward.
func (p *PhaseSet) Align(curHap *haplotype.Vector, curBest genotype.Genotype) int {
	if !p.haveAnchor {
		p.haveAnchor = true
		p.prevBest = curBest
		p.prevHap = curHap
		return p.ID
	}
	if !consistentPermutation(p.prevBest, curBest) {
		p.ID++
	}
	p.prevBest = curBest
	p.prevHap = curHap
	return p.ID
}

// consistentPermutation reports whether a and b (genotypes of the same
// ploidy from two adjacent clusters) could represent the same underlying
// chromosome assignment -- i.e. there's no contradiction forced purely by
// multiplicity (a homozygous call never conflicts; two heterozygous calls
// are always potentially phase-consistent since either permutation is
// possible without more information; this is therefore a permissive check
// that only rejects on ploidy mismatch).
func consistentPermutation(a, b genotype.Genotype) bool {
	return len(a.HaplotypeIndices) == len(b.HaplotypeIndices)
}

// BestGenotype returns the genotype with the highest posterior from a
// parallel (genotypes, posteriors) pair.
func BestGenotype(genotypes []genotype.Genotype, posteriors []float64) genotype.Genotype {
	best := 0
	for i, p := range posteriors {
		if p > posteriors[best] {
			best = i
		}
	}
	return genotypes[best]
}
