// Package genotype implements genotype enumeration: multiset
// combinations-with-repetition over a haplotype vector at a given
// ploidy, forming the non-phased equivalence classes scored by the
// diploid package.
package genotype

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/variant"
)

// Genotype is one unordered combination of k haplotype indices (with
// repetition), e.g. {0,0} (hom ref), {0,1} (het), {1,1} (hom alt) at k=2.
type Genotype struct {
	// HaplotypeIndices holds one entry per copy (length k), non-decreasing.
	HaplotypeIndices []int
}

// Multiplicity returns, for each distinct haplotype index present, how many
// copies of it this genotype carries.
func (g Genotype) Multiplicity() map[int]int {
	m := make(map[int]int)
	for _, idx := range g.HaplotypeIndices {
		m[idx]++
	}
	return m
}

// NCombinations returns k!/(prod m_i!), the number of phased orderings this
// unphased genotype represents -- used to weight genotype priors and to
// recover phased read-support counts.
func (g Genotype) NCombinations() int {
	k := len(g.HaplotypeIndices)
	n := factorial(k)
	for _, m := range g.Multiplicity() {
		n /= factorial(m)
	}
	return n
}

func factorial(n int) int {
	out := 1
	for i := 2; i <= n; i++ {
		out *= i
	}
	return out
}

// Enumerate returns every distinct unphased genotype of ploidy k over a
// haplotype vector of size n (combinations with repetition: C(n+k-1, k)).
// It fails with PreconditionViolated if the vector hasn't been merged --
// enumerating over a vector with duplicate haplotypes would silently double
// -count equivalence classes.
func Enumerate(v *haplotype.Vector, k int) ([]Genotype, error) {
	if !v.AllDistinct() {
		return nil, errors.E(errors.Precondition, "genotype: haplotype vector must be merged (all-distinct) before enumeration")
	}
	n := v.Len()
	if n == 0 || k <= 0 {
		return nil, errors.E(errors.Invalid, "genotype: enumeration requires a non-empty haplotype vector and ploidy >= 1")
	}
	var out []Genotype
	combo := make([]int, k)
	var generate func(start, pos int)
	generate = func(start, pos int) {
		if pos == k {
			idx := append([]int(nil), combo...)
			out = append(out, Genotype{HaplotypeIndices: idx})
			return
		}
		for i := start; i < n; i++ {
			combo[pos] = i
			generate(i, pos+1)
		}
	}
	generate(0, 0)
	return out, nil
}

// StrandCounts returns, for each variant in variants (in order), how many
// of g's haplotype copies carry that variant. Two genotypes with equal
// StrandCounts vectors are not phase-distinguishable by these variants
// alone: they belong to the same non-phased equivalence class.
func (g Genotype) StrandCounts(hv *haplotype.Vector, variants []variant.Variant) []int {
	counts := make([]int, len(variants))
	for _, idx := range g.HaplotypeIndices {
		h := hv.At(idx)
		for vi, v := range variants {
			if h.ContainsVariant(v) {
				counts[vi]++
			}
		}
	}
	return counts
}

// EquivalenceKey returns a comparable key for g's non-phased equivalence
// class under variants: two genotypes with equal keys carry the same
// variants the same number of times on their haplotype copies, and so
// are equivalent for per-variant strand-count bucketing (e.g. PL triple
// computation, phase quality).
func EquivalenceKey(g Genotype, hv *haplotype.Vector, variants []variant.Variant) string {
	counts := g.StrandCounts(hv, variants)
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ",")
}

// EquivalenceClasses partitions genotypes into non-phased equivalence
// classes keyed by EquivalenceKey, returning for each distinct key the
// indices (into genotypes) of its members in encounter order.
func EquivalenceClasses(genotypes []Genotype, hv *haplotype.Vector, variants []variant.Variant) map[string][]int {
	classes := make(map[string][]int)
	for i, g := range genotypes {
		key := EquivalenceKey(g, hv, variants)
		classes[key] = append(classes[key], i)
	}
	return classes
}
