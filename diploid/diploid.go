// Package diploid implements per-sample genotype likelihood scoring and
// annotation: genotype log-likelihoods from the read-by-haplotype
// matrix, genotype/phase quality, PL triples, per-variant read-support
// accounting, and the allele-bias and strand-bias P-values.
package diploid

import (
	"math"
	"sort"

	"github.com/hybridgenomics/varcall/genotype"
	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/stats"
	"github.com/hybridgenomics/varcall/variant"
	"gonum.org/v1/gonum/mat"
)

// GenotypeLikelihood pairs a genotype with its log-likelihood across all
// reads of one sample.
type GenotypeLikelihood struct {
	Genotype genotype.Genotype
	LogLik   float64
}

// LogLikelihoods scores every candidate genotype against the likelihood
// matrix L (reads x haplotypes) for one sample: for genotype g with
// multiplicity weights, the per-read likelihood is the mean over g's
// haplotype copies, the per-sample log-likelihood is the sum of per-read
// logs, and the result is weighted by log(g.NCombinations()) -- since
// Enumerate returns each unordered genotype once, this folds in the
// number of phased orderings it represents (L_i = likelihood[i] ·
// n-combinations[i]), so e.g. a het call starts with twice the prior
// mass of either homozygote at equal per-haplotype likelihood.
func LogLikelihoods(L *mat.Dense, genotypes []genotype.Genotype) []GenotypeLikelihood {
	rows, _ := L.Dims()
	out := make([]GenotypeLikelihood, len(genotypes))
	for gi, g := range genotypes {
		k := float64(len(g.HaplotypeIndices))
		logLik := 0.0
		for r := 0; r < rows; r++ {
			sum := 0.0
			for _, h := range g.HaplotypeIndices {
				sum += math.Exp(L.At(r, h))
			}
			perRead := sum / k
			logLik += stats.SafeLog(perRead)
		}
		logLik += math.Log(float64(g.NCombinations()))
		out[gi] = GenotypeLikelihood{Genotype: g, LogLik: logLik}
	}
	return out
}

// rescale subtracts the max log-likelihood from every entry and
// exponentiates, clamping underflow at stats.MinPositiveFloat.
func rescale(lls []GenotypeLikelihood) []float64 {
	maxLL := math.Inf(-1)
	for _, g := range lls {
		if g.LogLik > maxLL {
			maxLL = g.LogLik
		}
	}
	out := make([]float64, len(lls))
	for i, g := range lls {
		shifted := g.LogLik - maxLL
		if shifted < math.Log(stats.MinPositiveFloat) {
			shifted = math.Log(stats.MinPositiveFloat)
		}
		out[i] = math.Exp(shifted)
	}
	return out
}

// Posteriors normalizes the rescaled likelihoods into a probability
// distribution over genotypes (uniform genotype prior; callers that want a
// population prior should pre-weight lls before calling this).
func Posteriors(lls []GenotypeLikelihood) []float64 {
	weights := rescale(lls)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		out := make([]float64, len(weights))
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// bestTwo returns the indices of the largest and second-largest posterior.
func bestTwo(p []float64) (best, second int) {
	best, second = 0, -1
	for i, v := range p {
		if v > p[best] {
			second = best
			best = i
		} else if i != best && (second == -1 || v > p[second]) {
			second = i
		}
	}
	return best, second
}

// GenotypeQuality is the Phred-scaled confidence in the best genotype call
// relative to the rest of the posterior mass: -10*log10(1 - P(best)).
func GenotypeQuality(posteriors []float64) float64 {
	best, _ := bestTwo(posteriors)
	return stats.ToPhredQ(1 - posteriors[best])
}

// PhaseQuality is the Phred-scaled confidence that the best genotype's
// phasing (as opposed to the next-best call outside its equivalence
// class) is correct. Distinct enumerated genotypes that carry the same
// variants the same number of times on their haplotype copies (per
// genotype.EquivalenceKey, keyed over variants) are not phase-
// distinguishable, so their posterior mass is pooled before comparison:
// -10*log10(P(second, outside class)/P(best class)).
func PhaseQuality(posteriors []float64, genotypes []genotype.Genotype, hv *haplotype.Vector, variants []variant.Variant) float64 {
	best, _ := bestTwo(posteriors)
	classes := genotype.EquivalenceClasses(genotypes, hv, variants)
	bestKey := genotype.EquivalenceKey(genotypes[best], hv, variants)

	inClass := make(map[int]bool, len(classes[bestKey]))
	bestClassMass := 0.0
	for _, idx := range classes[bestKey] {
		inClass[idx] = true
		bestClassMass += posteriors[idx]
	}

	second, secondMass := -1, -1.0
	for i, p := range posteriors {
		if inClass[i] {
			continue
		}
		if p > secondMass {
			second, secondMass = i, p
		}
	}
	if second < 0 || bestClassMass <= 0 {
		return stats.Unknown
	}
	return stats.ToPhredQ(secondMass / bestClassMass)
}

// logSumExp returns log(exp(a) + exp(b)) without overflowing.
func logSumExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return hi + math.Log1p(math.Exp(lo-hi))
}

// PLTriple returns the three Phred-scaled likelihoods for the canonical
// {hom-ref, het, hom-alt} buckets relative to variant v, in VCF PL order,
// normalized so the best bucket is 0. Every genotype in lls contributes:
// genotypes are bucketed by how many of their haplotype copies carry v
// (0, 1, or 2-or-more strands), not merely by whether they're built
// purely from a fixed ref/alt index pair, so a cluster with more than two
// surviving haplotypes still buckets every enumerated genotype correctly
// instead of dropping the ones touching a third haplotype.
func PLTriple(lls []GenotypeLikelihood, hv *haplotype.Vector, v variant.Variant) [3]int {
	bucket := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, g := range lls {
		strands := 0
		for _, idx := range g.Genotype.HaplotypeIndices {
			if hv.At(idx).ContainsVariant(v) {
				strands++
			}
		}
		if strands > 2 {
			strands = 2 // ploidy > 2: fold 3+ carrying strands into the hom-alt bucket
		}
		bucket[strands] = logSumExp(bucket[strands], g.LogLik)
	}
	maxLL := math.Max(bucket[0], math.Max(bucket[1], bucket[2]))
	phred := func(ll float64) int {
		if math.IsInf(ll, -1) {
			return 255
		}
		v := -10 * (ll - maxLL) / math.Ln10
		return stats.ClipPhred(v, 255)
	}
	return [3]int{phred(bucket[0]), phred(bucket[1]), phred(bucket[2])}
}

// ReadSupport tallies, for one variant and one sample's reads, the
// forward/reverse counts of reads whose best-aligning haplotype carries
// the variant versus reads whose best haplotype is reference at the
// variant's region -- the basis of the allele/strand bias P-values.
type ReadSupport struct {
	ForwardSupporting, ReverseSupporting int
	ForwardReference, ReverseReference   int
}

// Total returns the total supporting and reference read counts.
func (rs ReadSupport) Total() (supporting, reference int) {
	return rs.ForwardSupporting + rs.ReverseSupporting, rs.ForwardReference + rs.ReverseReference
}

// bestHaplotypeIndices returns, for each read (row of L), the index of the
// haplotype (column) that best explains it (argmax over the row).
func bestHaplotypeIndices(L *mat.Dense) []int {
	rows, cols := L.Dims()
	out := make([]int, rows)
	for r := 0; r < rows; r++ {
		best, bestLL := -1, math.Inf(-1)
		for c := 0; c < cols; c++ {
			if L.At(r, c) > bestLL {
				bestLL = L.At(r, c)
				best = c
			}
		}
		out[r] = best
	}
	return out
}

// Accumulate classifies each read by which haplotype (by index into hv)
// best explains it (argmax over L's row), then whether that haplotype
// contains v or is reference at v's region, and folds the count into the
// correct strand bucket.
func Accumulate(L *mat.Dense, reads []read.Read, hv *haplotype.Vector, v variant.Variant) ReadSupport {
	var rs ReadSupport
	containing := make(map[int]bool)
	for _, idx := range hv.IndicesContainingVariant(v) {
		containing[idx] = true
	}
	reference := make(map[int]bool)
	for _, idx := range hv.IndicesThatAreReferenceAt(v.Region()) {
		reference[idx] = true
	}
	best := bestHaplotypeIndices(L)
	for r := 0; r < len(best) && r < len(reads); r++ {
		fwd := reads[r].Strand() != read.StrandRev
		switch {
		case containing[best[r]]:
			if fwd {
				rs.ForwardSupporting++
			} else {
				rs.ReverseSupporting++
			}
		case reference[best[r]]:
			if fwd {
				rs.ForwardReference++
			} else {
				rs.ReverseReference++
			}
		}
	}
	return rs
}

// SupportingReads returns the subset of reads whose best-aligning haplotype
// (per L's argmax) carries v -- the set MQ/BR annotations are computed over.
func SupportingReads(L *mat.Dense, reads []read.Read, hv *haplotype.Vector, v variant.Variant) []read.Read {
	containing := make(map[int]bool)
	for _, idx := range hv.IndicesContainingVariant(v) {
		containing[idx] = true
	}
	best := bestHaplotypeIndices(L)
	var out []read.Read
	for r := 0; r < len(best) && r < len(reads); r++ {
		if containing[best[r]] {
			out = append(out, reads[r])
		}
	}
	return out
}

// MedianMinBaseQual returns the median, over supporting reads, of each
// read's minimum base quality taken over all of the read's bases; it does
// not restrict the minimum to the variant's position or a window around it.
// Used for the BR annotation; returns 0 if reads is empty.
func MedianMinBaseQual(reads []read.Read) int {
	if len(reads) == 0 {
		return 0
	}
	mins := make([]int, len(reads))
	for i, r := range reads {
		m := 255
		for _, q := range r.Qualities {
			if int(q) < m {
				m = int(q)
			}
		}
		mins[i] = m
	}
	sort.Ints(mins)
	return mins[len(mins)/2]
}

// RMSMappingQual returns the root-mean-square mapping quality over reads.
func RMSMappingQual(reads []read.Read) float64 {
	if len(reads) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reads {
		sum += float64(r.MappingQual) * float64(r.MappingQual)
	}
	return math.Sqrt(sum / float64(len(reads)))
}

// StrandBiasPValue tests whether the forward/reverse split of supporting
// reads is consistent with the forward/reverse split of reference reads,
// via a beta-binomial tail probability: the null model treats the
// reference reads' forward fraction as the expected proportion.
func StrandBiasPValue(rs ReadSupport) float64 {
	supporting, _ := rs.Total()
	if supporting == 0 {
		return 1
	}
	refFwd, refRev := rs.ForwardReference, rs.ReverseReference
	total := refFwd + refRev
	alpha := 1.0
	if total > 0 {
		alpha = float64(refFwd+1) / float64(total+2) * float64(supporting)
	} else {
		alpha = float64(supporting) / 2
	}
	beta := float64(supporting) - alpha
	if beta < 0.5 {
		beta = 0.5
	}
	if alpha < 0.5 {
		alpha = 0.5
	}
	return 2 * math.Min(
		stats.BetaBinomialCDF(rs.ForwardSupporting, supporting, alpha, beta),
		1-stats.BetaBinomialCDF(rs.ForwardSupporting-1, supporting, alpha, beta),
	)
}

// AlleleBiasPValue tests whether the supporting/reference read split departs
// from the 0.5 allele-fraction expectation of a heterozygous call, via the
// same beta-binomial tail test StrandBiasPValue uses for strand direction.
func AlleleBiasPValue(rs ReadSupport) float64 {
	supporting, reference := rs.Total()
	total := supporting + reference
	if total == 0 {
		return 1
	}
	alpha := float64(total) / 2
	beta := alpha
	return 2 * math.Min(
		stats.BetaBinomialCDF(supporting, total, alpha, beta),
		1-stats.BetaBinomialCDF(supporting-1, total, alpha, beta),
	)
}
