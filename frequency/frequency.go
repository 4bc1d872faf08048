// Package frequency implements haplotype frequency estimation:
// column-sum normalization of the read-by-haplotype likelihood matrix,
// multi-sample aggregation, and the counterfactual "exclude a haplotype
// and renormalize" step used by the variant quality calculator.
package frequency

import (
	"math"

	"github.com/grailbio/base/errors"
	"gonum.org/v1/gonum/mat"
)

// Estimate computes freq[h] = sum_r P[r,h] / sum_r sum_h' P[r,h'] --
// column-sum normalization over the read-by-haplotype likelihood matrix,
// not per-read normalization. L holds log-likelihoods (align.LikelihoodMatrix's
// output), so each entry is exponentiated into a linear probability before
// summing. A single column-sum pass is the baseline estimator implemented
// here.
func Estimate(L *mat.Dense) ([]float64, error) {
	rows, cols := L.Dims()
	if cols == 0 {
		return nil, errors.E(errors.Invalid, "frequency: empty haplotype set")
	}
	colSums := make([]float64, cols)
	total := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := math.Exp(L.At(r, c))
			colSums[c] += v
			total += v
		}
	}
	if total <= 0 {
		// No informative reads: fall back to a uniform prior over haplotypes
		// rather than dividing by zero.
		freq := make([]float64, cols)
		for i := range freq {
			freq[i] = 1.0 / float64(cols)
		}
		return freq, nil
	}
	freq := make([]float64, cols)
	for c := range freq {
		freq[c] = colSums[c] / total
	}
	return freq, nil
}

// Sum aggregates per-sample frequency estimates into a single combined
// estimate, re-normalizing the summed weights.
func Sum(perSample [][]float64) []float64 {
	if len(perSample) == 0 {
		return nil
	}
	n := len(perSample[0])
	combined := make([]float64, n)
	for _, freq := range perSample {
		for i, f := range freq {
			combined[i] += f
		}
	}
	total := 0.0
	for _, v := range combined {
		total += v
	}
	if total <= 0 {
		return combined
	}
	for i := range combined {
		combined[i] /= total
	}
	return combined
}

// ExcludingHaplotype returns the frequency estimate recomputed with
// haplotype index excluded (its mass zeroed) and the remainder renormalized
// over the surviving haplotypes -- the counterfactual C8 uses to measure how
// much posterior mass a candidate variant's haplotypes actually carry.
func ExcludingHaplotype(freq []float64, excluded int) []float64 {
	out := make([]float64, len(freq))
	total := 0.0
	for i, f := range freq {
		if i == excluded {
			continue
		}
		out[i] = f
		total += f
	}
	if total <= 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
