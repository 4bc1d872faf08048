// Package align implements the read-to-haplotype likelihood model: a
// gap-affine aligner scoring each read against each haplotype's padded
// sequences, assembled into a dense read-by-haplotype log-likelihood
// matrix, with low-outlier smoothing.
package align

import (
	"math"
	"sort"

	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/read"
	"gonum.org/v1/gonum/mat"
)

// Scorer holds the gap-affine scoring parameters, grounded on
// original_source's alignScorer.hpp: per-base match/mismatch log-odds, an
// affine gap penalty (open + extend), and a reduced open penalty for
// homopolymer-run extensions (indels within a run of the same base are far
// more likely than elsewhere, so they're penalized less).
type Scorer struct {
	MatchLogProb     float64
	MismatchLogProb  float64
	GapOpenLogProb   float64
	GapExtendLogProb float64
	HomopolymerGapOpenLogProb float64
}

// DefaultScorer holds reasonable default alignment parameters: high
// per-base match confidence, a steep mismatch penalty, and gap penalties
// calibrated against typical short-read indel error rates.
var DefaultScorer = Scorer{
	MatchLogProb:              math.Log(0.998),
	MismatchLogProb:           math.Log(0.002 / 3),
	GapOpenLogProb:            math.Log(1e-3),
	GapExtendLogProb:          math.Log(0.25),
	HomopolymerGapOpenLogProb: math.Log(1e-2),
}

// isHomopolymerRun reports whether position i in seq sits within a run of
// 3 or more identical bases (used to select the reduced gap-open penalty).
func isHomopolymerRun(seq []byte, i int) bool {
	if len(seq) == 0 {
		return false
	}
	if i >= len(seq) {
		i = len(seq) - 1
	}
	base := seq[i]
	run := 1
	for j := i - 1; j >= 0 && seq[j] == base; j-- {
		run++
	}
	for j := i + 1; j < len(seq) && seq[j] == base; j++ {
		run++
	}
	return run >= 3
}

// AlignToSequence computes the best-alignment log-likelihood of read against
// one padded reference/haplotype sequence, via a gap-affine Needleman-Wunsch
// style dynamic program over log-probabilities (three states: match,
// insertion-into-read, deletion-from-read), seeded with very negative
// boundary scores so the whole read is aligned (global over the read) while
// it may start and end anywhere along the padded sequence (local over the
// sequence).
func AlignToSequence(scorer Scorer, seq []byte, readSeq, readQual []byte) float64 {
	n, m := len(readSeq), len(seq)
	if n == 0 || m == 0 {
		return math.Inf(-1)
	}
	const negInf = math.MaxFloat64 / 4

	match := mat.NewDense(n+1, m+1, nil)
	ins := mat.NewDense(n+1, m+1, nil) // gap in seq (read has extra base)
	del := mat.NewDense(n+1, m+1, nil) // gap in read (seq has extra base)

	for j := 0; j <= m; j++ {
		match.Set(0, j, -negInf)
		ins.Set(0, j, -negInf)
		del.Set(0, j, 0) // free lead-in along the reference/haplotype side
	}
	for i := 1; i <= n; i++ {
		match.Set(i, 0, -negInf)
		ins.Set(i, 0, -negInf)
		del.Set(i, 0, -negInf)
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			base := readSeq[i-1]
			qual := 40.0
			if readQual != nil && i-1 < len(readQual) {
				qual = float64(readQual[i-1])
			}
			subLogProb := scorer.MatchLogProb
			if base != seq[j-1] {
				subLogProb = scorer.MismatchLogProb
			}
			// Quality-scaled substitution probability: higher base quality
			// pulls the score toward the scorer's nominal match/mismatch
			// log-probabilities; lower quality flattens it toward log(0.25).
			weight := 1 - math.Pow(10, -qual/10)
			subLogProb = weight*subLogProb + (1-weight)*math.Log(0.25)

			best := max3(match.At(i-1, j-1), ins.At(i-1, j-1), del.At(i-1, j-1))
			match.Set(i, j, best+subLogProb)

			gapOpen := scorer.GapOpenLogProb
			if isHomopolymerRun(seq, j-1) {
				gapOpen = scorer.HomopolymerGapOpenLogProb
			}
			ins.Set(i, j, max2(match.At(i-1, j)+gapOpen, ins.At(i-1, j)+scorer.GapExtendLogProb))
			del.Set(i, j, max2(match.At(i, j-1)+gapOpen, del.At(i, j-1)+scorer.GapExtendLogProb))
		}
	}

	best := math.Inf(-1)
	for j := 0; j <= m; j++ {
		best = max2(best, max3(match.At(n, j), ins.At(n, j), del.At(n, j)))
	}
	return best
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func max3(a, b, c float64) float64 { return max2(a, max2(b, c)) }

// AlignToHaplotype scores a read against a haplotype by aligning against
// each of the haplotype's padded region sequences and taking the maximum
// (a read only needs to explain the haplotype over the region(s) it
// overlaps).
func AlignToHaplotype(scorer Scorer, h haplotype.Haplotype, r read.Read) float64 {
	best := math.Inf(-1)
	for _, seq := range h.PaddedSequences() {
		score := AlignToSequence(scorer, []byte(seq), r.Sequence, r.Qualities)
		if score > best {
			best = score
		}
	}
	return best
}

// LikelihoodMatrix computes the dense read-by-haplotype log-likelihood
// matrix L[r,h], then smooths low outliers toward a single global floor:
// m, the median over reads of each read's own best-haplotype
// log-likelihood, discounted by maxDifference = 10^(-maxMappingQ/10)
// where maxMappingQ is the highest MappingQual actually observed among
// the reads. Any entry below (m + log(maxDifference)) is raised to that
// floor, so that a single badly-aligned haplotype cannot zero out a
// read's contribution to every genotype it's plausible under, while the
// threshold itself reflects how confidently this batch of reads was
// mapped rather than a fixed constant.
func LikelihoodMatrix(scorer Scorer, haplotypes []haplotype.Haplotype, reads []read.Read) *mat.Dense {
	nr, nh := len(reads), len(haplotypes)
	L := mat.NewDense(nr, nh, nil)
	rows := make([][]float64, nr)
	rowMaxes := make([]float64, nr)
	maxMappingQual := 0
	for ri, r := range reads {
		row := make([]float64, nh)
		rowMax := math.Inf(-1)
		for hi, h := range haplotypes {
			v := AlignToHaplotype(scorer, h, r)
			row[hi] = v
			if v > rowMax {
				rowMax = v
			}
		}
		rows[ri] = row
		rowMaxes[ri] = rowMax
		if r.MappingQual > maxMappingQual {
			maxMappingQual = r.MappingQual
		}
	}

	if nr > 0 {
		sorted := append([]float64(nil), rowMaxes...)
		sort.Float64s(sorted)
		m := sorted[len(sorted)/2]
		logMaxDifference := -float64(maxMappingQual) / 10 * math.Ln10
		floor := m + logMaxDifference
		for _, row := range rows {
			for hi, v := range row {
				if v < floor {
					row[hi] = floor
				}
			}
		}
	}
	for ri, row := range rows {
		L.SetRow(ri, row)
	}
	return L
}
