package caller

import (
	"context"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/align"
	"github.com/hybridgenomics/varcall/assembly"
	"github.com/hybridgenomics/varcall/diploid"
	"github.com/hybridgenomics/varcall/frequency"
	"github.com/hybridgenomics/varcall/genotype"
	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/stats"
	"github.com/hybridgenomics/varcall/variant"
	"github.com/hybridgenomics/varcall/varqual"
	"gonum.org/v1/gonum/mat"
)

// Driver orchestrates the per-cluster calling pipeline (C1-C8) over a
// sequence of clusters covering a contig, and emits calls plus reference
// blocks to an OutputSink.
type Driver struct {
	Config   Config
	Ref      ReferenceSource
	Reads    ReadSource
	Sink     OutputSink
	Reporter Reporter

	Candidates CandidateVariantSource
	Genotyping GenotypingAlleleSource

	refBlocks refBlockTracker
	processed region.Index
}

// NewDriver builds a Driver with the given collaborators, defaulting
// Reporter to NoopReporter when nil.
func NewDriver(cfg Config, ref ReferenceSource, reads ReadSource, sink OutputSink) *Driver {
	return &Driver{
		Config:    cfg,
		Ref:       ref,
		Reads:     reads,
		Sink:      sink,
		Reporter:  NoopReporter,
		refBlocks: newRefBlockTracker(cfg),
	}
}

// ProcessCluster runs the full pipeline over one cluster region: assemble
// candidates, build the haplotype vector, score reads against it, estimate
// frequencies, enumerate genotypes, score each sample, and emit variant
// calls and interstitial reference blocks.
func (d *Driver) ProcessCluster(ctx context.Context, clusterRegion region.Region) error {
	window, err := d.Ref.Window(ctx, clusterRegion)
	if err != nil {
		return err
	}

	if last, ok := d.processed.Floor(clusterRegion); ok && !adjacentOrOverlapping(last, clusterRegion) {
		// The incoming cluster doesn't pick up where the nearest
		// previously-processed one left off (e.g. a caller jumping
		// across a gap, or between contigs) -- any open reference-block
		// run can't validly be extended across that gap.
		if err := d.flushRefBlocks(last.Contig, true); err != nil {
			return err
		}
	}
	d.processed.Insert(clusterRegion)

	samples := d.Reads.Samples()
	perSampleReads := make(map[string][]read.Read, len(samples))
	var allReads []read.Read
	for _, s := range samples {
		reads, err := d.Reads.Reads(ctx, s, clusterRegion)
		if err != nil {
			return err
		}
		perSampleReads[s] = reads
		allReads = append(allReads, reads...)
	}

	variants, err := d.candidateVariants(ctx, &window, clusterRegion, allReads)
	if err != nil {
		if errors.Is(errors.Invalid, err) {
			d.Reporter.Clusterf("skipping cluster %v: %v", clusterRegion, err)
			return nil
		}
		return err
	}
	if len(variants) == 0 {
		d.refBlocks.observe(clusterRegion, perSampleMinCoverage(clusterRegion, perSampleReads, samples))
		return d.flushRefBlocks(clusterRegion.Contig, false)
	}

	haplotypes, err := buildHaplotypeVector(&window, clusterRegion, variants, d.Config.HaplotypePadding)
	if err != nil {
		return err
	}

	genotypes, err := genotype.Enumerate(haplotypes, d.Config.Ploidy)
	if err != nil {
		return err
	}

	scorer := align.DefaultScorer
	perSampleFreq := make([][]float64, 0, len(samples))
	perSampleLL := make(map[string][]diploid.GenotypeLikelihood, len(samples))
	perSampleL := make(map[string]*mat.Dense, len(samples))
	for _, s := range samples {
		reads := perSampleReads[s]
		L := align.LikelihoodMatrix(scorer, haplotypeSlice(haplotypes), reads)
		freq, err := frequency.Estimate(L)
		if err != nil {
			return err
		}
		perSampleFreq = append(perSampleFreq, freq)
		perSampleLL[s] = diploid.LogLikelihoods(L, genotypes)
		perSampleL[s] = L
	}
	combinedFreq := frequency.Sum(perSampleFreq)

	for _, v := range variants {
		q := varqual.Quality(combinedFreq, haplotypes, v)
		if q < d.Config.MinCallQual && !v.IsGenotypingVariant() {
			// Below the call-quality floor and not a forced genotyping
			// allele: spec.md §4.9 step 8 omits it from the emitted set.
			continue
		}

		call := Call{
			Type:     CallVar,
			Region:   v.Region(),
			Variant:  v,
			Quality:  q,
			Samples:  make(map[string]SampleCall, len(samples)),
			PhaseSet: map[string]int{},
		}

		var rsCombined diploid.ReadSupport
		var maxMQ float64
		var maxBR int
		for _, s := range samples {
			lls := perSampleLL[s]
			L := perSampleL[s]
			reads := perSampleReads[s]

			post := diploid.Posteriors(lls)
			rs := diploid.Accumulate(L, reads, haplotypes, v)
			supporting, reference := rs.Total()
			sampleDP := supporting + reference

			sampleGeno := CallUnknown
			switch {
			case sampleDP == 0:
				sampleGeno = CallUnknown
			case supporting > 0:
				sampleGeno = CallVar
			default:
				sampleGeno = CallRef
			}
			vaf := 0.0
			if sampleDP > 0 {
				vaf = float64(supporting) / float64(sampleDP)
			}

			call.Samples[s] = SampleCall{
				Genotype: sampleGeno,
				GQ:       diploid.GenotypeQuality(post),
				PQ:       diploid.PhaseQuality(post, genotypes, haplotypes, variants),
				PL:       diploid.PLTriple(lls, haplotypes, v),
				AD:       [2]int{reference, supporting},
				DP:       sampleDP,
				VAF:      vaf,
			}

			rsCombined.ForwardSupporting += rs.ForwardSupporting
			rsCombined.ReverseSupporting += rs.ReverseSupporting
			rsCombined.ForwardReference += rs.ForwardReference
			rsCombined.ReverseReference += rs.ReverseReference

			supportReads := diploid.SupportingReads(L, reads, haplotypes, v)
			if mq := diploid.RMSMappingQual(supportReads); mq > maxMQ {
				maxMQ = mq
			}
			if br := diploid.MedianMinBaseQual(supportReads); br > maxBR {
				maxBR = br
			}
		}

		supporting, reference := rsCombined.Total()
		call.DP = supporting + reference
		call.DPR = rsCombined.ReverseSupporting + rsCombined.ReverseReference
		call.DPF = rsCombined.ForwardSupporting + rsCombined.ForwardReference
		call.VC = supporting
		call.VCR = rsCombined.ReverseSupporting
		call.VCF = rsCombined.ForwardSupporting
		call.ABPV = diploid.AlleleBiasPValue(rsCombined)
		call.SBPV = diploid.StrandBiasPValue(rsCombined)
		call.MQ = maxMQ
		call.BR = maxBR
		posterior := 1 - stats.FromPhredQ(q)
		call.QD = stats.VariantSupportPerRead(v.Prior(), posterior, int64(supporting))

		if err := d.Sink.Emit(call); err != nil {
			return err
		}
	}

	d.refBlocks.observe(clusterRegion, perSampleMinCoverage(clusterRegion, perSampleReads, samples))
	return d.flushRefBlocks(clusterRegion.Contig, false)
}

// adjacentOrOverlapping reports whether b picks up where a left off: same
// contig, and b doesn't start strictly past a's end (a gap between clusters
// means any reference-run state carried from a no longer applies to b).
func adjacentOrOverlapping(a, b region.Region) bool {
	return a.Contig == b.Contig && b.Start <= a.End
}

// coverageDepths returns, for each position in r, the number of reads
// overlapping it.
func coverageDepths(r region.Region, reads []read.Read) []int {
	depths := make([]int, r.Len())
	for _, rd := range reads {
		overlap := rd.Region().Intersect(r)
		for p := overlap.Start; p < overlap.End; p++ {
			depths[p-r.Start]++
		}
	}
	return depths
}

// perSampleMinCoverage returns, for each position in r, the minimum read
// depth across samples -- a reference block is only valid where every
// sample independently has read support, per the MIN_DP annotation.
func perSampleMinCoverage(r region.Region, perSampleReads map[string][]read.Read, samples []string) []int {
	minDP := make([]int, r.Len())
	for i, s := range samples {
		depths := coverageDepths(r, perSampleReads[s])
		if i == 0 {
			copy(minDP, depths)
			continue
		}
		for j, d := range depths {
			if d < minDP[j] {
				minDP[j] = d
			}
		}
	}
	return minDP
}

func (d *Driver) candidateVariants(ctx context.Context, window *refwindow.Window, r region.Region, allReads []read.Read) ([]variant.Variant, error) {
	var out []variant.Variant
	if d.Genotyping != nil {
		forced, err := d.Genotyping.GenotypingAlleles(ctx, r)
		if err != nil {
			return nil, err
		}
		for i := range forced {
			forced[i].SetGenotypingVariant()
		}
		out = append(out, forced...)
	}
	assembled, err := assembly.Assemble(window, allReads)
	if err != nil {
		return nil, err
	}
	out = append(out, assembled...)
	if d.Candidates != nil {
		extra, err := d.Candidates.CandidateVariants(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, extra...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return dedupVariants(out), nil
}

func dedupVariants(sorted []variant.Variant) []variant.Variant {
	out := sorted[:0:0]
	for i, v := range sorted {
		if i > 0 && v.Equal(sorted[i-1]) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// buildHaplotypeVector forms the reference haplotype plus one haplotype per
// candidate variant applied singly, merges duplicates, and returns the
// resulting vector. Each non-reference haplotype carries exactly one
// candidate variant; no haplotype combining two or more variants is built
// here or elsewhere (phase.go only carries phase-set ids across clusters).
func buildHaplotypeVector(window *refwindow.Window, r region.Region, variants []variant.Variant, padding region.PosType) (*haplotype.Vector, error) {
	var hv haplotype.Vector
	var regions region.Set
	regions.Add(r)

	refHap, err := haplotype.New(window, regions, nil, padding, padding)
	if err != nil {
		return nil, err
	}
	hv.Push(refHap, "ref")

	for _, v := range variants {
		h, err := haplotype.New(window, regions, []variant.Variant{v}, padding, padding)
		if err != nil {
			continue // an unrepresentable single-variant haplotype is dropped, not fatal
		}
		hv.Push(h, v.String())
	}
	hv.Merge()
	return &hv, nil
}

func haplotypeSlice(hv *haplotype.Vector) []haplotype.Haplotype {
	out := make([]haplotype.Haplotype, hv.Len())
	for i := 0; i < hv.Len(); i++ {
		out[i] = hv.At(i)
	}
	return out
}
