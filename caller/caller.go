// Package caller implements the cluster driver and its external
// interfaces: orchestration of the per-cluster calling pipeline,
// large-variant cluster splitting/merging, reference-block emission, and
// phase-set alignment across adjacent clusters.
package caller

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
)

// CallType is the three-state call outcome for one sample at one site.
type CallType int

const (
	CallUnknown CallType = iota
	CallRef
	CallVar
)

func (t CallType) String() string {
	switch t {
	case CallRef:
		return "REF"
	case CallVar:
		return "VAR"
	default:
		return "UNKNOWN"
	}
}

// SampleCall holds one sample's per-variant genotype call and annotations
// (spec.md §6's per-sample annotation set: GT/GQ/PQ/PL/AD/DP/VAF).
type SampleCall struct {
	Genotype CallType // CallRef, CallVar, or CallUnknown at this site for this sample
	GQ       float64
	PQ       float64
	PL       [3]int
	AD       [2]int // [reference, alt] supporting read counts
	DP       int
	VAF      float64
}

// Call is one emitted record: either a variant call or a reference block.
type Call struct {
	Type     CallType
	Region   region.Region
	Variant  variant.Variant // zero value when Type != CallVar
	Quality  float64
	Samples  map[string]SampleCall
	PhaseSet map[string]int

	// Variant-level annotations (zero value when Type != CallVar).
	DP, DPR, DPF int     // total/reverse/forward depth across samples
	VC, VCR, VCF int     // total/reverse/forward variant-supporting reads across samples
	ABPV, SBPV   float64 // allele-bias and strand-bias P-values
	MQ           float64 // max RMS mapping quality of supporting reads across samples
	BR           int     // max median-min-base-quality of supporting reads across samples
	QD           float64 // variant support per read
}

// Config holds the cluster driver's tunables in one explicit struct
// rather than scattered global parameters.
type Config struct {
	Ploidy                     int
	DefaultKmerSize            int
	MaxKmerSize                int
	MinAssemblySupport         int
	HaplotypePadding           region.PosType
	LargeVariantSizeDefinition int
	MaxMappingQual             int
	RefBlockMinRunLength       region.PosType
	RefBlockPriorAlpha         float64

	// MinCallQual is the minimum variant Phred quality (varqual.Quality) a
	// candidate variant must reach to be emitted as a call, unless it's a
	// genotyping-mode (force-called) variant, which is always emitted.
	MinCallQual float64

	// ReadQualityDeltaThreshold is the minimum relative change in per-
	// position coverage depth that the reference-block tracker treats as a
	// run boundary (spec.md §4.9's coverage-delta trigger).
	ReadQualityDeltaThreshold float64
}

// DefaultConfig holds reasonable compiled-in defaults.
var DefaultConfig = Config{
	Ploidy:                     2,
	DefaultKmerSize:            21,
	MaxKmerSize:                81,
	MinAssemblySupport:         2,
	HaplotypePadding:           100,
	LargeVariantSizeDefinition: 150,
	MaxMappingQual:             60,
	RefBlockMinRunLength:       10,
	RefBlockPriorAlpha:         0.5,
	MinCallQual:                3,
	ReadQualityDeltaThreshold:  0.5,
}

// ReferenceSource provides reference bases for a region -- the external
// collaborator interface backed in production by the refio package's
// .fa/.fa.gz loader.
type ReferenceSource interface {
	Window(ctx context.Context, r region.Region) (refwindow.Window, error)
}

// ReadSource provides the reads overlapping a region, for one or more
// samples.
type ReadSource interface {
	Reads(ctx context.Context, sample string, r region.Region) ([]read.Read, error)
	Samples() []string
}

// CandidateVariantSource optionally supplies externally-discovered
// candidate variants (e.g. from a prior caller pass) to merge with
// assembly's own candidates.
type CandidateVariantSource interface {
	CandidateVariants(ctx context.Context, r region.Region) ([]variant.Variant, error)
}

// GenotypingAlleleSource restricts calling to a fixed allele set
// ("force-call" / genotyping mode), bypassing assembly for the listed
// variants.
type GenotypingAlleleSource interface {
	GenotypingAlleles(ctx context.Context, r region.Region) ([]variant.Variant, error)
}

// OutputSink receives emitted calls in coordinate order.
type OutputSink interface {
	Emit(Call) error
}

// Reporter is the cluster driver's logging seam. Core packages (variant,
// haplotype, align, frequency, genotype, diploid, varqual, assembly)
// never log; only the driver accepts a Reporter, defaulting to a no-op
// so callers who don't care about progress/diagnostic output pay nothing
// for it.
type Reporter interface {
	Clusterf(format string, args ...interface{})
}

type noopReporter struct{}

func (noopReporter) Clusterf(string, ...interface{}) {}

// NoopReporter is the zero-cost default Reporter.
var NoopReporter Reporter = noopReporter{}

// ErrSkipCluster is an errors.Invalid sentinel for dropping a cluster's
// calls entirely. Nothing in this module returns it; the driver skips a
// cluster on any errors.Invalid error from candidate-variant generation,
// which includes this one.
var ErrSkipCluster = errors.E(errors.Invalid, "caller: cluster skipped")
