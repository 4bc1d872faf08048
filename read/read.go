// Package read implements the Read record: an aligned read plus its
// derived fields (aligned end, read-space interval, maximal read
// interval), immutable after construction.
package read

import (
	"github.com/grailbio/hts/sam"
	"github.com/hybridgenomics/varcall/region"
)

// Read is an aligned read, immutable once built.
type Read struct {
	ReadGroup     string
	Contig        string
	Start         region.PosType
	Cigar         sam.Cigar
	Sequence      []byte
	Qualities     []byte
	MappingQual   int
	Flags         sam.Flags

	alignedEnd region.PosType
}

// New constructs a Read, pre-computing its aligned end from the CIGAR.
func New(readGroup, contig string, start region.PosType, cigar sam.Cigar, seq, qual []byte, mapq int, flags sam.Flags) Read {
	r := Read{
		ReadGroup:   readGroup,
		Contig:      contig,
		Start:       start,
		Cigar:       cigar,
		Sequence:    seq,
		Qualities:   qual,
		MappingQual: mapq,
		Flags:       flags,
	}
	r.alignedEnd = start
	for _, op := range cigar {
		if consumesReference(op.Type()) {
			r.alignedEnd += region.PosType(op.Len())
		}
	}
	return r
}

func consumesReference(t sam.CigarOpType) bool {
	switch t {
	case sam.CigarMatch, sam.CigarDeletion, sam.CigarSkipped, sam.CigarEqual, sam.CigarMismatch:
		return true
	default:
		return false
	}
}

func consumesRead(t sam.CigarOpType) bool {
	switch t {
	case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarEqual, sam.CigarMismatch:
		return true
	default:
		return false
	}
}

// End returns the aligned end (exclusive) of the read in reference space.
func (r Read) End() region.PosType { return r.alignedEnd }

// Region returns the read's reference-space footprint [Start, End).
func (r Read) Region() region.Region { return region.New(r.Contig, r.Start, r.alignedEnd) }

// ReadSpaceInterval maps a reference-space region to the [lo, hi) indices
// into Sequence/Qualities that it corresponds to, by walking the CIGAR. It
// returns ok=false if refRegion does not overlap the read's aligned span.
func (r Read) ReadSpaceInterval(refRegion region.Region) (lo, hi int, ok bool) {
	refPos := r.Start
	readPos := 0
	lo, hi = -1, -1
	for _, op := range r.Cigar {
		n := op.Len()
		refAdvance := consumesReference(op.Type())
		readAdvance := consumesRead(op.Type())
		for i := 0; i < n; i++ {
			inRef := refAdvance && refPos >= refRegion.Start && refPos < refRegion.End
			if inRef && lo == -1 && readAdvance {
				lo = readPos
			}
			if inRef && readAdvance {
				hi = readPos + 1
			}
			if refAdvance {
				refPos++
			}
			if readAdvance {
				readPos++
			}
		}
	}
	if lo == -1 {
		return 0, 0, false
	}
	return lo, hi, true
}

// MaximalInterval returns the read's extent in reference space including
// soft clips, by further extending Start/End by the soft-clip lengths at
// either end (the clipped bases don't consume reference, but they occupy
// reference-adjacent positions for the purpose of deciding which reads may
// be relevant to a nearby cluster).
func (r Read) MaximalInterval() region.Region {
	start, end := r.Start, r.alignedEnd
	if len(r.Cigar) > 0 {
		if first := r.Cigar[0]; first.Type() == sam.CigarSoftClipped {
			start -= region.PosType(first.Len())
		}
		if last := r.Cigar[len(r.Cigar)-1]; last.Type() == sam.CigarSoftClipped {
			end += region.PosType(last.Len())
		}
	}
	return region.New(r.Contig, start, end)
}

// StrandType classifies which strand a read-pair is aligned to.
type StrandType int

const (
	StrandNone StrandType = iota
	StrandFwd
	StrandRev
)

// Strand returns the strand this read-pair is aligned to, adapting
// pileup.GetStrand's flag algebra (grailbio-bio/pileup/common.go) to the
// sam.Flags this package already imports.
func (r Read) Strand() StrandType {
	flagStrand := r.Flags & (sam.Reverse | sam.MateReverse | sam.Read1 | sam.Read2)
	switch {
	case flagStrand == (sam.MateReverse|sam.Read1), flagStrand == (sam.Reverse|sam.Read2):
		return StrandFwd
	case flagStrand == (sam.Reverse|sam.Read1), flagStrand == (sam.MateReverse|sam.Read2):
		return StrandRev
	}
	return StrandNone
}
