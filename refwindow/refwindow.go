// Package refwindow implements the reference-window and base/quality
// sequence types. A reference window is a read-only, shared slab of
// reference bases over one contig; everything downstream (variant,
// haplotype, assembly) borrows sub-slices of it rather than copying.
package refwindow

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/hybridgenomics/varcall/region"
)

// complementTable maps an uppercase ASCII base to its Watson-Crick
// complement via a small lookup table rather than a switch per byte.
var complementTable = [256]byte{}

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	complementTable['A'] = 'T'
	complementTable['C'] = 'G'
	complementTable['G'] = 'C'
	complementTable['T'] = 'A'
	complementTable['N'] = 'N'
}

// Base is a single-character ASCII base.
type Base = byte

// Sequence is an ordered string over {A,C,G,T,N}.
type Sequence []byte

// Valid reports whether every byte in s is one of A/C/G/T/N.
func (s Sequence) Valid() bool {
	for _, b := range s {
		// Every byte outside A/C/G/T maps to 'N'; only 'N' itself is valid.
		if b != 'N' && complementTable[b] == 'N' {
			return false
		}
	}
	return true
}

func (s Sequence) String() string { return string(s) }

// ReverseComplement returns the reverse complement of s.
func (s Sequence) ReverseComplement() Sequence {
	out := make(Sequence, len(s))
	n := len(s)
	for i, b := range s {
		out[n-1-i] = complementTable[b]
	}
	return out
}

// QualSequence is a Phred quality value (0-93) per base, equal length to its
// companion Sequence.
type QualSequence []byte

const maxPhredQual = 93

// Window is a read-only reference window: a contig, a half-open [Start,End)
// interval, and the base sequence spanning it. All positions are zero-based.
type Window struct {
	Contig string
	Start  region.PosType
	Bases  Sequence
}

// NewWindow builds a Window, validating that bases only contains A/C/G/T/N.
func NewWindow(contig string, start region.PosType, bases Sequence) (Window, error) {
	if !bases.Valid() {
		return Window{}, errors.E(errors.Invalid, "refwindow: reference bases must be A/C/G/T/N")
	}
	return Window{Contig: contig, Start: start, Bases: bases}, nil
}

// End returns the exclusive end of the window.
func (w Window) End() region.PosType { return w.Start + region.PosType(len(w.Bases)) }

// Region returns the window's covering region.
func (w Window) Region() region.Region { return region.New(w.Contig, w.Start, w.End()) }

// Contains reports whether r lies entirely within the window.
func (w Window) Contains(r region.Region) bool {
	return r.Contig == w.Contig && r.Start >= w.Start && r.End <= w.End()
}

// Subsequence returns the reference bases covering r. It returns an
// error if r is not contained in the window.
func (w Window) Subsequence(r region.Region) (Sequence, error) {
	if !w.Contains(r) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("refwindow: region %v not contained in window %v", r, w.Region()))
	}
	lo := r.Start - w.Start
	hi := r.End - w.Start
	return w.Bases[lo:hi], nil
}

// Base returns the single reference base at pos.
func (w Window) Base(pos region.PosType) (Base, error) {
	r := region.New(w.Contig, pos, pos+1)
	seq, err := w.Subsequence(r)
	if err != nil {
		return 0, err
	}
	return seq[0], nil
}
