package align_test

import (
	"math"
	"testing"

	"github.com/hybridgenomics/varcall/align"
	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignToSequencePerfectMatchScoresHighest(t *testing.T) {
	seq := []byte("ACGTACGTACGT")
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 40
	}
	perfect := align.AlignToSequence(align.DefaultScorer, seq, seq, qual)

	mismatched := append([]byte(nil), seq...)
	mismatched[5] = 'T'
	if mismatched[5] == seq[5] {
		mismatched[5] = 'A'
	}
	worse := align.AlignToSequence(align.DefaultScorer, seq, mismatched, qual)

	assert.Greater(t, perfect, worse)
}

func TestLikelihoodMatrixSmoothsLowOutliers(t *testing.T) {
	bases := []byte("ACGTACGTACGTACGTACGTACGTACGTACGT")
	window, err := refwindow.NewWindow("chr1", 0, refwindow.Sequence(bases))
	require.NoError(t, err)

	refHap, err := haplotype.New(&window, mustSet(region.New("chr1", 10, 20)), nil, 5, 5)
	require.NoError(t, err)

	v, err := variant.New(&window, region.New("chr1", 12, 13), refwindow.Sequence("T"), true)
	require.NoError(t, err)
	altHap, err := haplotype.New(&window, mustSet(region.New("chr1", 10, 20)), []variant.Variant{v}, 5, 5)
	require.NoError(t, err)

	qual := make([]byte, 10)
	for i := range qual {
		qual[i] = 40
	}
	r := read.New("rg", "chr1", 10, nil, bases[10:20], qual, 60, 0)

	L := align.LikelihoodMatrix(align.DefaultScorer, []haplotype.Haplotype{refHap, altHap}, []read.Read{r})
	rows, cols := L.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)

	// Mapping quality 60 floors every entry at 6*ln(10) below the row max.
	best := math.Max(L.At(0, 0), L.At(0, 1))
	floor := best - 6*math.Ln10
	for c := 0; c < cols; c++ {
		assert.True(t, L.At(0, c) >= floor-1e-9)
	}
}

func mustSet(r region.Region) region.Set {
	var s region.Set
	s.Add(r)
	return s
}
