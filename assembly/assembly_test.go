package assembly_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/assembly"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddReferenceAndSequenceShareNodes(t *testing.T) {
	g := assembly.NewGraph(5, 0)
	hasRepeat := g.AddReference([]byte("ACGTACGGT"), 0)
	require.False(t, hasRepeat)
	g.AddSequence([]byte("ACGTACGGT"), nil, true)
	chains := g.Chains()
	require.NotEmpty(t, chains)
	assert.Len(t, chains, 1)
}

func TestChainsReferenceOnlyIsSingleReferenceChain(t *testing.T) {
	g := assembly.NewGraph(5, 0)
	g.AddReference([]byte("ACGTACGGTAACGTG"), 100)
	chains := g.Chains()
	require.Len(t, chains, 1)
	found := false
	for _, c := range chains {
		if g.IsReferenceChain(c) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssembleFindsSNPFromReads(t *testing.T) {
	ref := []byte("ACGTACGGTAACGTGACCGTAGCATCGATCGATCGATGCATGCATCGATGCATCG")
	window, err := refwindow.NewWindow("chr1", 1000, refwindow.Sequence(ref))
	require.NoError(t, err)

	alt := append([]byte(nil), ref...)
	alt[27] = 'T' // mismatch at offset 27 (ref 'A'), with a full reference k-mer on either side

	qual := make([]byte, len(alt))
	for i := range qual {
		qual[i] = 40
	}

	var reads []read.Read
	for i := 0; i < 6; i++ {
		reads = append(reads, read.New("rg", "chr1", 1000, nil, alt, qual, 60, 0))
	}

	variants, err := assembly.Assemble(&window, reads)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "chr1", variants[0].Region().Contig)
	assert.Equal(t, int64(1027), int64(variants[0].Region().Start))
	assert.Equal(t, int64(1028), int64(variants[0].Region().End))
	assert.Equal(t, "T", string(variants[0].Alt()))
}
