package read_test

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedEndFromCigar(t *testing.T) {
	cigar := sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 5),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
	}
	r := read.New("rg", "1", 10, cigar, []byte("AAAAAGGAAA"), []byte{30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, 60, 0)
	assert.Equal(t, region.PosType(18), r.End())
}

func TestFilterPipeline(t *testing.T) {
	r := read.New("rg", "1", 0, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 4)}, []byte("AAAA"), []byte{10, 10, 10, 10}, 10, 0)
	pipeline := read.Pipeline{
		{Kind: read.FilterMappingQuality, MinMappingQual: 20},
	}
	out := pipeline.Apply([]read.Read{r})
	require.Len(t, out, 0)
}
