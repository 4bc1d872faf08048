package varqual_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
	"github.com/hybridgenomics/varcall/varqual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityZeroWhenVariantAbsent(t *testing.T) {
	bases := []byte("ACGTACGTACGTACGTACGT")
	window, err := refwindow.NewWindow("chr1", 0, refwindow.Sequence(bases))
	require.NoError(t, err)

	var hv haplotype.Vector
	refHap, err := haplotype.New(&window, regionSet(region.New("chr1", 5, 15)), nil, 2, 2)
	require.NoError(t, err)
	hv.Push(refHap, "ref")
	hv.Merge()

	v, err := variant.New(&window, region.New("chr1", 6, 7), refwindow.Sequence("T"), true)
	require.NoError(t, err)

	q := varqual.Quality([]float64{1.0}, &hv, v)
	assert.Equal(t, 0.0, q)
}

func regionSet(r region.Region) region.Set {
	var s region.Set
	s.Add(r)
	return s
}
