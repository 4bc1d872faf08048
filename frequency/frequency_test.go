package frequency_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestEstimateNormalizesByColumnSum(t *testing.T) {
	L := mat.NewDense(2, 2, []float64{3, 1, 1, 3})
	freq, err := frequency.Estimate(L)
	require.NoError(t, err)
	require.Len(t, freq, 2)
	assert.InDelta(t, 0.5, freq[0]+freq[1]-freq[1], 1e-9)
	assert.InDelta(t, 1.0, freq[0]+freq[1], 1e-9)
}

func TestExcludingHaplotypeRenormalizes(t *testing.T) {
	freq := []float64{0.5, 0.3, 0.2}
	out := frequency.ExcludingHaplotype(freq, 0)
	assert.Equal(t, 0.0, out[0])
	assert.InDelta(t, 1.0, out[1]+out[2], 1e-9)
}

func TestSumRenormalizesAcrossSamples(t *testing.T) {
	combined := frequency.Sum([][]float64{{0.5, 0.5}, {0.2, 0.8}})
	assert.InDelta(t, 1.0, combined[0]+combined[1], 1e-9)
}
