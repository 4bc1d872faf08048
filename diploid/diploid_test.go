package diploid_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/diploid"
	"github.com/hybridgenomics/varcall/genotype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLogLikelihoodsFavorsGenotypeMatchingReads(t *testing.T) {
	// 4 reads, all strongly in favor of haplotype 1 over haplotype 0.
	L := mat.NewDense(4, 2, []float64{
		-10, -0.01,
		-10, -0.01,
		-10, -0.01,
		-10, -0.01,
	})
	genotypes := []genotype.Genotype{
		{HaplotypeIndices: []int{0, 0}},
		{HaplotypeIndices: []int{0, 1}},
		{HaplotypeIndices: []int{1, 1}},
	}
	lls := diploid.LogLikelihoods(L, genotypes)
	require.Len(t, lls, 3)
	post := diploid.Posteriors(lls)
	best := 0
	for i, p := range post {
		if p > post[best] {
			best = i
		}
	}
	assert.Equal(t, 2, best) // hom-alt (index 1,1) should win
}

func TestGenotypeQualityHighForConfidentCall(t *testing.T) {
	post := []float64{0.001, 0.001, 0.998}
	gq := diploid.GenotypeQuality(post)
	assert.Greater(t, gq, 20.0)
}
