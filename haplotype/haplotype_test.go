package haplotype_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/haplotype"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, bases string) refwindow.Window {
	t.Helper()
	w, err := refwindow.NewWindow("1", 0, refwindow.Sequence(bases))
	require.NoError(t, err)
	return w
}

func TestHaplotypeAppliesSNP(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	snp, err := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	require.NoError(t, err)

	regions := region.NewSet(region.New("1", 0, 5))
	h, err := haplotype.New(&w, regions, []variant.Variant{snp}, 0, 0)
	require.NoError(t, err)
	require.Len(t, h.PaddedSequences(), 1)
	assert.Equal(t, "AACAA", string(h.PaddedSequences()[0]))
	assert.True(t, h.ContainsVariant(snp))
	assert.False(t, h.IsReferenceAt(region.New("1", 2, 3)))
	assert.True(t, h.IsReferenceAt(region.New("1", 0, 2)))
}

func TestHaplotypeRejectsOverlappingVariants(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	a, _ := variant.New(&w, region.New("1", 1, 3), refwindow.Sequence("CC"), false)
	b, _ := variant.New(&w, region.New("1", 2, 4), refwindow.Sequence("GG"), false)
	regions := region.NewSet(region.New("1", 0, 5))
	_, err := haplotype.New(&w, regions, []variant.Variant{a, b}, 0, 0)
	assert.Error(t, err)
}

func TestVectorMergeDedupsEqualHaplotypes(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	snp, _ := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	regions := region.NewSet(region.New("1", 0, 5))
	h1, err := haplotype.New(&w, regions, []variant.Variant{snp}, 0, 0)
	require.NoError(t, err)
	h2, err := haplotype.New(&w, regions, []variant.Variant{snp}, 0, 0)
	require.NoError(t, err)

	var v haplotype.Vector
	v.Push(h1, "a")
	v.Push(h2, "b")
	v.Merge()
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, "a", v.ID(0))
}

func TestVectorIndicesContainingVariant(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	snp, _ := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	regions := region.NewSet(region.New("1", 0, 5))
	ref, err := haplotype.New(&w, regions, nil, 0, 0)
	require.NoError(t, err)
	alt, err := haplotype.New(&w, regions, []variant.Variant{snp}, 0, 0)
	require.NoError(t, err)

	var v haplotype.Vector
	v.Push(ref, "ref")
	v.Push(alt, "alt")
	assert.Equal(t, []int{1}, v.IndicesContainingVariant(snp))
	assert.Equal(t, []int{0}, v.IndicesThatAreReferenceAt(region.New("1", 2, 3)))
}
