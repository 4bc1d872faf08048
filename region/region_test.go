package region_test

import (
	"testing"

	"github.com/hybridgenomics/varcall/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMergesOverlapping(t *testing.T) {
	var s region.Set
	s.Add(region.New("1", 10, 20))
	s.Add(region.New("1", 15, 25))
	s.Add(region.New("1", 100, 110))
	s.Add(region.New("2", 0, 5))

	require.Equal(t, 3, s.Len())
	assert.Equal(t, region.New("1", 10, 25), s.Regions()[0])
	assert.Equal(t, region.New("1", 100, 110), s.Regions()[1])
	assert.Equal(t, region.New("2", 0, 5), s.Regions()[2])
}

func TestSetAbuttingRegionsCoalesce(t *testing.T) {
	var s region.Set
	s.Add(region.New("1", 0, 10))
	s.Add(region.New("1", 10, 20))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, region.New("1", 0, 20), s.Regions()[0])
}

func TestSpanSingleContig(t *testing.T) {
	s := region.NewSet(region.New("1", 5, 10), region.New("1", 20, 30))
	assert.Equal(t, region.New("1", 5, 30), s.Span())
}

func TestOverlapsAndIntersect(t *testing.T) {
	a := region.New("1", 10, 20)
	b := region.New("1", 15, 25)
	assert.True(t, a.Overlaps(b))
	assert.Equal(t, region.New("1", 15, 20), a.Intersect(b))
	assert.False(t, a.Overlaps(region.New("1", 20, 30)))
	assert.True(t, a.Abuts(region.New("1", 20, 30)))
}
