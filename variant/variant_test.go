package variant_test

import (
	"testing"

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

func TestClassification(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	snp, err := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	require.NoError(t, err)
	assert.True(t, snp.IsSNP())
	assert.Equal(t, region.PosType(2), snp.ZeroIndexedVCFPosition())

	del, err := variant.New(&w, region.New("1", 2, 3), nil, false)
	require.NoError(t, err)
	assert.True(t, del.IsPureIndel())
	assert.True(t, del.IsDeletion())
	assert.Equal(t, region.PosType(1), del.ZeroIndexedVCFPosition())
}

func TestEmptyVariantRejected(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	_, err := variant.New(&w, region.New("1", 2, 2), nil, false)
	assert.Error(t, err)
}

func TestTrimmed(t *testing.T) {
	w := mustWindow(t, "AACGT")
	v, err := variant.New(&w, region.New("1", 0, 5), refwindow.Sequence("AATGT"), false)
	require.NoError(t, err)
	trimmed, err := v.Trimmed()
	require.NoError(t, err)
	assert.Equal(t, region.New("1", 2, 3), trimmed.Region())
	assert.Equal(t, "T", string(trimmed.Alt()))
}

func TestSplitMNP(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	v, err := variant.New(&w, region.New("1", 1, 3), refwindow.Sequence("CC"), false)
	require.NoError(t, err)
	require.True(t, v.IsMNP())
	parts, err := v.Split()
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].IsSNP())
	assert.Equal(t, region.New("1", 1, 2), parts[0].Region())
	assert.Equal(t, region.New("1", 2, 3), parts[1].Region())
}

func TestJoinAbutting(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	a, err := variant.New(&w, region.New("1", 1, 2), refwindow.Sequence("C"), false)
	require.NoError(t, err)
	b, err := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("G"), false)
	require.NoError(t, err)
	joined, err := a.Join(b)
	require.NoError(t, err)
	assert.Equal(t, region.New("1", 1, 3), joined.Region())
	assert.Equal(t, "CG", string(joined.Alt()))
}

func TestJoinNonAbuttingFails(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	a, err := variant.New(&w, region.New("1", 1, 2), refwindow.Sequence("C"), false)
	require.NoError(t, err)
	c, err := variant.New(&w, region.New("1", 3, 4), refwindow.Sequence("G"), false)
	require.NoError(t, err)
	_, err = a.Join(c)
	assert.ErrorIs(t, err, variant.ErrNotJoinable)
}

func TestDefaultPriorsByClass(t *testing.T) {
	w := mustWindow(t, "AAAAAAAAAA")
	snp, _ := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	snp.AssignDefaultPrior()
	assert.InDelta(t, 3.33e-4, snp.Prior(), 1e-9)

	del, _ := variant.New(&w, region.New("1", 2, 4), nil, false)
	del.AssignDefaultPrior()
	assert.InDelta(t, 1e-4*0.8*0.8, del.Prior(), 1e-9)
}

func TestAssignDefaultPriorIdempotent(t *testing.T) {
	w := mustWindow(t, "AAAAA")
	v, _ := variant.New(&w, region.New("1", 2, 3), refwindow.Sequence("C"), false)
	v.SetPrior(0.5)
	v.AssignDefaultPrior()
	assert.Equal(t, 0.5, v.Prior())
}

func TestLeftAlignDeletionInHomopolymer(t *testing.T) {
	// AAAA deletion of one A, initially placed at the rightmost A.
	w := mustWindow(t, "CAAAAG")
	v, err := variant.New(&w, region.New("1", 4, 5), nil, false)
	require.NoError(t, err)
	left, err := v.GetLeftAligned(0)
	require.NoError(t, err)
	assert.Equal(t, region.New("1", 1, 2), left.Region())
}

func TestLeftAlignTwiceIsNoOp(t *testing.T) {
	w := mustWindow(t, "CAAAAG")
	v, err := variant.New(&w, region.New("1", 4, 5), nil, false)
	require.NoError(t, err)
	once, err := v.GetLeftAligned(0)
	require.NoError(t, err)
	twice, err := once.GetLeftAligned(0)
	require.NoError(t, err)
	assert.Equal(t, once.Region(), twice.Region())
}
