package region

import "github.com/biogo/store/llrb"

// indexEntry adapts a Region for ordered storage in an llrb.Tree, ordering
// by Region.Less.
type indexEntry struct{ region Region }

// Compare implements llrb.Comparable.
func (e indexEntry) Compare(other llrb.Comparable) int {
	o := other.(indexEntry)
	switch {
	case e.region.Less(o.region):
		return -1
	case o.region.Less(e.region):
		return 1
	default:
		return 0
	}
}

// Index is an ordered index of regions backed by a left-leaning red-black
// tree (github.com/biogo/store/llrb, the same tree the teacher's
// cmd/bio-bam-sort/sorter and encoding/bampair packages use for ordered
// shard/record lookups). It supports the nearest-preceding-region query the
// cluster driver uses to decide whether consecutive clusters are actually
// adjacent before carrying run state forward between them.
type Index struct {
	tree llrb.Tree
}

// Insert adds r to the index.
func (ix *Index) Insert(r Region) {
	ix.tree.Insert(indexEntry{r})
}

// Floor returns the region ordered immediately at or before r (by
// Region.Less), and whether one exists.
func (ix *Index) Floor(r Region) (Region, bool) {
	c := ix.tree.Floor(indexEntry{r})
	if c == nil {
		return Region{}, false
	}
	return c.(indexEntry).region, true
}
