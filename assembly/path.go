package assembly

import (
	"container/heap"

	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/region"
	"github.com/hybridgenomics/varcall/variant"
)

// MaxPathsPerEndpoint caps how many completed paths a single reference
// endpoint pair can contribute, bounding the combinatorial blow-up of a
// highly branched graph.
const MaxPathsPerEndpoint = 20

// pathState is one partial path during best-first expansion.
type pathState struct {
	chains  []Chain
	endSeq  string
	support int // running min-of-maxima support
}

// pathHeap is a max-heap on endSeq: among partial paths still in flight,
// expansion favors the lexicographically greatest current end sequence
// first.
type pathHeap []pathState

func (h pathHeap) Len() int            { return len(h) }
func (h pathHeap) Less(i, j int) bool  { return h[i].endSeq > h[j].endSeq }
func (h pathHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x interface{}) { *h = append(*h, x.(pathState)) }
func (h *pathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Path is a completed reference-to-reference path: a sequence of alt-chains
// bridging two reference-node chain endpoints.
type Path struct {
	Chains  []Chain
	Support int
}

// PathsBetweenRefNodes performs a best-first expansion over alt-to-alt
// chains of matching junction, starting from each chain whose first node is
// a reference node, accumulating up to MaxPathsPerEndpoint distinct paths
// per endpoint. A path is retained only if its aggregate support (min over
// the chain maxima) meets minSupport.
func (g *Graph) PathsBetweenRefNodes(chains []Chain, minSupport int) []Path {
	// byFrom groups candidate next-chains by the node they start from,
	// so expansion can find "the chains departing this node" in O(1).
	byFrom := make(map[NodeIdx][]Chain)
	for _, c := range chains {
		byFrom[c.First()] = append(byFrom[c.First()], c)
	}

	var results []Path
	for _, start := range chains {
		if !g.IsReferenceChain(start) {
			continue
		}
		h := &pathHeap{{chains: []Chain{start}, endSeq: start.Sequence(), support: supportOrMax(start)}}
		heap.Init(h)
		found := 0
		for h.Len() > 0 && found < MaxPathsPerEndpoint {
			cur := heap.Pop(h).(pathState)
			last := cur.chains[len(cur.chains)-1]
			if g.IsReferenceChain(last) && len(cur.chains) > 1 {
				if cur.support >= minSupport {
					results = append(results, Path{Chains: append([]Chain(nil), cur.chains...), Support: cur.support})
					found++
				}
				continue
			}
			for _, next := range byFrom[last.Last()] {
				sup := minInt(cur.support, supportOrMax(next))
				heap.Push(h, pathState{
					chains:  append(append([]Chain(nil), cur.chains...), next),
					endSeq:  next.Sequence(),
					support: sup,
				})
			}
		}
	}
	return results
}

func supportOrMax(c Chain) int {
	if len(c.nodes) == 1 {
		return 0
	}
	return c.Support()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// VariantFromPath builds the candidate variant a path represents: the
// concatenated chain sequence is the alt; the reference sub-interval runs
// from the path's start reference position to its end reference position,
// extended by k to cover the final k-mer. The raw variant is trimmed and
// left-aligned; if trimming empties it, the path produces no variant (ok
// is false).
func (g *Graph) VariantFromPath(p Path, window *refwindow.Window, contig string) (v variant.Variant, ok bool, err error) {
	firstNode := g.arena[p.Chains[0].First()]
	lastNode := g.arena[p.Chains[len(p.Chains)-1].Last()]
	if len(firstNode.refPositions) == 0 || len(lastNode.refPositions) == 0 {
		return variant.Variant{}, false, nil
	}
	start := firstNode.refPositions[0]
	end := lastNode.refPositions[0] + region.PosType(g.K)

	var alt []byte
	for i, c := range p.Chains {
		seq := c.Sequence()
		if i == 0 {
			alt = append(alt, seq...)
		} else {
			alt = append(alt, seq[g.K:]...)
		}
	}

	raw, err := variant.New(window, region.New(contig, start, end), refwindow.Sequence(alt), false)
	if err != nil {
		return variant.Variant{}, false, err
	}
	trimmed, err := raw.Trimmed()
	if err != nil {
		return variant.Variant{}, false, err
	}
	if trimmed.Empty() {
		return variant.Variant{}, false, nil
	}
	left, err := trimmed.GetLeftAligned(window.Start)
	if err != nil {
		return variant.Variant{}, false, err
	}
	left.SetFromBreakpoint()
	return left, true, nil
}
