// Package assembly implements the k-mer sequence graph: a de Bruijn graph
// over reference and read k-mers, chain and path enumeration, and
// candidate alt-allele emission from bubbles.
//
// Nodes live in a single arena slice addressed by integer index, and
// edges are (fromIdx, base) -> toIdx, avoiding cyclic pointer structures
// between nodes.
package assembly

import (
	"github.com/dgryski/go-farm"
	"github.com/hybridgenomics/varcall/region"
)

// NodeIdx indexes into a Graph's node arena.
type NodeIdx int32

const invalidNode NodeIdx = -1

// edge is one outgoing edge from a node: the base consumed and the support
// (max observed base quality for that transition, clipped to 0 below the
// configured minimum).
type edge struct {
	to      NodeIdx
	support int
}

// node is one k-mer vertex in the arena.
type node struct {
	kmer     string
	incoming map[byte]struct{}
	outgoing map[byte]edge
	// refPositions holds every reference-strand position this k-mer occurs
	// at; empty if the k-mer was only observed in reads.
	refPositions []region.PosType
}

func newNode(kmer string) *node {
	return &node{
		kmer:     kmer,
		incoming: make(map[byte]struct{}),
		outgoing: make(map[byte]edge),
	}
}

// Graph is a de Bruijn graph over k-mers, backed by an arena of nodes
// indexed by NodeIdx; hashing is by FarmHash of the k-mer string (the same
// technique fusion/kmer_index.go uses for its k-mer table), avoiding Go's
// generic (and slower) string-map hashing for the hot index lookup.
type Graph struct {
	K int

	arena []*node
	index map[uint64][]NodeIdx

	minEdgeBaseQual int

	// hasRepeat is set if the same node was encountered twice within one
	// add, or at two different reference positions.
	hasRepeat bool
}

// NewGraph returns an empty graph with k-mer size k.
func NewGraph(k, minEdgeBaseQual int) *Graph {
	return &Graph{
		K:               k,
		index:           make(map[uint64][]NodeIdx),
		minEdgeBaseQual: minEdgeBaseQual,
	}
}

func (g *Graph) hashKey(kmer string) uint64 {
	return farm.Hash64([]byte(kmer))
}

// findOrCreate returns the arena index for kmer, creating a node if needed.
func (g *Graph) findOrCreate(kmer string) NodeIdx {
	key := g.hashKey(kmer)
	for _, idx := range g.index[key] {
		if g.arena[idx].kmer == kmer {
			return idx
		}
	}
	idx := NodeIdx(len(g.arena))
	g.arena = append(g.arena, newNode(kmer))
	g.index[key] = append(g.index[key], idx)
	return idx
}

// find returns the arena index for kmer, or invalidNode if absent.
func (g *Graph) find(kmer string) NodeIdx {
	key := g.hashKey(kmer)
	for _, idx := range g.index[key] {
		if g.arena[idx].kmer == kmer {
			return idx
		}
	}
	return invalidNode
}

func clipSupport(qual, min int) int {
	if qual < min {
		return 0
	}
	return qual
}

// addEdge records an edge u->v (v being the k-mer obtained by shifting u one
// base right), with support the observed base quality for the incoming
// base, clipped per minEdgeBaseQual.
func (g *Graph) addEdge(u, v NodeIdx, base byte, qual int) {
	support := clipSupport(qual, g.minEdgeBaseQual)
	un, vn := g.arena[u], g.arena[v]
	if e, ok := un.outgoing[base]; ok {
		if support > e.support {
			e.support = support
			un.outgoing[base] = e
		}
	} else {
		un.outgoing[base] = edge{to: v, support: support}
	}
	vn.incoming[un.kmer[0]] = struct{}{}
}

// AddSequence slides a k-mer window over seq (with parallel per-base quality
// quals, or nil to treat every base as max quality), inserting/updating
// nodes and edges. If disallowRepeats is set, it exits early and reports
// hasRepeat=true the moment the same node is revisited within this one
// call -- protecting the assembler from within-read cycles.
func (g *Graph) AddSequence(seq []byte, quals []byte, disallowRepeats bool) (hasRepeat bool) {
	if len(seq) < g.K+1 {
		return false
	}
	seen := make(map[NodeIdx]bool)
	prev := g.findOrCreate(string(seq[0:g.K]))
	if disallowRepeats {
		seen[prev] = true
	}
	for i := 1; i+g.K <= len(seq); i++ {
		cur := g.findOrCreate(string(seq[i : i+g.K]))
		if disallowRepeats {
			if seen[cur] {
				g.hasRepeat = true
				return true
			}
			seen[cur] = true
		}
		qual := 93
		if quals != nil && i+g.K-1 < len(quals) {
			qual = int(quals[i+g.K-1])
		}
		g.addEdge(prev, cur, seq[i+g.K-1], qual)
		prev = cur
	}
	return false
}

// AddReference is AddSequence, but additionally marks each node with its
// reference position (start of window + offset). Re-encountering a
// reference node at a different reference position indicates a repeat in
// the reference itself and is reported via the return value.
func (g *Graph) AddReference(seq []byte, start region.PosType) (hasRepeat bool) {
	if len(seq) < g.K {
		return false
	}
	first := g.findOrCreate(string(seq[0:g.K]))
	if !markRefPos(g.arena[first], start) {
		hasRepeat = true
	}
	prev := first
	for i := 1; i+g.K <= len(seq); i++ {
		cur := g.findOrCreate(string(seq[i : i+g.K]))
		pos := start + region.PosType(i)
		if !markRefPos(g.arena[cur], pos) {
			hasRepeat = true
		}
		g.addEdge(prev, cur, seq[i+g.K-1], 93)
		prev = cur
	}
	if hasRepeat {
		g.hasRepeat = true
	}
	return hasRepeat
}

// markRefPos records pos on n, returning false if pos differs from an
// already-recorded reference position (a repeat).
func markRefPos(n *node, pos region.PosType) bool {
	for _, p := range n.refPositions {
		if p == pos {
			return true
		}
	}
	if len(n.refPositions) > 0 {
		n.refPositions = append(n.refPositions, pos)
		return false
	}
	n.refPositions = append(n.refPositions, pos)
	return true
}

// HasRepeat reports whether any add operation on this graph observed a
// repeat; the caller (assembly driver) uses this to decide whether to
// escalate k.
func (g *Graph) HasRepeat() bool { return g.hasRepeat }

func (n *node) inDegree() int  { return len(n.incoming) }
func (n *node) outDegree() int { return len(n.outgoing) }

func (n *node) isBranch() bool {
	return n.inDegree() != 1 || n.outDegree() != 1
}

func (n *node) isReference() bool { return len(n.refPositions) > 0 }
