package assembly

// Chain is a maximal walk n_0..n_m between two branch nodes (or graph
// terminals), where every intermediate node has exactly one in- and one
// out-edge.
type Chain struct {
	nodes   []NodeIdx
	support int
	seq     string
}

// Support is the max edge support along the chain (0 if the chain is a
// single node).
func (c Chain) Support() int { return c.support }

// Sequence is the chain's concatenated sequence: the start k-mer followed
// by the last character of every subsequent node.
func (c Chain) Sequence() string { return c.seq }

// First/Last return the chain's endpoint node indices.
func (c Chain) First() NodeIdx { return c.nodes[0] }
func (c Chain) Last() NodeIdx  { return c.nodes[len(c.nodes)-1] }

// Chains enumerates every maximal chain in the graph: walks starting at a
// branch (or terminal) node's outgoing edge and following single-in/single-
// out nodes until the next branch or terminal is reached.
func (g *Graph) Chains() []Chain {
	var out []Chain
	visitedStart := make(map[NodeIdx]map[byte]bool)
	for idx, n := range g.arena {
		from := NodeIdx(idx)
		if !n.isBranch() && n.inDegree() == 1 {
			continue // not a valid chain start; will be reached as an interior node
		}
		for base, e := range n.outgoing {
			if visitedStart[from] != nil && visitedStart[from][base] {
				continue
			}
			chain := g.walkChain(from, base)
			if visitedStart[from] == nil {
				visitedStart[from] = make(map[byte]bool)
			}
			visitedStart[from][base] = true
			_ = e
			out = append(out, chain)
		}
	}
	// Graphs that are a single cycle with no branch node produce no valid
	// start above; each node's single outgoing edge is still walked once.
	if len(out) == 0 {
		for idx, n := range g.arena {
			if n.outDegree() == 1 {
				for base := range n.outgoing {
					out = append(out, g.walkChain(NodeIdx(idx), base))
				}
				break
			}
		}
	}
	return out
}

func (g *Graph) walkChain(start NodeIdx, firstBase byte) Chain {
	nodes := []NodeIdx{start}
	maxSupport := 0
	seq := g.arena[start].kmer

	cur := start
	base := firstBase
	for {
		e := g.arena[cur].outgoing[base]
		if e.support > maxSupport {
			maxSupport = e.support
		}
		next := e.to
		nodes = append(nodes, next)
		seq += string(g.arena[next].kmer[len(g.arena[next].kmer)-1])
		cur = next
		if cur == start || g.arena[cur].isBranch() {
			break
		}
		// single in/out interior node: continue through its one outgoing edge
		var nb byte
		for b := range g.arena[cur].outgoing {
			nb = b
		}
		base = nb
	}
	return Chain{nodes: nodes, support: maxSupport, seq: seq}
}

// IsAltSequence reports whether a chain qualifies as a candidate alt-allele
// chain: neither endpoint is terminal, and no interior node is a reference
// node.
func (g *Graph) IsAltSequence(c Chain) bool {
	first, last := g.arena[c.First()], g.arena[c.Last()]
	if first.inDegree() == 0 || last.outDegree() == 0 {
		return false
	}
	for _, idx := range c.nodes[1 : len(c.nodes)-1] {
		if g.arena[idx].isReference() {
			return false
		}
	}
	return true
}

// IsReferenceChain reports whether the chain's first node is on the
// reference strand -- the entry point used by path enumeration.
func (g *Graph) IsReferenceChain(c Chain) bool {
	return g.arena[c.First()].isReference()
}
