package assembly

import (
	"github.com/hybridgenomics/varcall/read"
	"github.com/hybridgenomics/varcall/refwindow"
	"github.com/hybridgenomics/varcall/variant"
)

// DefaultKmerSize and MaxKmerSize bound the k-mer escalation loop:
// assembly starts at DefaultKmerSize and, each time a repeat forces
// ambiguity, retries with the next odd k up to MaxKmerSize.
const (
	DefaultKmerSize = 21
	MaxKmerSize     = 81
	MinSupport      = 2
	MinEdgeBaseQual = 10
)

// Assemble builds candidate variants for one reference window from a
// reference sequence and a set of overlapping reads, escalating k whenever
// the graph built at the current k contains an unresolved repeat.
func Assemble(window *refwindow.Window, reads []read.Read) ([]variant.Variant, error) {
	var variants []variant.Variant
	var err error
	for k := DefaultKmerSize; k <= MaxKmerSize; k += 2 {
		g := NewGraph(k, MinEdgeBaseQual)
		g.AddReference([]byte(window.Bases), window.Start)
		for _, r := range reads {
			g.AddSequence(r.Sequence, r.Qualities, true)
		}
		if !g.HasRepeat() {
			variants, err = emitVariants(g, window)
			if err != nil {
				return nil, err
			}
			return variants, nil
		}
	}
	// Every k up to MaxKmerSize still produced a repeat; fall back to the
	// largest k attempted rather than returning nothing.
	g := NewGraph(MaxKmerSize, MinEdgeBaseQual)
	g.AddReference([]byte(window.Bases), window.Start)
	for _, r := range reads {
		g.AddSequence(r.Sequence, r.Qualities, true)
	}
	return emitVariants(g, window)
}

func emitVariants(g *Graph, window *refwindow.Window) ([]variant.Variant, error) {
	chains := g.Chains()
	paths := g.PathsBetweenRefNodes(chains, MinSupport)
	var out []variant.Variant
	seen := make(map[string]bool)
	for _, p := range paths {
		v, ok, err := g.VariantFromPath(p, window, window.Contig)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out, nil
}
