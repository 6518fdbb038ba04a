// Package disambig writes the per-document disambiguation graph consumed by
// the external ranker: one ENTITY record per mention followed by its
// CANDIDATE records, each candidate carrying the numeric ids of the
// candidates of other mentions it is linked to.
package disambig

import (
	"github.com/corey/reel/internal/domain/ontology"
	"github.com/corey/reel/internal/ports"
)

// Linked reports whether two candidate concepts of different mentions are
// connected under mode. rel may be nil for modes that do not use it.
func Linked(mode ports.LinkMode, c1, c2 string, g *ontology.Graph, rel ports.Relations) bool {
	switch mode {
	case ports.LinkKB:
		return kbLinked(c1, c2, g)
	case ports.LinkCorpus:
		return corpusLinked(c1, c2, rel)
	case ports.LinkKBCorpus:
		return kbLinked(c1, c2, g) || corpusLinked(c1, c2, rel)
	}
	return false
}

// kbLinked: same concept, or an is-a edge in either direction.
func kbLinked(c1, c2 string, g *ontology.Graph) bool {
	return c1 == c2 || g.HasEdge(c1, c2) || g.HasEdge(c2, c1)
}

// corpusLinked: an extracted relation recorded under either concept.
func corpusLinked(c1, c2 string, rel ports.Relations) bool {
	return rel.Has(c1, c2) || rel.Has(c2, c1)
}
