package ontology

import "github.com/corey/reel/internal/ports"

// Index is the common shape every ontology source is normalized into.
type Index struct {
	Ontology ports.Ontology
	Graph    *Graph

	nameToID    map[string]string
	synonymToID map[string]string
	names       []string // insertion order, used as the fuzzy search space
	synonyms    []string
}

// NewIndex returns an empty index for the given ontology.
func NewIndex(o ports.Ontology) *Index {
	return &Index{
		Ontology:    o,
		Graph:       NewGraph(),
		nameToID:    make(map[string]string),
		synonymToID: make(map[string]string),
	}
}

// AddName maps a preferred label to id. A repeated label keeps its original
// position in the search space and takes the newer id.
func (x *Index) AddName(name, id string) {
	if _, ok := x.nameToID[name]; !ok {
		x.names = append(x.names, name)
	}
	x.nameToID[name] = id
}

// AddSynonym maps an alternate label to id. Collisions overwrite: the last
// concept to claim a synonym wins. This loses the earlier mapping silently
// and is kept for compatibility with existing caches and results.
func (x *Index) AddSynonym(synonym, id string) {
	if _, ok := x.synonymToID[synonym]; !ok {
		x.synonyms = append(x.synonyms, synonym)
	}
	x.synonymToID[synonym] = id
}

// nameID looks up a preferred label.
func (x *Index) nameID(name string) (string, bool) {
	id, ok := x.nameToID[name]
	return id, ok
}

// synonymID looks up an alternate label.
func (x *Index) synonymID(synonym string) (string, bool) {
	id, ok := x.synonymToID[synonym]
	return id, ok
}

// Resolve maps a label to a concept id, preferring preferred labels over
// synonyms. Unknown labels resolve to ports.NIL.
func (x *Index) Resolve(label string) string {
	if id, ok := x.nameID(label); ok {
		return id
	}
	if id, ok := x.synonymID(label); ok {
		return id
	}
	return ports.NIL
}

// Names returns every preferred label in insertion order. Callers must not
// modify the returned slice.
func (x *Index) Names() []string { return x.names }

// Synonyms returns every alternate label in insertion order. Callers must not
// modify the returned slice.
func (x *Index) Synonyms() []string { return x.synonyms }
