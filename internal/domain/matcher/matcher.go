package matcher

import (
	"strings"

	"github.com/corey/reel/internal/domain/ontology"
	"github.com/corey/reel/internal/ports"
)

const (
	// topK is the number of preferred-name matches retrieved per mention.
	topK = 10
	// perfectScore marks an exact (processed) label match.
	perfectScore = 100
	// chebiSynonymThreshold: ChEBI searches synonyms only below this score.
	chebiSynonymThreshold = 70
)

// Family selects the synonym fallback rule. The two ontology families
// differ deliberately and the difference is preserved.
type Family int

const (
	// FamilyChEBI searches synonyms when the best name scores below 70 and
	// appends every synonym that beats the best name.
	FamilyChEBI Family = iota
	// FamilyMeSH (MEDIC, CTD-Chemicals) searches synonyms whenever the best
	// name is not perfect; a perfect synonym replaces the whole list, other
	// synonyms that beat the best name are appended.
	FamilyMeSH
)

// FamilyFor returns the matching family of an ontology.
func FamilyFor(o ports.Ontology) Family {
	if o == ports.OntologyChEBI {
		return FamilyChEBI
	}
	return FamilyMeSH
}

// Match is a resolved candidate: ConceptID is ports.NIL when the label maps
// to no concept. Score is on the 0–1 scale.
type Match struct {
	ConceptID string
	Name      string
	Score     float64
}

// Matcher retrieves candidates from one ontology index.
type Matcher struct {
	index    *ontology.Index
	cache    *Cache
	family   Family
	names    []choice
	synonyms []choice
}

// New prepares a matcher over index. The token-sorted search space is
// computed once here.
func New(index *ontology.Index, cache *Cache) *Matcher {
	return &Matcher{
		index:    index,
		cache:    cache,
		family:   FamilyFor(index.Ontology),
		names:    newChoices(index.Names()),
		synonyms: newChoices(index.Synonyms()),
	}
}

// Match returns the ranked candidates for a mention.
//
// Lookup order: the cache under text, then under text minus a trailing "s".
// The singular fallback deliberately conflates plural/singular mentions to
// raise the hit rate, even where the two forms name distinct concepts.
// On a miss the raw result is computed and cached under text.
func (m *Matcher) Match(text string) []Match {
	raw, ok := m.cache.Get(text)
	if !ok && strings.HasSuffix(text, "s") {
		raw, ok = m.cache.Get(strings.TrimSuffix(text, "s"))
	}
	if !ok {
		if len(m.names) == 0 {
			return nil
		}
		raw = m.cache.GetOrCompute(text, func() []ports.RawMatch { return m.search(text) })
	}

	out := make([]Match, len(raw))
	for i, r := range raw {
		out[i] = Match{
			ConceptID: m.index.Resolve(r.Label),
			Name:      r.Label,
			Score:     r.Score / 100,
		}
	}
	return out
}

// search runs the uncached fuzzy search. The search space must be non-empty.
func (m *Matcher) search(text string) []ports.RawMatch {
	best := extract(text, m.names, topK)
	if best[0].Score == perfectScore {
		return best[:1]
	}

	switch m.family {
	case FamilyChEBI:
		if best[0].Score < chebiSynonymThreshold {
			floor := best[0].Score
			for _, s := range extract(text, m.synonyms, topK) {
				if s.Score > floor {
					best = append(best, s)
				}
			}
		}
	case FamilyMeSH:
		for _, s := range extract(text, m.synonyms, topK) {
			if s.Score == perfectScore {
				best = []ports.RawMatch{s}
			} else if s.Score > best[0].Score {
				best = append(best, s)
			}
		}
	}
	return best
}
