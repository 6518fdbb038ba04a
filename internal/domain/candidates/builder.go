// Package candidates turns mentions into ranked, graph-annotated candidate
// lists and keeps the accuracy bookkeeping of the lexical baseline.
package candidates

import (
	"strings"

	"github.com/corey/reel/internal/domain/matcher"
	"github.com/corey/reel/internal/domain/ontology"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// DefaultMinScore is the similarity a match must exceed to become a candidate.
const DefaultMinScore = 0.5

// Candidate is one ontology concept proposed for a mention.
type Candidate struct {
	ConceptID string
	Name      string
	Score     float64
	InDegree  int
	OutDegree int
	// NumericID is the family-specific integer form of ConceptID.
	NumericID int
}

// Mention is one deduplicated entity mention of a document.
type Mention struct {
	DocumentID string
	// DocIndex is the position of the document in the corpus.
	DocIndex int
	Text     string
	// Normalized is the lowercased text, the dedup key within a document.
	Normalized string
	Gold       string
}

// NewMention builds a mention from an annotation.
func NewMention(docID string, docIndex int, a ports.Annotation) Mention {
	return Mention{
		DocumentID: docID,
		DocIndex:   docIndex,
		Text:       a.Text,
		Normalized: strings.ToLower(a.Text),
		Gold:       a.ConceptID,
	}
}

// HasGold reports whether the mention carries a gold concept to rank against.
// Free-text input carries ports.UnknownConcept instead.
func (m Mention) HasGold() bool { return m.Gold != ports.UnknownConcept }

// IsNIL reports whether a gold id marks a mention with no correct concept.
func IsNIL(goldID string) bool {
	return goldID == "" || goldID == "-1" || goldID == ports.NIL
}

// Matcher retrieves raw ranked matches for mention text.
type Matcher interface {
	Match(text string) []matcher.Match
}

// Builder assembles candidate lists for one ontology.
type Builder struct {
	index    *ontology.Index
	matcher  Matcher
	codec    ontology.Codec
	minScore float64
	log      logging.Logger
}

// NewBuilder creates a builder. A non-positive minScore selects
// DefaultMinScore.
func NewBuilder(index *ontology.Index, m Matcher, minScore float64, log logging.Logger) *Builder {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Builder{
		index:    index,
		matcher:  m,
		codec:    ontology.CodecFor(index.Ontology),
		minScore: minScore,
		log:      log,
	}
}

// Build returns the candidates of a mention and whether its gold concept
// ranked first.
//
// Matches resolving to NIL, scoring at or below the minimum, or carrying an
// id the ontology codec rejects are dropped. When the gold concept survives
// it is moved to the front, the rest keeping their order; when it does not,
// the list is empty. Mentions without gold keep the matcher's order.
func (b *Builder) Build(m Mention) ([]Candidate, bool) {
	matches := b.matcher.Match(m.Normalized)

	out := make([]Candidate, 0, len(matches))
	rank := -1
	for _, mt := range matches {
		if mt.ConceptID == ports.NIL || mt.Score <= b.minScore {
			continue
		}
		n, err := b.codec.Encode(mt.ConceptID)
		if err != nil {
			b.log.Debug("candidate id rejected",
				logging.String("concept_id", mt.ConceptID), logging.Err(err))
			continue
		}
		out = append(out, Candidate{
			ConceptID: mt.ConceptID,
			Name:      mt.Name,
			Score:     mt.Score,
			InDegree:  b.index.Graph.InDegree(mt.ConceptID),
			OutDegree: b.index.Graph.OutDegree(mt.ConceptID),
			NumericID: n,
		})
		if mt.ConceptID == m.Gold {
			rank = len(out) - 1
		}
	}

	if !m.HasGold() {
		return out, false
	}
	if rank < 0 {
		return nil, false
	}
	return promote(out, rank), rank == 0
}

// promote moves out[i] to the front, keeping the order of the rest.
func promote(out []Candidate, i int) []Candidate {
	if i == 0 {
		return out
	}
	res := make([]Candidate, 0, len(out))
	res = append(res, out[i])
	res = append(res, out[:i]...)
	return append(res, out[i+1:]...)
}
