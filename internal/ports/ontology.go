// Package ports defines the interfaces (contracts) that adapters must implement
// and the plain data types shared across the pipeline. These are the boundaries
// of the hexagonal architecture: domain logic depends only on this package,
// never on concrete storage, corpus or ranker implementations.
package ports

import (
	"fmt"
	"strings"
)

// NIL is the sentinel concept id meaning "no ontology concept exists".
const NIL = "NIL"

// UnknownConcept is the gold id given to mentions read from free-text input,
// where no gold annotation is available.
const UnknownConcept = "none"

// Ontology names one of the supported target knowledge bases.
type Ontology string

const (
	OntologyChEBI        Ontology = "chebi"
	OntologyMEDIC        Ontology = "medic"
	OntologyCTDChemicals Ontology = "ctd_chem"
)

// Ontologies lists every supported target, in CLI order.
var Ontologies = []Ontology{OntologyChEBI, OntologyCTDChemicals, OntologyMEDIC}

// ParseOntology resolves a CLI/config name. "ctd_chemicals" is accepted as an
// alias of "ctd_chem".
func ParseOntology(name string) (Ontology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chebi":
		return OntologyChEBI, nil
	case "medic":
		return OntologyMEDIC, nil
	case "ctd_chem", "ctd_chemicals":
		return OntologyCTDChemicals, nil
	}
	return "", fmt.Errorf("%w: %q (valid: chebi, ctd_chem, medic)", ErrUnknownOntology, name)
}

// EntityType is the predicted type written into candidate files.
func (o Ontology) EntityType() EntityType {
	if o == OntologyMEDIC {
		return EntityDisease
	}
	return EntityChemical
}

// EntityType is the coarse semantic type of a mention.
type EntityType string

const (
	EntityChemical EntityType = "chemical"
	EntityDisease  EntityType = "disease"
)

// CorpusLabel is the capitalised form used by corpus files and relation file
// names ("Chemical", "Disease").
func (t EntityType) CorpusLabel() string {
	if t == EntityDisease {
		return "Disease"
	}
	return "Chemical"
}

// Model selects how mentions are finally disambiguated.
type Model string

const (
	// ModelBaseline picks the best lexical candidate; no ranker is run.
	ModelBaseline Model = "baseline"
	// ModelPPRIC writes disambiguation graphs and runs the external
	// Personalized PageRank + information content ranker.
	ModelPPRIC Model = "ppr_ic"
)

// ParseModel validates a model name.
func ParseModel(name string) (Model, error) {
	switch Model(name) {
	case ModelBaseline, ModelPPRIC:
		return Model(name), nil
	}
	return "", fmt.Errorf("%w: %q (valid: baseline, ppr_ic)", ErrInvalidModel, name)
}

// RawMatch is one (label, score) pair as produced by the fuzzy matcher before
// it is resolved to a concept id. Score is on the 0–100 scale. This is the
// unit persisted by CandidateStore.
type RawMatch struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// LinkMode selects which candidate pairs are connected in a disambiguation graph.
type LinkMode string

const (
	LinkNone     LinkMode = "none"
	LinkKB       LinkMode = "kb_link"
	LinkCorpus   LinkMode = "corpus_link"
	LinkKBCorpus LinkMode = "kb_corpus_link"
)

// ParseLinkMode validates a link mode name.
func ParseLinkMode(name string) (LinkMode, error) {
	switch LinkMode(name) {
	case LinkNone, LinkKB, LinkCorpus, LinkKBCorpus:
		return LinkMode(name), nil
	}
	return "", fmt.Errorf("%w: %q (valid: none, kb_link, corpus_link, kb_corpus_link)", ErrInvalidLinkMode, name)
}

// UsesRelations reports whether the mode consults extracted relations.
func (m LinkMode) UsesRelations() bool {
	return m == LinkCorpus || m == LinkKBCorpus
}
