package ports

import "context"

// Annotation is one gold-annotated (or free-text) mention as produced by an
// annotation source: the concept id (or NIL/none) and the surface text.
type Annotation struct {
	ConceptID string
	Text      string
}

// Corpus maps document ids to their ordered annotations, remembering the
// order in which documents were first seen. Document order determines the
// qid sequence number written into candidate files.
type Corpus struct {
	order []string
	docs  map[string][]Annotation
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docs: make(map[string][]Annotation)}
}

// Add appends an annotation to a document, registering the document on first use.
func (c *Corpus) Add(docID string, a Annotation) {
	if _, ok := c.docs[docID]; !ok {
		c.order = append(c.order, docID)
	}
	c.docs[docID] = append(c.docs[docID], a)
}

// Touch registers a document with no annotations (kept so document counts
// match the source).
func (c *Corpus) Touch(docID string) {
	if _, ok := c.docs[docID]; !ok {
		c.order = append(c.order, docID)
		c.docs[docID] = nil
	}
}

// Documents returns document ids in first-seen order.
func (c *Corpus) Documents() []string { return c.order }

// Annotations returns the annotations of one document.
func (c *Corpus) Annotations(docID string) []Annotation { return c.docs[docID] }

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.order) }

// AnnotationSource produces the corpus for a run.
type AnnotationSource interface {
	Annotations(ctx context.Context) (*Corpus, error)
}

// Relations records, per concept id, the set of concept ids an external
// relation extractor found related to it. Symmetry is not assumed.
type Relations map[string]map[string]struct{}

// Add records a → b.
func (r Relations) Add(a, b string) {
	set, ok := r[a]
	if !ok {
		set = make(map[string]struct{})
		r[a] = set
	}
	set[b] = struct{}{}
}

// Has reports whether a → b was recorded.
func (r Relations) Has(a, b string) bool {
	_, ok := r[a][b]
	return ok
}

// RelationSource produces the extracted relations for a run.
type RelationSource interface {
	Relations(ctx context.Context) (Relations, error)
}

// Ranker runs the external disambiguation engine over the candidate files of
// a run. It reads candidates/<label>/<linkMode>/ and <label>_ic and writes
// results/<label>/ppr_ic/<linkMode>/all_all.
type Ranker interface {
	Rank(ctx context.Context, runLabel string, model Model, linkMode LinkMode) error
}
