package ports

// CandidateStore persists the fuzzy-match cache: for each ontology, a mapping
// from mention text to the ranked raw matches computed for it. The cache is a
// derived optimization, never a source of truth; callers treat a failed Load
// as an empty cache.
//
// Crash safety: Save must be transactional. A crash mid-write must not corrupt
// previously committed entries.
type CandidateStore interface {
	// Load returns every cached entry for the ontology.
	// Returns an empty map (not an error) if nothing was ever saved.
	Load(ontology Ontology) (map[string][]RawMatch, error)

	// Save upserts the given entries for the ontology. Entries not present in
	// the map are left untouched.
	Save(ontology Ontology, entries map[string][]RawMatch) error

	// Count reports how many entries are stored for the ontology.
	Count(ontology Ontology) (int, error)

	// Delete removes every entry for the ontology.
	// Idempotent: deleting an empty namespace is not an error.
	Delete(ontology Ontology) error

	// Close releases the underlying resources.
	Close() error
}
