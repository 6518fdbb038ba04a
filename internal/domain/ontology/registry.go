package ontology

import (
	"fmt"
	"io"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// Loader parses one ontology source into an Index.
type Loader func(r io.Reader) (*Index, error)

var loaders = map[ports.Ontology]Loader{
	ports.OntologyChEBI:        LoadChEBI,
	ports.OntologyMEDIC:        LoadMEDIC,
	ports.OntologyCTDChemicals: LoadCTDChemicals,
}

// Registry resolves ontology names to source files and loads them.
type Registry struct {
	sources map[ports.Ontology]string
}

// NewRegistry binds each ontology to its source path.
func NewRegistry(sources map[ports.Ontology]string) *Registry {
	return &Registry{sources: sources}
}

// Load parses the ontology's source file. A missing file is fatal: there is
// no substitute source.
func (r *Registry) Load(o ports.Ontology) (*Index, error) {
	load, ok := loaders[o]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnknownOntology, o)
	}
	path, ok := r.sources[o]
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: no source file configured for %s", ports.ErrMissingResource, o)
	}

	rc, err := fsio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	idx, err := load(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", o, path, err)
	}
	return idx, nil
}
