package ontology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corey/reel/internal/ports"
)

// Codec re-encodes concept ids into the integer ids required by the candidate
// file format. The encoding is lossy: MeSH tree letters and namespaces are
// dropped, so there is no way back from the integer.
type Codec interface {
	Encode(conceptID string) (int, error)
}

// CodecFor returns the codec of an ontology family.
func CodecFor(o ports.Ontology) Codec {
	switch o {
	case ports.OntologyChEBI:
		return chebiCodec{}
	default:
		return meshCodec{}
	}
}

// chebiCodec keeps the integer after the namespace separator:
// CHEBI_15377 and CHEBI:15377 both encode to 15377.
type chebiCodec struct{}

func (chebiCodec) Encode(id string) (int, error) {
	i := strings.LastIndexAny(id, ":_")
	if i < 0 {
		return 0, fmt.Errorf("%w: chebi id %q has no namespace separator", ports.ErrMalformedRecord, id)
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: chebi id %q: %v", ports.ErrMalformedRecord, id, err)
	}
	return n, nil
}

// meshCodec strips a one-letter MeSH tree prefix (D or C): D001943 → 1943,
// C112297 → 112297. Purely numeric ids (OMIM, the MEDIC root) are parsed as
// is. A lone letter is the residue of a namespace root and maps to 0.
type meshCodec struct{}

func (meshCodec) Encode(id string) (int, error) {
	switch {
	case id == "":
		return 0, fmt.Errorf("%w: empty mesh id", ports.ErrMalformedRecord)
	case len(id) == 1 && isLetter(id[0]):
		return 0, nil
	case id[0] == 'D' || id[0] == 'C':
		id = id[1:]
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%w: mesh id %q: %v", ports.ErrMalformedRecord, id, err)
	}
	return n, nil
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
