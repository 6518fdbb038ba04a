// Package corpus implements ports.AnnotationSource for the supported corpus
// formats: free-text JSON input, PubTator and BioC XML (BC5CDR) and BRAT
// standoff (CRAFT). Any file ending in ".gz" is decompressed on the fly.
package corpus

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// InputFile reads free-text input: a JSON object mapping document ids to
// lists of mention strings. Mentions carry no gold annotation.
type InputFile struct {
	Path string
}

// Annotations implements ports.AnnotationSource. Documents keep the order
// of the file's keys; a repeated key keeps its first position and its last
// mention list.
func (s InputFile) Annotations(ctx context.Context) (*ports.Corpus, error) {
	data, err := fsio.ReadAll(s.Path)
	if err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}
	ids, in, err := decodeOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("%w: input file %s: %v", ports.ErrMalformedRecord, s.Path, err)
	}

	c := ports.NewCorpus()
	for _, id := range ids {
		c.Touch(id)
		for _, text := range in[id] {
			c.Add(id, ports.Annotation{ConceptID: ports.UnknownConcept, Text: text})
		}
	}
	return c, ctx.Err()
}

// decodeOrdered decodes a {doc: [mentions]} object, returning the keys in
// file order alongside the values.
func decodeOrdered(data []byte) ([]string, map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}

	var ids []string
	in := make(map[string][]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected a document id, got %v", tok)
		}
		var mentions []string
		if err := dec.Decode(&mentions); err != nil {
			return nil, nil, fmt.Errorf("document %q: %w", id, err)
		}
		if _, seen := in[id]; !seen {
			ids = append(ids, id)
		}
		in[id] = mentions
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return ids, in, nil
}
