// Package relations implements ports.RelationSource: pre-extracted relation
// maps stored as JSON, and chemical-disease co-association imported from the
// CID lines of BC5CDR PubTator files.
package relations

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// FileName is the relation map file read for an ontology.
func FileName(o ports.Ontology) string {
	if o == ports.OntologyChEBI {
		return "chebi_relations.json"
	}
	return o.EntityType().CorpusLabel() + "_relations.json"
}

// JSONFile reads a relation map: a JSON object from concept id to the list of
// related concept ids. Relations are kept in the direction recorded.
type JSONFile struct {
	Path string
}

// Relations implements ports.RelationSource.
func (s JSONFile) Relations(ctx context.Context) (ports.Relations, error) {
	data, err := fsio.ReadAll(s.Path)
	if err != nil {
		return nil, fmt.Errorf("relations: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: relations %s: %v", ports.ErrMalformedRecord, s.Path, err)
	}
	rel := make(ports.Relations, len(raw))
	for a, bs := range raw {
		for _, b := range bs {
			rel.Add(a, b)
		}
	}
	return rel, ctx.Err()
}

// CDR derives relations from BC5CDR chemical-induced-disease annotations:
//
//	<pmid>\tCID\t<chemical id>\t<disease id>
//
// Two diseases are related when they are induced by the same chemical; two
// chemicals are related when they induce the same disease. EntityType picks
// which side is related. Relations are symmetric.
type CDR struct {
	Paths      []string
	EntityType ports.EntityType
}

// Relations implements ports.RelationSource.
func (s CDR) Relations(ctx context.Context) (ports.Relations, error) {
	groups := make(map[string][]string)
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rc, err := fsio.Open(p)
		if err != nil {
			return nil, fmt.Errorf("cdr relations: %w", err)
		}
		err = s.readCID(rc, groups)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("cdr relations %s: %w", p, err)
		}
	}

	rel := make(ports.Relations)
	for _, members := range groups {
		for _, a := range members {
			for _, b := range members {
				if a != b {
					rel.Add(a, b)
					rel.Add(b, a)
				}
			}
		}
	}
	return rel, nil
}

func (s CDR) readCID(r io.Reader, groups map[string][]string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) != 4 || fields[1] != "CID" {
			continue
		}
		chemical, disease := fields[2], strings.TrimSpace(fields[3])
		key, member := chemical, disease
		if s.EntityType == ports.EntityChemical {
			key, member = disease, chemical
		}
		groups[key] = append(groups[key], member)
	}
	return sc.Err()
}
