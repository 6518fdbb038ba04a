package ontology

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corey/reel/internal/ports"
)

// ChEBI synthetic root and the four top-level concepts wired beneath it so
// that every concept reaches a single root.
const (
	ChEBIRoot     = "CHEBI_00000"
	chebiRootName = "ROOT"
)

var chebiTopConcepts = []string{
	"CHEBI_24431", // chemical entity
	"CHEBI_50906", // role
	"CHEBI_36342", // subatomic particle
	"CHEBI_33232", // application
}

// MEDICRoot replaces the "MESH:C" Diseases root of CTD_diseases.obo.
const MEDICRoot = "00000000000"

// LoadChEBI builds the ChEBI index from chebi.obo. Ids are rewritten from
// CHEBI:n to CHEBI_n.
func LoadChEBI(r io.Reader) (*Index, error) {
	terms, err := ReadOBO(r)
	if err != nil {
		return nil, fmt.Errorf("chebi: %w", err)
	}

	x := NewIndex(ports.OntologyChEBI)
	for _, t := range terms {
		id := chebiID(t.ID)
		x.Graph.AddNode(id)
		x.AddName(t.Name, id)
		for _, parent := range t.IsA {
			x.Graph.AddEdge(id, chebiID(parent))
		}
		for _, s := range t.Synonyms {
			x.AddSynonym(s, id)
		}
	}

	x.AddName(chebiRootName, ChEBIRoot)
	x.Graph.AddNode(ChEBIRoot)
	for _, top := range chebiTopConcepts {
		x.Graph.AddEdge(top, ChEBIRoot)
	}
	return x, nil
}

func chebiID(id string) string { return strings.ReplaceAll(id, ":", "_") }

// LoadMEDIC builds the MEDIC index from CTD_diseases.obo. Ids drop their
// five-character namespace ("MESH:", "OMIM:"); the Diseases root "MESH:C"
// becomes MEDICRoot.
func LoadMEDIC(r io.Reader) (*Index, error) {
	terms, err := ReadOBO(r)
	if err != nil {
		return nil, fmt.Errorf("medic: %w", err)
	}

	x := NewIndex(ports.OntologyMEDIC)
	for _, t := range terms {
		id := medicID(t.ID)
		x.Graph.AddNode(id)
		x.AddName(t.Name, id)
		for _, parent := range t.IsA {
			x.Graph.AddEdge(id, medicID(parent))
		}
		for _, s := range t.Synonyms {
			x.AddSynonym(s, id)
		}
	}
	return x, nil
}

func medicID(id string) string {
	if len(id) > 5 {
		id = id[5:]
	}
	if id == "C" {
		return MEDICRoot
	}
	return id
}

// CTD_chemicals.tsv columns.
const (
	ctdColName     = 0
	ctdColID       = 1
	ctdColParents  = 4
	ctdColSynonyms = 7
	ctdMinColumns  = 8
)

// LoadCTDChemicals builds the CTD-Chemicals index from CTD_chemicals.tsv.
// Comment lines start with '#'. Ids drop their "MESH:" namespace.
func LoadCTDChemicals(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	x := NewIndex(ports.OntologyCTDChemicals)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ctd chemicals: %w", err)
		}
		if len(row) < ctdMinColumns {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("ctd chemicals line %d: %w: %d columns", line, ports.ErrMalformedRecord, len(row))
		}

		id := meshNamespaceStrip(row[ctdColID])
		x.Graph.AddNode(id)
		x.AddName(row[ctdColName], id)
		for _, parent := range splitPipe(row[ctdColParents]) {
			x.Graph.AddEdge(id, meshNamespaceStrip(parent))
		}
		for _, s := range splitPipe(row[ctdColSynonyms]) {
			x.AddSynonym(s, id)
		}
	}
	return x, nil
}

func meshNamespaceStrip(id string) string {
	return strings.TrimPrefix(id, "MESH:")
}

func splitPipe(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, "|")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
