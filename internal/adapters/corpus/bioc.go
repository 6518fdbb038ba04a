package corpus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// BioC reads annotations of one entity type from BioC XML collections.
// Composite mentions (several ids joined by "|") are skipped. Every document
// is registered, even one without annotations of the type.
type BioC struct {
	Paths      []string
	EntityType ports.EntityType
}

type biocCollection struct {
	Documents []biocDocument `xml:"document"`
}

type biocDocument struct {
	ID       string        `xml:"id"`
	Passages []biocPassage `xml:"passage"`
}

type biocPassage struct {
	Annotations []biocAnnotation `xml:"annotation"`
}

type biocAnnotation struct {
	Infons []biocInfon `xml:"infon"`
	Text   string      `xml:"text"`
}

type biocInfon struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

func (a biocAnnotation) infon(key string) string {
	for _, in := range a.Infons {
		if in.Key == key {
			return strings.TrimSpace(in.Value)
		}
	}
	return ""
}

// Annotations implements ports.AnnotationSource.
func (s BioC) Annotations(ctx context.Context) (*ports.Corpus, error) {
	c := ports.NewCorpus()
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rc, err := fsio.Open(p)
		if err != nil {
			return nil, fmt.Errorf("bioc: %w", err)
		}
		err = readBioC(rc, s.EntityType.CorpusLabel(), c)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("bioc %s: %w", p, err)
		}
	}
	return c, nil
}

func readBioC(r io.Reader, label string, c *ports.Corpus) error {
	var coll biocCollection
	if err := xml.NewDecoder(r).Decode(&coll); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrMalformedRecord, err)
	}
	for _, d := range coll.Documents {
		c.Touch(d.ID)
		for _, p := range d.Passages {
			for _, a := range p.Annotations {
				if a.infon("type") != label {
					continue
				}
				id := a.infon("MESH")
				if strings.Contains(id, "|") {
					continue
				}
				c.Add(d.ID, ports.Annotation{ConceptID: id, Text: a.Text})
			}
		}
	}
	return nil
}
