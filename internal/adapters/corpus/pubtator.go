package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// PubTator reads mention lines from PubTator files:
//
//	<pmid>\t<start>\t<end>\t<text>\t<type>\t<concept id>
//
// Title/abstract lines and relation lines are ignored, as are mentions of
// other entity types. Files are read in order into one corpus.
type PubTator struct {
	Paths      []string
	EntityType ports.EntityType
}

// Annotations implements ports.AnnotationSource.
func (s PubTator) Annotations(ctx context.Context) (*ports.Corpus, error) {
	c := ports.NewCorpus()
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.readFile(p, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s PubTator) readFile(path string, c *ports.Corpus) error {
	rc, err := fsio.Open(path)
	if err != nil {
		return fmt.Errorf("pubtator: %w", err)
	}
	defer rc.Close()
	return readPubTator(rc, s.EntityType.CorpusLabel(), c)
}

func readPubTator(r io.Reader, label string, c *ports.Corpus) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) != 6 || fields[4] != label {
			continue
		}
		c.Add(fields[0], ports.Annotation{
			ConceptID: strings.TrimSpace(fields[5]),
			Text:      fields[3],
		})
	}
	return sc.Err()
}
