package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corey/reel/internal/fsio"
	"github.com/corey/reel/internal/ports"
)

// Brat reads the text-bound annotations of every ".ann" file in Dir:
//
//	T<n>\t<concept id> <start> <end>[;<start> <end>]\t<text>
//
// The document id is the file name without extension. Files are read in
// name order. Concept ids are written in index form (CHEBI:n → CHEBI_n).
type Brat struct {
	Dir string
}

// Annotations implements ports.AnnotationSource.
func (s Brat) Annotations(ctx context.Context) (*ports.Corpus, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: brat dir %s", ports.ErrMissingResource, s.Dir)
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".ann") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	c := ports.NewCorpus()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docID := strings.TrimSuffix(name, ".ann")
		rc, err := fsio.Open(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		c.Touch(docID)
		err = readBrat(rc, docID, c)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("brat %s: %w", name, err)
		}
	}
	return c, nil
}

func readBrat(r io.Reader, docID string, c *ports.Corpus) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, "T") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("%w: line %d: want 3 fields, got %d", ports.ErrMalformedRecord, n, len(fields))
		}
		id, _, _ := strings.Cut(fields[1], " ")
		c.Add(docID, ports.Annotation{ConceptID: strings.Replace(id, ":", "_", 1), Text: fields[2]})
	}
	return sc.Err()
}
