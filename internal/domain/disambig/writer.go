package disambig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/corey/reel/internal/domain/candidates"
	"github.com/corey/reel/internal/domain/ontology"
	"github.com/corey/reel/internal/ports"
)

// Writer serializes candidate documents under one link policy.
type Writer struct {
	mode       ports.LinkMode
	entityType ports.EntityType
	graph      *ontology.Graph
	relations  ports.Relations
}

// NewWriter creates a writer. relations may be nil unless mode uses them.
func NewWriter(mode ports.LinkMode, entityType ports.EntityType, graph *ontology.Graph, relations ports.Relations) *Writer {
	return &Writer{mode: mode, entityType: entityType, graph: graph, relations: relations}
}

// Write emits the records of one document to out and returns the number of
// mentions written. Mentions with no candidates are skipped.
func (w *Writer) Write(out io.Writer, doc candidates.Document) (int, error) {
	bw := bufio.NewWriter(out)
	memo := make(map[string]string)
	written := 0

	for i, e := range doc.Entries {
		if len(e.Candidates) == 0 {
			continue
		}
		written++
		if _, err := bw.WriteString(w.entity(e).String()); err != nil {
			return written, err
		}
		for _, c := range e.Candidates {
			links, ok := memo[c.ConceptID]
			if !ok {
				links = w.links(c.ConceptID, i, doc.Entries)
				memo[c.ConceptID] = links
			}
			rec := CandidateRecord{
				ID:       c.NumericID,
				InCount:  c.InDegree,
				OutCount: c.OutDegree,
				Links:    links,
				URL:      c.ConceptID,
				Name:     c.Name,
				Type:     w.entityType,
			}
			if _, err := bw.WriteString(rec.String()); err != nil {
				return written, err
			}
		}
	}
	return written, bw.Flush()
}

// WriteFile writes one document to dir/<document id>.
func (w *Writer) WriteFile(dir string, doc candidates.Document) (int, error) {
	f, err := os.Create(filepath.Join(dir, doc.ID))
	if err != nil {
		return 0, fmt.Errorf("create candidate file: %w", err)
	}
	n, err := w.Write(f, doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write candidate file %s: %w", doc.ID, err)
	}
	return n, nil
}

// WriteAll writes every document to dir and returns the total number of
// mentions written.
func (w *Writer) WriteAll(dir string, docs []candidates.Document) (int, error) {
	total := 0
	for _, d := range docs {
		n, err := w.WriteFile(dir, d)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (w *Writer) entity(e candidates.Entry) EntityRecord {
	url := e.Mention.Gold
	if !e.Mention.HasGold() {
		url = e.Candidates[0].ConceptID
	}
	return EntityRecord{
		Text:       e.Mention.Text,
		NormalName: e.Mention.Normalized,
		Type:       w.entityType,
		QID:        e.Mention.DocIndex,
		DocID:      e.Mention.DocumentID,
		URL:        url,
	}
}

// links computes the link string of concept against the candidates of every
// entry other than self: distinct numeric ids, ascending, ";"-joined.
func (w *Writer) links(concept string, self int, entries []candidates.Entry) string {
	if w.mode == ports.LinkNone {
		return ""
	}
	seen := make(map[int]struct{})
	var ids []int
	for j, other := range entries {
		if j == self {
			continue
		}
		for _, c2 := range other.Candidates {
			if _, dup := seen[c2.NumericID]; dup {
				continue
			}
			if Linked(w.mode, concept, c2.ConceptID, w.graph, w.relations) {
				seen[c2.NumericID] = struct{}{}
				ids = append(ids, c2.NumericID)
			}
		}
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ";")
}
