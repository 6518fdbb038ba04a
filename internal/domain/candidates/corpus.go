package candidates

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// Entry is a mention with its candidate list. An empty list is only kept
// for mentions without gold.
type Entry struct {
	Mention    Mention
	Candidates []Candidate
}

// Document is the candidate view of one corpus document, entries in mention
// order.
type Document struct {
	ID      string
	Index   int
	Entries []Entry
}

// CorpusResult holds every document in corpus order plus the baseline
// counters.
type CorpusResult struct {
	Documents []Document
	Stats     status.Baseline
}

// BuildCorpus builds the candidate lists of every document. Documents are
// independent and are processed by up to workers goroutines; results keep
// corpus order.
func (b *Builder) BuildCorpus(ctx context.Context, corpus *ports.Corpus, workers int) (*CorpusResult, error) {
	if workers < 1 {
		workers = 1
	}
	ids := corpus.Documents()
	res := &CorpusResult{Documents: make([]Document, len(ids))}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, st := b.buildDocument(id, i, corpus.Annotations(id))
			res.Documents[i] = doc
			mu.Lock()
			res.Stats.Merge(st)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.Stats.Documents = len(ids)

	b.log.Info("candidates built",
		logging.Int("documents", res.Stats.Documents),
		logging.Int("entities", res.Stats.Total),
		logging.Int("nils", res.Stats.NILs),
		logging.Int("unique", res.Stats.Unique),
		logging.Int("no_solution", res.Stats.NoSolution))
	return res, nil
}

// buildDocument processes one document. NIL mentions are counted and
// skipped; repeated mentions (same lowercased text) are processed once.
func (b *Builder) buildDocument(id string, index int, annotations []ports.Annotation) (Document, status.Baseline) {
	doc := Document{ID: id, Index: index}
	var st status.Baseline
	seen := make(map[string]struct{}, len(annotations))

	for _, a := range annotations {
		st.Total++
		if IsNIL(a.ConceptID) {
			st.NILs++
			continue
		}
		m := NewMention(id, index, a)
		if _, dup := seen[m.Normalized]; dup {
			continue
		}
		seen[m.Normalized] = struct{}{}
		st.Unique++

		cands, first := b.Build(m)
		if first {
			st.FirstRank++
		}
		if len(cands) == 0 && m.HasGold() {
			st.NoSolution++
			b.log.Debug("no solution",
				logging.String("doc", id), logging.String("text", m.Text), logging.String("gold", m.Gold))
			continue
		}
		doc.Entries = append(doc.Entries, Entry{Mention: m, Candidates: cands})
	}
	return doc, st
}
