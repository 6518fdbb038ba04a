// Package infocontent derives a corpus-based information content (Resnik)
// per concept and writes it for every concept referenced by the candidate
// files of a run.
package infocontent

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corey/reel/internal/domain/disambig"
	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/ports"
)

// Default is written for concepts that never occur as gold in the corpus.
const Default = 1.0

// Table maps concept ids to their information content.
type Table map[string]float64

// Build counts gold ids over every annotation and scores each id as
// -ln((freq+1)/(maxFreq+1)) + 1. Rarer ids score higher. An empty corpus
// yields an empty table.
func Build(corpus *ports.Corpus) Table {
	counts := make(map[string]int)
	maxFreq := 0
	for _, doc := range corpus.Documents() {
		for _, a := range corpus.Annotations(doc) {
			counts[a.ConceptID]++
			if counts[a.ConceptID] > maxFreq {
				maxFreq = counts[a.ConceptID]
			}
		}
	}
	t := make(Table, len(counts))
	for id, f := range counts {
		t[id] = -math.Log(float64(f+1)/float64(maxFreq+1)) + 1
	}
	return t
}

// Value returns the written information content of id. Corpus ids get a
// further +1 on top of Build's score; the ranker's scoring scale depends on
// both offsets.
func (t Table) Value(id string) float64 {
	if ic, ok := t[id]; ok {
		return ic + 1
	}
	return Default
}

// Annotate scans the candidate files in dir (sorted by name) and writes one
// "id<TAB>ic" line per distinct concept referenced by an ENTITY or
// CANDIDATE record, first occurrence wins. Namespace colons in ids are
// written as underscores. Returns the number of lines written.
func Annotate(dir string, t Table, out io.Writer) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read candidates dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	bw := bufio.NewWriter(out)
	seen := make(map[string]struct{})
	for _, name := range names {
		urls, err := fileURLs(filepath.Join(dir, name))
		if err != nil {
			return len(seen), err
		}
		for _, url := range urls {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			fmt.Fprintf(bw, "%s\t%s\n", strings.ReplaceAll(url, ":", "_"), status.FormatFloat(t.Value(url)))
		}
	}
	return len(seen), bw.Flush()
}

// WriteFile writes the information-content file of a run to path.
func WriteFile(dir, path string, t Table) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create ic file: %w", err)
	}
	n, err := Annotate(dir, t, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// fileURLs returns the non-empty urls of one candidate file in line order.
func fileURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := disambig.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if url := rec.URL(); url != "" {
			urls = append(urls, url)
		}
	}
	return urls, sc.Err()
}
