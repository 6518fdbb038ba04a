// Package results reads the answer file produced by the external ranker,
// scores it against the gold ids and renders the per-document answers.
//
// The answer file is a sequence of blocks, each opened by "= <doc id>" and
// followed by one line per resolved mention:
//
//	<mention count>\tTEXT=<mention text>\t<gold id>\tANS=<answer id>
package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/ports"
)

// AnswerFile is the ranker's output filename within its results directory.
const AnswerFile = "all_all"

// Answer is one resolved mention.
type Answer struct {
	Mentions  int
	Text      string
	Gold      string
	Predicted string
}

// Correct reports whether the ranker picked the gold id.
func (a Answer) Correct() bool { return a.Predicted == a.Gold }

// Document is one answer block.
type Document struct {
	ID      string
	Answers []Answer
}

type parseState int

const (
	beforeFirstDocument parseState = iota
	inDocument
)

// Parse reads an answer file. An answer line before the first document
// marker is an error.
func Parse(r io.Reader) ([]Document, error) {
	var (
		docs  []Document
		state = beforeFirstDocument
		n     int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "=") {
			id := strings.TrimSpace(strings.TrimPrefix(line, "="))
			if id == "" {
				return nil, fmt.Errorf("%w: line %d: document marker without id", ports.ErrMalformedRecord, n)
			}
			docs = append(docs, Document{ID: id})
			state = inDocument
			continue
		}

		if state == beforeFirstDocument {
			return nil, fmt.Errorf("%w: line %d: answer before first document marker", ports.ErrMalformedRecord, n)
		}
		a, err := parseAnswer(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		cur := &docs[len(docs)-1]
		cur.Answers = append(cur.Answers, a)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ParseFile reads the answer file at path.
func ParseFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: ranker results: %v", ports.ErrMissingResource, err)
	}
	defer f.Close()
	return Parse(f)
}

func parseAnswer(line string) (Answer, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return Answer{}, fmt.Errorf("%w: want 4 fields, got %d", ports.ErrMalformedRecord, len(fields))
	}
	count, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Answer{}, fmt.Errorf("%w: mention count %q", ports.ErrMalformedRecord, fields[0])
	}
	_, text, ok := strings.Cut(fields[1], "=")
	if !ok {
		return Answer{}, fmt.Errorf("%w: text field %q", ports.ErrMalformedRecord, fields[1])
	}
	return Answer{
		Mentions:  count,
		Text:      text,
		Gold:      fields[2],
		Predicted: strings.TrimPrefix(strings.TrimSpace(fields[3]), "ANS="),
	}, nil
}

// Evaluate scores the answers, weighting each by its mention count.
// noSolution comes from the baseline statistics of the same run.
func Evaluate(docs []Document, noSolution int) status.Ranked {
	r := status.Ranked{NoSolution: noSolution}
	for _, d := range docs {
		for _, a := range d.Answers {
			r.Answers += a.Mentions
			if a.Correct() {
				r.Correct += a.Mentions
			}
		}
	}
	return r
}

// FormatAnswer renders a ranker answer in the ontology's external id form:
// CHEBI:n for ChEBI, MESH:<id> for the MeSH family.
func FormatAnswer(o ports.Ontology, answer string) string {
	if o == ports.OntologyChEBI {
		return strings.ReplaceAll(answer, "_", ":")
	}
	return "MESH:" + answer
}

// Answers maps document id → mention text → formatted answer. Later blocks
// and lines overwrite earlier ones with the same keys.
func Answers(o ports.Ontology, docs []Document) map[string]map[string]string {
	out := make(map[string]map[string]string, len(docs))
	for _, d := range docs {
		m := make(map[string]string, len(d.Answers))
		for _, a := range d.Answers {
			m[a.Text] = FormatAnswer(o, a.Predicted)
		}
		out[d.ID] = m
	}
	return out
}

// WriteJSON writes the answer map to path.
func WriteJSON(path string, answers map[string]map[string]string) error {
	b, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
