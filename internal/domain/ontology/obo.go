package ontology

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Term is one [Term] stanza of an OBO file, reduced to the tags the
// pipeline uses.
type Term struct {
	ID       string
	Name     string
	IsA      []string
	Synonyms []string
	Obsolete bool
}

// ReadOBO parses the [Term] stanzas of an OBO 1.2/1.4 document. Other stanza
// types ([Typedef], [Instance]) and every tag other than id, name, is_a,
// synonym and is_obsolete are skipped. Obsolete terms are dropped.
func ReadOBO(r io.Reader) ([]Term, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		terms  []Term
		cur    *Term
		inTerm bool
		lineNo int
	)
	flush := func() {
		if cur != nil && cur.ID != "" && !cur.Obsolete {
			terms = append(terms, *cur)
		}
		cur = nil
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			inTerm = line == "[Term]"
			if inTerm {
				cur = &Term{}
			}
			continue
		}
		if !inTerm {
			continue // header or non-term stanza
		}

		tag, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("obo line %d: missing tag separator", lineNo)
		}
		value = strings.TrimSpace(value)

		switch tag {
		case "id":
			cur.ID = value
		case "name":
			cur.Name = value
		case "is_a":
			cur.IsA = append(cur.IsA, stripTrailer(value))
		case "synonym":
			if s, ok := quoted(value); ok {
				cur.Synonyms = append(cur.Synonyms, s)
			}
		case "is_obsolete":
			cur.Obsolete = value == "true"
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obo line %d: %w", lineNo, err)
	}
	flush()
	return terms, nil
}

// stripTrailer drops the "! comment" and any {qualifier} block after an id.
func stripTrailer(v string) string {
	if i := strings.IndexAny(v, "!{"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// quoted returns the text between the first pair of double quotes.
func quoted(v string) (string, bool) {
	start := strings.IndexByte(v, '"')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(v[start+1:], '"')
	if end < 0 {
		return "", false
	}
	return v[start+1 : start+1+end], true
}
