package disambig

import (
	"fmt"
	"strings"

	"github.com/corey/reel/internal/ports"
)

// Record kinds.
const (
	KindEntity    = "ENTITY"
	KindCandidate = "CANDIDATE"
)

// EntityRecord is the header line of one mention.
type EntityRecord struct {
	Text       string
	NormalName string
	Type       ports.EntityType
	QID        int
	DocID      string
	URL        string
}

func (e EntityRecord) String() string {
	return fmt.Sprintf("ENTITY\ttext:%s\tnormalName:%s\tpredictedType:%s\tq:true\tqid:Q%d\tdocId:%s\torigText:%s\turl:%s\n",
		e.Text, e.NormalName, e.Type, e.QID, e.DocID, e.Text, e.URL)
}

// CandidateRecord is one candidate line. Links is the semicolon-joined list
// of linked numeric ids, empty when unlinked.
type CandidateRecord struct {
	ID       int
	InCount  int
	OutCount int
	Links    string
	URL      string
	Name     string
	Type     ports.EntityType
}

func (c CandidateRecord) String() string {
	lower := strings.ToLower(c.Name)
	return fmt.Sprintf("CANDIDATE\tid:%d\tinCount:%d\toutCount:%d\tlinks:%s\turl:%s\tname:%s\tnormalName:%s\tnormalWikiTitle:%s\tpredictedType:%s\n",
		c.ID, c.InCount, c.OutCount, c.Links, c.URL, c.Name, lower, lower, c.Type)
}

// Record is a parsed candidate-file line.
type Record struct {
	Kind   string
	Fields map[string]string
}

// Get returns a field value by name.
func (r Record) Get(name string) string { return r.Fields[name] }

// URL returns the concept id the record refers to.
func (r Record) URL() string { return r.Fields["url"] }

// ParseRecord parses one ENTITY or CANDIDATE line. Fields are split on the
// first colon, so values may contain colons.
func ParseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	kind := parts[0]
	if kind != KindEntity && kind != KindCandidate {
		return Record{}, fmt.Errorf("%w: unknown record kind %q", ports.ErrMalformedRecord, kind)
	}
	r := Record{Kind: kind, Fields: make(map[string]string, len(parts)-1)}
	for _, p := range parts[1:] {
		name, value, ok := strings.Cut(p, ":")
		if !ok {
			return Record{}, fmt.Errorf("%w: field %q has no name", ports.ErrMalformedRecord, p)
		}
		if _, dup := r.Fields[name]; !dup {
			r.Fields[name] = value
		}
	}
	return r, nil
}
