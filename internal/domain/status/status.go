// Package status computes run statistics for the baseline and ranked
// disambiguation stages.
//
// The statistics files are plain text in a fixed line format that later
// stages parse back (see ParseNoSolution). A JSON run summary is written
// next to the results for tooling.
package status

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/corey/reel/internal/ports"
)

// SummaryFile is the filename within a results directory where the JSON run
// summary is written.
const SummaryFile = "status.json"

// noSolutionPrefix starts the baseline line carrying the false-negative count.
const noSolutionPrefix = "Entities w/o solution"

// Baseline counts the outcome of candidate generation over a corpus.
type Baseline struct {
	Documents  int `json:"documents"`
	Total      int `json:"total_entities"`
	NILs       int `json:"nils"`
	Unique     int `json:"unique_entities"`
	NoSolution int `json:"no_solution"`
	FirstRank  int `json:"first_rank"`
}

// Merge adds the counters of o to b.
func (b *Baseline) Merge(o Baseline) {
	b.Documents += o.Documents
	b.Total += o.Total
	b.NILs += o.NILs
	b.Unique += o.Unique
	b.NoSolution += o.NoSolution
	b.FirstRank += o.FirstRank
}

func (b Baseline) Valid() int        { return b.Total - b.NILs }
func (b Baseline) WithSolution() int { return b.Unique - b.NoSolution }
func (b Baseline) Wrong() int        { return b.WithSolution() - b.FirstRank }

// Precision is the share of mentions with a solution whose gold concept
// ranked first.
func (b Baseline) Precision() float64 { return div(b.FirstRank, b.WithSolution()) }

// Recall counts mentions without a solution as false negatives.
func (b Baseline) Recall() float64 { return div(b.FirstRank, b.FirstRank+b.NoSolution) }

func (b Baseline) F1() float64 { return f1(b.Precision(), b.Recall()) }

// String renders the baseline statistics file.
func (b Baseline) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nNumber of documents: %d", b.Documents)
	fmt.Fprintf(&sb, "\nTotal entities: %d\nNILs: %d", b.Total, b.NILs)
	fmt.Fprintf(&sb, "\nValid entities: %d", b.Valid())
	fmt.Fprintf(&sb, "\n %% of valid entities: %s", FormatFloat(100*div(b.Valid(), b.Total)))
	fmt.Fprintf(&sb, "\n\nTotal unique entities: %d", b.Unique)
	fmt.Fprintf(&sb, "\nEntities w/ solution: %d", b.WithSolution())
	fmt.Fprintf(&sb, "\n%s (FN): %d", noSolutionPrefix, b.NoSolution)
	fmt.Fprintf(&sb, "\nWrong Disambiguations (FP): %d", b.Wrong())
	fmt.Fprintf(&sb, "\nCorrect disambiguations (TP): %d", b.FirstRank)
	fmt.Fprintf(&sb, "\nPrecision: %s", FormatFloat(b.Precision()))
	fmt.Fprintf(&sb, "\nRecall: %s", FormatFloat(b.Recall()))
	fmt.Fprintf(&sb, "\nMicro-F1 score: %s", FormatFloat(b.F1()))
	return sb.String()
}

// Ranked counts the answers of the external ranker against the gold ids.
// Answers and Correct are weighted by the mention count of each answer line.
type Ranked struct {
	Answers    int `json:"answers"`
	Correct    int `json:"correct"`
	NoSolution int `json:"no_solution"`
}

func (r Ranked) Precision() float64 { return div(r.Correct, r.Answers) }
func (r Ranked) Recall() float64    { return div(r.Correct, r.Correct+r.NoSolution) }
func (r Ranked) F1() float64        { return f1(r.Precision(), r.Recall()) }

// String renders the ranked statistics file.
func (r Ranked) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nTotal unique entities: %d", r.Answers+r.NoSolution)
	fmt.Fprintf(&sb, "\n%s (FN): %d", noSolutionPrefix, r.NoSolution)
	fmt.Fprintf(&sb, "\nWrong disambiguations (FP): %d", r.Answers-r.Correct)
	fmt.Fprintf(&sb, "\nCorrect disambiguations (TP): %d", r.Correct)
	fmt.Fprintf(&sb, "\nPrecision: %s", FormatFloat(r.Precision()))
	fmt.Fprintf(&sb, "\nRecall: %s", FormatFloat(r.Recall()))
	fmt.Fprintf(&sb, "\nMicro F1-score: %s", FormatFloat(r.F1()))
	return sb.String()
}

// ParseNoSolution sums the false-negative counts found in a baseline
// statistics file.
func ParseNoSolution(r io.Reader) (int, error) {
	total := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, noSolutionPrefix) {
			continue
		}
		_, value, ok := strings.Cut(line, ":")
		if !ok {
			return 0, fmt.Errorf("%w: %q", ports.ErrMalformedRecord, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ports.ErrMalformedRecord, line)
		}
		total += n
	}
	return total, sc.Err()
}

// WriteFile writes a statistics report to path.
func WriteFile(path string, report fmt.Stringer) error {
	return os.WriteFile(path, []byte(report.String()), 0644)
}

// Summary is the JSON payload describing one finished run.
type Summary struct {
	RunLabel        string    `json:"run_label"`
	Ontology        string    `json:"ontology"`
	Model           string    `json:"model"`
	LinkMode        string    `json:"link_mode"`
	Baseline        *Baseline `json:"baseline,omitempty"`
	Ranked          *Ranked   `json:"ranked,omitempty"`
	EntitiesWritten int       `json:"entities_written"`
	CacheHits       int64     `json:"cache_hits"`
	CacheMisses     int64     `json:"cache_misses"`
	FinishedAt      time.Time `json:"finished_at"`
}

// WriteJSON writes the summary as JSON to a file.
func WriteJSON(path string, s *Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// FormatFloat renders f in shortest round-trip form, always with a decimal
// point ("1.0", "0.8333333333333334").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func div(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func f1(p, r float64) float64 {
	if p+r == 0 || math.IsNaN(p+r) {
		return 0
	}
	return 2 * p * r / (p + r)
}
