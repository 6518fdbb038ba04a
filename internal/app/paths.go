package app

import (
	"os"
	"path/filepath"

	"github.com/corey/reel/internal/domain/results"
	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/ports"
)

// Paths holds the resolved filesystem layout of one run under the output
// root. The external ranker reads and writes the same tree, relative to Root.
type Paths struct {
	Root string // <out>/

	CandidatesDir string // <out>/candidates/<label>/<mode>/
	ICFile        string // <out>/<label>_ic

	ResultsDir    string // <out>/results/<label>/
	BaselineDir   string // <out>/results/<label>/baseline/
	BaselineStats string // <out>/results/<label>/baseline/<label>_baseline_statistics
	RankedDir     string // <out>/results/<label>/ppr_ic/<mode>/
	RankedAnswers string // <out>/results/<label>/ppr_ic/<mode>/all_all
	RankedStats   string // <out>/results/<label>/ppr_ic/<mode>/<label>_ppr_ic_<mode>_statistics
	Status        string // <out>/results/<label>/status.json

	AnswersJSON string // <out>/<label>_results.json
}

// NewPaths constructs the layout of a run.
func NewPaths(root, runLabel string, mode ports.LinkMode) *Paths {
	m := string(mode)
	resultsDir := filepath.Join(root, "results", runLabel)
	ranked := filepath.Join(resultsDir, string(ports.ModelPPRIC), m)
	return &Paths{
		Root: root,

		CandidatesDir: filepath.Join(root, "candidates", runLabel, m),
		ICFile:        filepath.Join(root, runLabel+"_ic"),

		ResultsDir:    resultsDir,
		BaselineDir:   filepath.Join(resultsDir, string(ports.ModelBaseline)),
		BaselineStats: filepath.Join(resultsDir, string(ports.ModelBaseline), runLabel+"_baseline_statistics"),
		RankedDir:     ranked,
		RankedAnswers: filepath.Join(ranked, results.AnswerFile),
		RankedStats:   filepath.Join(ranked, runLabel+"_ppr_ic_"+m+"_statistics"),
		Status:        filepath.Join(resultsDir, status.SummaryFile),

		AnswersJSON: filepath.Join(root, runLabel+"_results.json"),
	}
}

// EnsureDirs creates the result directories the ranker expects. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.BaselineDir, p.RankedDir, p.CandidatesDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ResetCandidates empties the candidate directory of the run so no file of a
// previous run with the same label and mode survives.
func (p *Paths) ResetCandidates() error {
	if err := os.RemoveAll(p.CandidatesDir); err != nil {
		return err
	}
	return os.MkdirAll(p.CandidatesDir, 0755)
}
