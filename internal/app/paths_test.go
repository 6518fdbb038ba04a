package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/out", "craft_chebi", ports.LinkKB)
	assert.Equal(t, "/out", p.Root)
	assert.Equal(t, filepath.Join("/out", "candidates", "craft_chebi", "kb_link"), p.CandidatesDir)
	assert.Equal(t, filepath.Join("/out", "craft_chebi_ic"), p.ICFile)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi"), p.ResultsDir)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "baseline"), p.BaselineDir)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "baseline", "craft_chebi_baseline_statistics"), p.BaselineStats)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "ppr_ic", "kb_link"), p.RankedDir)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "ppr_ic", "kb_link", "all_all"), p.RankedAnswers)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "ppr_ic", "kb_link", "craft_chebi_ppr_ic_kb_link_statistics"), p.RankedStats)
	assert.Equal(t, filepath.Join("/out", "results", "craft_chebi", "status.json"), p.Status)
	assert.Equal(t, filepath.Join("/out", "craft_chebi_results.json"), p.AnswersJSON)
}

func TestPaths_EnsureDirs(t *testing.T) {
	p := NewPaths(filepath.Join(t.TempDir(), "out"), "run_1", ports.LinkNone)
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, p.EnsureDirs())

	for _, d := range []string{p.Root, p.BaselineDir, p.RankedDir, p.CandidatesDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
	}
}

func TestPaths_ResetCandidates(t *testing.T) {
	p := NewPaths(t.TempDir(), "run_1", ports.LinkCorpus)
	require.NoError(t, p.EnsureDirs())
	old := filepath.Join(p.CandidatesDir, "doc1")
	require.NoError(t, os.WriteFile(old, []byte("ENTITY\n"), 0644))

	require.NoError(t, p.ResetCandidates())
	assert.NoFileExists(t, old)
	assert.DirExists(t, p.CandidatesDir)
}

func TestRunLabelFor(t *testing.T) {
	assert.Equal(t, "batch_7", RunLabelFor("/inbox/batch_7.json"))
	assert.Equal(t, "batch_7", RunLabelFor("/inbox/batch_7.json.gz"))
	assert.Equal(t, "a.b", RunLabelFor("a.b.json"))
}
