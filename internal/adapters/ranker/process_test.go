package ranker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

func TestNew_Defaults(t *testing.T) {
	p := New("", nil, ".", nil)
	assert.Equal(t, DefaultCommand, p.Command)
	assert.Equal(t, []string{"ppr_for_ned_all"}, p.Args)
}

func TestRank_PassesPositionalArguments(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	dir := t.TempDir()
	p := New("sh", []string{"-c", `printf '%s %s %s' "$0" "$1" "$2" > ran.txt`}, dir, nil)
	require.True(t, p.Available())

	require.NoError(t, p.Rank(context.Background(), "run_1", ports.ModelPPRIC, ports.LinkKBCorpus))

	got, err := os.ReadFile(filepath.Join(dir, "ran.txt"))
	require.NoError(t, err)
	assert.Equal(t, "run_1 ppr_ic kb_corpus_link", string(got))
}

func TestRank_FailureIncludesOutput(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	p := New("sh", []string{"-c", "echo engine exploded; exit 3"}, t.TempDir(), nil)
	err := p.Rank(context.Background(), "run_1", ports.ModelPPRIC, ports.LinkNone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine exploded")
}

func TestRank_MissingCommand(t *testing.T) {
	p := New("reel-no-such-ranker", nil, t.TempDir(), nil)
	assert.False(t, p.Available())
	err := p.Rank(context.Background(), "run_1", ports.ModelPPRIC, ports.LinkNone)
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}

func TestRank_Cancelled(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New("sh", []string{"-c", "sleep 5"}, t.TempDir(), nil)
	err := p.Rank(ctx, "run_1", ports.ModelPPRIC, ports.LinkNone)
	assert.ErrorIs(t, err, context.Canceled)
}
