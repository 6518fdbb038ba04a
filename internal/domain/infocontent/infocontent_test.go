package infocontent

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

func testCorpus() *ports.Corpus {
	c := ports.NewCorpus()
	for i := 0; i < 3; i++ {
		c.Add("d1", ports.Annotation{ConceptID: "D001", Text: "a"})
	}
	c.Add("d2", ports.Annotation{ConceptID: "D002", Text: "b"})
	c.Add("d2", ports.Annotation{ConceptID: "D002", Text: "b"})
	c.Add("d2", ports.Annotation{ConceptID: "CHEBI:15377", Text: "water"})
	return c
}

func TestBuild_Values(t *testing.T) {
	tab := Build(testCorpus())

	assert.InDelta(t, 1.0, tab["D001"], 1e-12, "most frequent term")
	assert.InDelta(t, -math.Log(3.0/4.0)+1, tab["D002"], 1e-12)
	assert.InDelta(t, -math.Log(2.0/4.0)+2, tab.Value("CHEBI:15377"), 1e-12)
	assert.Equal(t, Default, tab.Value("D404"))
}

func TestBuild_MonotoneInFrequency(t *testing.T) {
	tab := Build(testCorpus())
	// freq: D001=3 > D002=2 > CHEBI:15377=1
	assert.LessOrEqual(t, tab.Value("D001"), tab.Value("D002"))
	assert.LessOrEqual(t, tab.Value("D002"), tab.Value("CHEBI:15377"))
}

func TestBuild_EmptyCorpus(t *testing.T) {
	assert.Empty(t, Build(ports.NewCorpus()))
}

func TestAnnotate_DedupAndNormalize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte(
		"ENTITY\ttext:water\tnormalName:water\tpredictedType:chemical\tq:true\tqid:Q1\tdocId:b\torigText:water\turl:CHEBI:15377\n"+
			"CANDIDATE\tid:1\tinCount:0\toutCount:0\tlinks:\turl:D001\tname:x\tnormalName:x\tnormalWikiTitle:x\tpredictedType:chemical\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte(
		"CANDIDATE\tid:1\tinCount:0\toutCount:0\tlinks:\turl:D001\tname:x\tnormalName:x\tnormalWikiTitle:x\tpredictedType:chemical\n"+
			"CANDIDATE\tid:9\tinCount:0\toutCount:0\tlinks:\turl:D404\tname:y\tnormalName:y\tnormalWikiTitle:y\tpredictedType:chemical\n"), 0644))

	var sb strings.Builder
	n, err := Annotate(dir, Build(testCorpus()), &sb)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "D001\t2.0", lines[0], "file a is scanned first")
	assert.Equal(t, "D404\t1.0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "CHEBI_15377\t2.69314718"))
}

func TestAnnotate_MissingDir(t *testing.T) {
	var sb strings.Builder
	_, err := Annotate(filepath.Join(t.TempDir(), "nope"), Table{}, &sb)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
