package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

const answerFile = "= 1001\n" +
	"2\tTEXT=aspirin\tD001241\tANS=D001241\n" +
	"1\tTEXT=ibuprofen\tD007052\tANS=D000082\n" +
	"\n" +
	"= 1002\n" +
	"3\tTEXT=tumor\tD009369\tANS=D009369\n"

func TestParse_Blocks(t *testing.T) {
	docs, err := Parse(strings.NewReader(answerFile))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "1001", docs[0].ID)
	require.Len(t, docs[0].Answers, 2)
	assert.Equal(t, Answer{Mentions: 2, Text: "aspirin", Gold: "D001241", Predicted: "D001241"}, docs[0].Answers[0])
	assert.Equal(t, "1002", docs[1].ID)
	assert.Len(t, docs[1].Answers, 1)
}

func TestParse_FirstBlockKeepsItsRecords(t *testing.T) {
	docs, err := Parse(strings.NewReader("= only\n1\tTEXT=x\tD1\tANS=D1\n"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "only", docs[0].ID)
	assert.Len(t, docs[0].Answers, 1)
}

func TestParse_AnswerBeforeFirstMarker(t *testing.T) {
	_, err := Parse(strings.NewReader("1\tTEXT=x\tD1\tANS=D1\n= 1001\n"))
	assert.ErrorIs(t, err, ports.ErrMalformedRecord)
}

func TestParse_MalformedLines(t *testing.T) {
	for _, in := range []string{
		"= 1\nnot a record\n",
		"= 1\nmany\tTEXT=x\tD1\tANS=D1\n",
		"= 1\n1\tx\tD1\tANS=D1\n",
		"=\n",
	} {
		_, err := Parse(strings.NewReader(in))
		assert.ErrorIs(t, err, ports.ErrMalformedRecord, in)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), AnswerFile))
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}

func TestEvaluate_WeightedByMentions(t *testing.T) {
	docs, err := Parse(strings.NewReader(answerFile))
	require.NoError(t, err)

	r := Evaluate(docs, 2)
	assert.Equal(t, 6, r.Answers)
	assert.Equal(t, 5, r.Correct)
	assert.InDelta(t, 5.0/6.0, r.Precision(), 1e-12)
	assert.InDelta(t, 5.0/7.0, r.Recall(), 1e-12)
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "CHEBI:15377", FormatAnswer(ports.OntologyChEBI, "CHEBI_15377"))
	assert.Equal(t, "MESH:D001241", FormatAnswer(ports.OntologyCTDChemicals, "D001241"))
	assert.Equal(t, "MESH:D009369", FormatAnswer(ports.OntologyMEDIC, "D009369"))
}

func TestWriteJSON_AnswerMap(t *testing.T) {
	docs, err := Parse(strings.NewReader(answerFile))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run_1_results.json")
	require.NoError(t, WriteJSON(path, Answers(ports.OntologyMEDIC, docs)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "MESH:D000082", got["1001"]["ibuprofen"])
	assert.Equal(t, "MESH:D009369", got["1002"]["tumor"])
}
