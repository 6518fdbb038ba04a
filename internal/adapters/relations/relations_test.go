package relations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "chebi_relations.json", FileName(ports.OntologyChEBI))
	assert.Equal(t, "Chemical_relations.json", FileName(ports.OntologyCTDChemicals))
	assert.Equal(t, "Disease_relations.json", FileName(ports.OntologyMEDIC))
}

func TestJSONFile_KeepsDirection(t *testing.T) {
	p := writeFile(t, "chebi_relations.json", `{"CHEBI_1": ["CHEBI_2", "CHEBI_3"], "CHEBI_4": []}`)

	rel, err := JSONFile{Path: p}.Relations(context.Background())
	require.NoError(t, err)
	assert.True(t, rel.Has("CHEBI_1", "CHEBI_2"))
	assert.True(t, rel.Has("CHEBI_1", "CHEBI_3"))
	assert.False(t, rel.Has("CHEBI_2", "CHEBI_1"))
	assert.False(t, rel.Has("CHEBI_4", "CHEBI_1"))
}

func TestJSONFile_MissingIsFatal(t *testing.T) {
	_, err := JSONFile{Path: filepath.Join(t.TempDir(), "Disease_relations.json")}.Relations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}

func TestJSONFile_Malformed(t *testing.T) {
	p := writeFile(t, "bad.json", `{"CHEBI_1": "CHEBI_2"}`)
	_, err := JSONFile{Path: p}.Relations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMalformedRecord)
}

const cdrFixture = "100|t|title\n" +
	"100\t0\t7\tlithium\tChemical\tD008094\n" +
	"100\tCID\tD008094\tD006973\n" +
	"100\tCID\tD008094\tD003920\n" +
	"200\tCID\tD002220\tD006973\n" +
	"200\tCID\tD002220\tD001145\r\n"

func TestCDR_DiseasesSharingAChemical(t *testing.T) {
	p := writeFile(t, "cdr.txt", cdrFixture)

	rel, err := CDR{Paths: []string{p}, EntityType: ports.EntityDisease}.Relations(context.Background())
	require.NoError(t, err)
	assert.True(t, rel.Has("D006973", "D003920"))
	assert.True(t, rel.Has("D003920", "D006973"))
	assert.True(t, rel.Has("D006973", "D001145"))
	assert.False(t, rel.Has("D003920", "D001145"))
	assert.False(t, rel.Has("D006973", "D006973"))
	assert.NotContains(t, rel, "D008094")
}

func TestCDR_ChemicalsSharingADisease(t *testing.T) {
	p := writeFile(t, "cdr.txt", cdrFixture)

	rel, err := CDR{Paths: []string{p}, EntityType: ports.EntityChemical}.Relations(context.Background())
	require.NoError(t, err)
	assert.True(t, rel.Has("D008094", "D002220"))
	assert.True(t, rel.Has("D002220", "D008094"))
	assert.Len(t, rel, 2)
}

func TestCDR_MissingFile(t *testing.T) {
	_, err := CDR{Paths: []string{filepath.Join(t.TempDir(), "nope.txt")}}.Relations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}
