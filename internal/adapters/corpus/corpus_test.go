package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/ports"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const pubtatorFixture = "100|t|Aspirin and gastric ulcer\n" +
	"100|a|Aspirin induced ulcer.\n" +
	"100\t0\t7\tAspirin\tChemical\tD001241\n" +
	"100\t12\t25\tgastric ulcer\tDisease\tD013276\n" +
	"100\tCID\tD001241\tD013276\n" +
	"\n" +
	"200|t|Nothing chemical here\n" +
	"200\t0\t5\tfever\tDisease\tD005334\n" +
	"200\t9\t17\tnaloxone\tChemical\tD009270\r\n"

func TestPubTator_FiltersByEntityType(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "cdr.txt"), pubtatorFixture)

	c, err := PubTator{Paths: []string{p}, EntityType: ports.EntityChemical}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, c.Documents())
	assert.Equal(t, []ports.Annotation{{ConceptID: "D001241", Text: "Aspirin"}}, c.Annotations("100"))
	assert.Equal(t, []ports.Annotation{{ConceptID: "D009270", Text: "naloxone"}}, c.Annotations("200"))

	c, err = PubTator{Paths: []string{p}, EntityType: ports.EntityDisease}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gastric ulcer", c.Annotations("100")[0].Text)
	assert.Equal(t, "D005334", c.Annotations("200")[0].ConceptID)
}

func TestPubTator_Gzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cdr.txt.gz")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := pgzip.NewWriter(f)
	_, err = zw.Write([]byte(pubtatorFixture))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	c, err := PubTator{Paths: []string{p}, EntityType: ports.EntityChemical}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestPubTator_MissingFile(t *testing.T) {
	_, err := PubTator{Paths: []string{filepath.Join(t.TempDir(), "nope.txt")}}.Annotations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}

func TestPubTator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PubTator{Paths: []string{"ignored"}}.Annotations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

const biocFixture = `<?xml version="1.0" encoding="UTF-8"?>
<collection>
  <source>BioCreative V CDR</source>
  <document>
    <id>100</id>
    <passage>
      <infon key="type">title</infon>
      <annotation id="0">
        <infon key="MESH">D001241</infon>
        <infon key="type">Chemical</infon>
        <location offset="0" length="7"/>
        <text>Aspirin</text>
      </annotation>
      <annotation id="1">
        <infon key="MESH">D013276</infon>
        <infon key="type">Disease</infon>
        <text>gastric ulcer</text>
      </annotation>
    </passage>
    <passage>
      <annotation id="2">
        <infon key="MESH">D002244|D002245</infon>
        <infon key="type">Chemical</infon>
        <text>carbon and carbon dioxide</text>
      </annotation>
    </passage>
  </document>
  <document>
    <id>200</id>
    <passage>
      <annotation id="0">
        <infon key="MESH">D005334</infon>
        <infon key="type">Disease</infon>
        <text>fever</text>
      </annotation>
    </passage>
  </document>
</collection>
`

func TestBioC_SkipsCompositeAndKeepsEmptyDocuments(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "cdr.xml"), biocFixture)

	c, err := BioC{Paths: []string{p}, EntityType: ports.EntityChemical}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, c.Documents())
	assert.Equal(t, []ports.Annotation{{ConceptID: "D001241", Text: "Aspirin"}}, c.Annotations("100"))
	assert.Empty(t, c.Annotations("200"))
}

func TestBioC_Malformed(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "bad.xml"), "<collection><document>")
	_, err := BioC{Paths: []string{p}, EntityType: ports.EntityDisease}.Annotations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMalformedRecord)
}

func TestBrat_ReadsSortedAnnFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.ann"), "T1\tCHEBI:15377 0 5\twater\n#1\tAnnotatorNotes T1\tnote\n")
	writeFile(t, filepath.Join(dir, "a.ann"), "T1\tCHEBI:27732 10 18;20 24\tcaffeine salt\nT2\tCHEBI:15377 30 35\twater\n")
	writeFile(t, filepath.Join(dir, "a.txt"), "ignored")

	c, err := Brat{Dir: dir}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Documents())
	assert.Equal(t, []ports.Annotation{
		{ConceptID: "CHEBI_27732", Text: "caffeine salt"},
		{ConceptID: "CHEBI_15377", Text: "water"},
	}, c.Annotations("a"))
	assert.Len(t, c.Annotations("b"), 1)
}

func TestBrat_MalformedLine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ann"), "T1\tCHEBI:15377 0 5\n")
	_, err := Brat{Dir: dir}.Annotations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMalformedRecord)
}

func TestBrat_MissingDir(t *testing.T) {
	_, err := Brat{Dir: filepath.Join(t.TempDir(), "nope")}.Annotations(context.Background())
	assert.ErrorIs(t, err, ports.ErrMissingResource)
}

func TestInputFile_KeepsFileOrderAndMarksUnknownGold(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "in.json"),
		`{"doc2": ["caffeine"], "doc1": ["water", "ethanol"], "doc3": []}`)

	c, err := InputFile{Path: p}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"doc2", "doc1", "doc3"}, c.Documents())
	assert.Equal(t, []ports.Annotation{
		{ConceptID: ports.UnknownConcept, Text: "water"},
		{ConceptID: ports.UnknownConcept, Text: "ethanol"},
	}, c.Annotations("doc1"))
	assert.Empty(t, c.Annotations("doc3"))
}

func TestInputFile_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "in.json"),
		`{"b": ["x"], "a": ["y"], "b": ["z"]}`)

	c, err := InputFile{Path: p}.Annotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, c.Documents())
	assert.Equal(t, []ports.Annotation{{ConceptID: ports.UnknownConcept, Text: "z"}}, c.Annotations("b"))
}

func TestInputFile_Malformed(t *testing.T) {
	tests := map[string]string{
		"array":     `["not", "a", "map"]`,
		"bad value": `{"doc1": "water"}`,
		"truncated": `{"doc1": ["water"]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, filepath.Join(t.TempDir(), "in.json"), body)
			_, err := InputFile{Path: p}.Annotations(context.Background())
			assert.ErrorIs(t, err, ports.ErrMalformedRecord)
		})
	}
}

func TestParseDataset(t *testing.T) {
	tests := []struct {
		name     string
		ontology ports.Ontology
		subset   string
	}{
		{"craft_chebi", ports.OntologyChEBI, ""},
		{"bc5cdr_medic_train", ports.OntologyMEDIC, "train"},
		{"bc5cdr_medic_all", ports.OntologyMEDIC, "all"},
		{"bc5cdr_chemicals_dev", ports.OntologyCTDChemicals, "dev"},
		{"bc5cdr_chemicals_test", ports.OntologyCTDChemicals, "test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseDataset(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.ontology, ds.Ontology)
			assert.Equal(t, tt.subset, ds.Subset)
		})
	}

	for _, bad := range []string{"", "craft", "bc5cdr_medic_val", "bc5cdr_disease_train"} {
		_, err := ParseDataset(bad)
		assert.ErrorIs(t, err, ports.ErrUnknownDataset, bad)
	}
}

func TestDatasets_AllParse(t *testing.T) {
	names := Datasets()
	assert.Len(t, names, 9)
	for _, n := range names {
		_, err := ParseDataset(n)
		assert.NoError(t, err, n)
	}
}

func TestDataset_Source(t *testing.T) {
	ds, err := ParseDataset("bc5cdr_medic_all")
	require.NoError(t, err)

	src := ds.Source("/data", FormatPubTator)
	pt, ok := src.(PubTator)
	require.True(t, ok)
	assert.Equal(t, ports.EntityDisease, pt.EntityType)
	assert.Equal(t, []string{
		"/data/CDR.Corpus.v010516/CDR_TrainingSet.PubTator.txt",
		"/data/CDR.Corpus.v010516/CDR_DevelopmentSet.PubTator.txt",
		"/data/CDR.Corpus.v010516/CDR_TestSet.PubTator.txt",
	}, pt.Paths)

	ds, err = ParseDataset("bc5cdr_chemicals_test")
	require.NoError(t, err)
	bc, ok := ds.Source("/data", FormatBioC).(BioC)
	require.True(t, ok)
	assert.Equal(t, ports.EntityChemical, bc.EntityType)
	assert.Equal(t, []string{"/data/CDR.Corpus.v010516/CDR_TestSet.BioC.xml"}, bc.Paths)

	ds, err = ParseDataset("craft_chebi")
	require.NoError(t, err)
	assert.Equal(t, Brat{Dir: "/data/craft-3.0/ontology-concepts/CHEBI/CHEBI/brat"}, ds.Source("/data", FormatBioC))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPubTator, f)
	f, err = ParseFormat("BioC")
	require.NoError(t, err)
	assert.Equal(t, FormatBioC, f)
	_, err = ParseFormat("conll")
	assert.Error(t, err)
}
