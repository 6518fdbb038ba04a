package corpus

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corey/reel/internal/ports"
)

// Corpus locations relative to the configured corpus directory.
const (
	CDRDir   = "CDR.Corpus.v010516"
	CRAFTDir = "craft-3.0/ontology-concepts/CHEBI/CHEBI/brat"
)

// Format selects the BC5CDR file format.
type Format string

const (
	FormatPubTator Format = "pubtator"
	FormatBioC     Format = "bioc"
)

// ParseFormat resolves a format name; empty selects PubTator.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatPubTator:
		return FormatPubTator, nil
	case FormatBioC:
		return FormatBioC, nil
	}
	return "", fmt.Errorf("%w: corpus format %q", ports.ErrUnknownDataset, name)
}

var cdrSubsets = map[string][]string{
	"train": {"CDR_TrainingSet"},
	"dev":   {"CDR_DevelopmentSet"},
	"test":  {"CDR_TestSet"},
	"all":   {"CDR_TrainingSet", "CDR_DevelopmentSet", "CDR_TestSet"},
}

// Dataset is a named evaluation corpus bound to its target ontology.
type Dataset struct {
	Name     string
	Ontology ports.Ontology
	// Subset is the BC5CDR split (train, dev, test, all); empty for CRAFT.
	Subset string
}

// Datasets lists every supported dataset name.
func Datasets() []string {
	names := []string{"craft_chebi"}
	for _, family := range []string{"bc5cdr_medic", "bc5cdr_chemicals"} {
		for _, subset := range []string{"train", "dev", "test", "all"} {
			names = append(names, family+"_"+subset)
		}
	}
	return names
}

// ParseDataset resolves a dataset name.
func ParseDataset(name string) (Dataset, error) {
	if name == "craft_chebi" {
		return Dataset{Name: name, Ontology: ports.OntologyChEBI}, nil
	}
	for prefix, o := range map[string]ports.Ontology{
		"bc5cdr_medic_":     ports.OntologyMEDIC,
		"bc5cdr_chemicals_": ports.OntologyCTDChemicals,
	} {
		subset, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if _, known := cdrSubsets[subset]; known {
			return Dataset{Name: name, Ontology: o, Subset: subset}, nil
		}
	}
	return Dataset{}, fmt.Errorf("%w: %q", ports.ErrUnknownDataset, name)
}

// CDRPaths returns the BC5CDR files of the dataset's subset in the given
// format. Nil for CRAFT.
func (d Dataset) CDRPaths(corpusDir string, format Format) []string {
	ext := ".PubTator.txt"
	if format == FormatBioC {
		ext = ".BioC.xml"
	}
	var paths []string
	for _, base := range cdrSubsets[d.Subset] {
		paths = append(paths, filepath.Join(corpusDir, CDRDir, base+ext))
	}
	return paths
}

// Source returns the annotation source of the dataset.
func (d Dataset) Source(corpusDir string, format Format) ports.AnnotationSource {
	if d.Subset == "" {
		return Brat{Dir: filepath.Join(corpusDir, CRAFTDir)}
	}
	et := d.Ontology.EntityType()
	if format == FormatBioC {
		return BioC{Paths: d.CDRPaths(corpusDir, format), EntityType: et}
	}
	return PubTator{Paths: d.CDRPaths(corpusDir, format), EntityType: et}
}
