package app

import (
	"fmt"
	"path/filepath"

	"github.com/corey/reel/internal/adapters/corpus"
	"github.com/corey/reel/internal/adapters/relations"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// DefaultRunLabel names free-text runs when no label is given.
const DefaultRunLabel = "run_1"

// Relation sources selectable for corpus-linked runs.
const (
	RelationsFile = "file" // <relations_dir>/<ontology relation file>.json
	RelationsCDR  = "cdr"  // CID lines of the dataset's BC5CDR PubTator files
)

// RunOptions are the per-run selections of the command line. Exactly one of
// Dataset and InputFile selects the annotation source.
type RunOptions struct {
	RunLabel  string
	Model     string
	LinkMode  string
	Dataset   string
	InputFile string
	TargetKB  string
	// OutDir receives <label>_results.json in free-text mode. Empty means
	// the output root.
	OutDir    string
	Relations string
}

// plan is a validated run. Every configuration error is found while
// building it, before any file is read.
type plan struct {
	runLabel  string
	model     ports.Model
	linkMode  ports.LinkMode
	ontology  ports.Ontology
	dataset   *corpus.Dataset
	source    ports.AnnotationSource
	relations ports.RelationSource
	outDir    string
}

func (p *plan) entityType() ports.EntityType { return p.ontology.EntityType() }

// evaluation reports whether mentions carry gold annotations.
func (p *plan) evaluation() bool { return p.dataset != nil }

func (a *App) plan(opts RunOptions) (*plan, error) {
	model, err := ports.ParseModel(opts.Model)
	if err != nil {
		return nil, err
	}
	mode := ports.LinkNone
	if opts.LinkMode != "" {
		if mode, err = ports.ParseLinkMode(opts.LinkMode); err != nil {
			return nil, err
		}
	}
	p := &plan{model: model, linkMode: mode, outDir: opts.OutDir}

	corpusDir := a.Config.CorpusDir()
	switch {
	case opts.Dataset != "":
		ds, err := corpus.ParseDataset(opts.Dataset)
		if err != nil {
			return nil, err
		}
		format, err := corpus.ParseFormat(a.Config.Data.CDRFormat)
		if err != nil {
			return nil, err
		}
		if opts.TargetKB != "" {
			o, err := ports.ParseOntology(opts.TargetKB)
			if err != nil {
				return nil, err
			}
			if o != ds.Ontology {
				a.Log.Warn("dataset overrides target ontology",
					logging.String("dataset", ds.Name),
					logging.String("target_kb", string(o)),
					logging.String("ontology", string(ds.Ontology)))
			}
		}
		p.dataset = &ds
		p.runLabel = ds.Name
		p.ontology = ds.Ontology
		p.source = ds.Source(corpusDir, format)

	case opts.InputFile != "":
		if opts.TargetKB == "" {
			return nil, fmt.Errorf("%w: a target ontology is required with an input file", ports.ErrUnknownOntology)
		}
		o, err := ports.ParseOntology(opts.TargetKB)
		if err != nil {
			return nil, err
		}
		p.ontology = o
		p.runLabel = opts.RunLabel
		if p.runLabel == "" {
			p.runLabel = DefaultRunLabel
		}
		p.source = corpus.InputFile{Path: opts.InputFile}

	default:
		return nil, ports.ErrNoInputSource
	}

	if model == ports.ModelPPRIC && mode.UsesRelations() {
		if p.relations, err = a.relationSource(p, opts.Relations); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (a *App) relationSource(p *plan, kind string) (ports.RelationSource, error) {
	switch kind {
	case "", RelationsFile:
		return relations.JSONFile{Path: filepath.Join(a.Config.RelationsDir(), relations.FileName(p.ontology))}, nil
	case RelationsCDR:
		if p.dataset == nil || p.dataset.Subset == "" {
			return nil, fmt.Errorf("%w: cdr relations need a bc5cdr dataset", ports.ErrInvalidConfig)
		}
		return relations.CDR{
			Paths:      p.dataset.CDRPaths(a.Config.CorpusDir(), corpus.FormatPubTator),
			EntityType: p.entityType(),
		}, nil
	}
	return nil, fmt.Errorf("%w: relation source %q (valid: file, cdr)", ports.ErrInvalidConfig, kind)
}
