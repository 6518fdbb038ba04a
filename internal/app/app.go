// Package app wires together all adapters and domain logic.
// It runs the normalization pipeline: ontology and annotations in, candidate
// lists, disambiguation graphs and ranked answers out.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/reel/internal/adapters/bbolt"
	"github.com/corey/reel/internal/adapters/ranker"
	"github.com/corey/reel/internal/adapters/redis"
	"github.com/corey/reel/internal/config"
	"github.com/corey/reel/internal/domain/candidates"
	"github.com/corey/reel/internal/domain/disambig"
	"github.com/corey/reel/internal/domain/infocontent"
	"github.com/corey/reel/internal/domain/matcher"
	"github.com/corey/reel/internal/domain/ontology"
	"github.com/corey/reel/internal/domain/results"
	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/metrics"
	"github.com/corey/reel/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	Config   *config.Config
	Log      logging.Logger
	Store    ports.CandidateStore
	Ranker   ports.Ranker
	Registry *ontology.Registry
}

// New creates an App with all dependencies wired. The match cache store is
// opened here and released by Close.
func New(cfg *config.Config, log logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ports.ErrInvalidConfig)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Ranker:   ranker.New(cfg.Ranker.Command, cfg.Ranker.Args, cfg.Pipeline.OutputDir, log.Named("ranker")),
		Registry: ontology.NewRegistry(cfg.OntologySources()),
	}, nil
}

func openStore(cfg *config.Config, log logging.Logger) (ports.CandidateStore, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		s, err := redis.NewStore(cfg.Cache.Config, log.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("open match store: %w", err)
		}
		return s, nil
	default:
		if dir := filepath.Dir(cfg.Cache.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("open match store: %w", err)
			}
		}
		s, err := bbolt.NewStore(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open match store: %w", err)
		}
		return s, nil
	}
}

// Close releases the match cache store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Run executes one pipeline run and returns its summary. Configuration
// errors are reported before any file is read. The match cache is flushed
// at the end of the run, also when the run fails.
func (a *App) Run(ctx context.Context, opts RunOptions) (*status.Summary, error) {
	p, err := a.plan(opts)
	if err != nil {
		return nil, err
	}
	log := a.Log.With(
		logging.String("run_label", p.runLabel),
		logging.String("ontology", string(p.ontology)),
		logging.String("model", string(p.model)),
		logging.String("link_mode", string(p.linkMode)))
	start := time.Now()

	paths := NewPaths(a.Config.Pipeline.OutputDir, p.runLabel, p.linkMode)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create run dirs: %w", err)
	}
	m := metrics.New(metrics.Labels{
		RunLabel: p.runLabel,
		Ontology: string(p.ontology),
		Model:    string(p.model),
		LinkMode: string(p.linkMode),
	})
	summary := &status.Summary{
		RunLabel: p.runLabel,
		Ontology: string(p.ontology),
		Model:    string(p.model),
		LinkMode: string(p.linkMode),
	}

	timer := m.StageTimer("ontology")
	idx, err := a.Registry.Load(p.ontology)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	log.Info("ontology loaded",
		logging.Int("concepts", idx.Graph.NodeCount()),
		logging.Int("edges", idx.Graph.EdgeCount()))

	timer = m.StageTimer("annotations")
	corpus, err := p.source.Annotations(ctx)
	timer.ObserveDuration()
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	log.Info("annotations loaded", logging.Int("documents", corpus.Len()))

	cache := matcher.OpenCache(a.Store, p.ontology, log.Named("cache"))
	defer func() {
		if cerr := cache.Close(); cerr != nil {
			log.Warn("match cache flush failed", logging.Err(cerr))
		}
	}()

	timer = m.StageTimer("candidates")
	builder := candidates.NewBuilder(idx, matcher.New(idx, cache), a.Config.Pipeline.MinMatchScore, log.Named("candidates"))
	built, err := builder.BuildCorpus(ctx, corpus, a.Config.Pipeline.Workers)
	timer.ObserveDuration()
	if err != nil {
		return nil, fmt.Errorf("build candidates: %w", err)
	}
	summary.Baseline = &built.Stats
	m.ObserveBaseline(built.Stats)

	if p.model == ports.ModelBaseline || p.evaluation() {
		if err := status.WriteFile(paths.BaselineStats, built.Stats); err != nil {
			return nil, fmt.Errorf("write baseline statistics: %w", err)
		}
	}

	switch p.model {
	case ports.ModelBaseline:
		if !p.evaluation() {
			if err := a.writeBaselineAnswers(p, paths, built.Documents); err != nil {
				return nil, err
			}
		}
	case ports.ModelPPRIC:
		n, err := a.writeGraphs(ctx, p, paths, idx, corpus, built.Documents, m)
		if err != nil {
			return nil, err
		}
		summary.EntitiesWritten = n

		timer = m.StageTimer("ranker")
		err = a.Ranker.Rank(ctx, p.runLabel, p.model, p.linkMode)
		timer.ObserveDuration()
		if err != nil {
			return nil, err
		}
		ranked, err := a.processResults(p, paths, &built.Stats)
		if err != nil {
			return nil, err
		}
		if ranked != nil {
			summary.Ranked = ranked
			m.ObserveRanked(*ranked)
		}
	}

	summary.CacheHits, summary.CacheMisses = cache.Stats()
	m.ObserveCache(summary.CacheHits, summary.CacheMisses)
	summary.FinishedAt = time.Now().UTC()
	if err := status.WriteJSON(paths.Status, summary); err != nil {
		return nil, fmt.Errorf("write run summary: %w", err)
	}
	if tf := a.Config.Metrics.Textfile; tf != "" {
		if err := m.WriteTextfile(tf); err != nil {
			log.Warn("metrics export failed", logging.Err(err))
		}
	}
	log.Info("run finished", logging.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// writeGraphs writes one candidate file per document and the information
// content file the ranker reads alongside them.
func (a *App) writeGraphs(ctx context.Context, p *plan, paths *Paths, idx *ontology.Index,
	corpus *ports.Corpus, docs []candidates.Document, m *metrics.Run) (int, error) {

	var rel ports.Relations
	if p.relations != nil {
		var err error
		if rel, err = p.relations.Relations(ctx); err != nil {
			return 0, fmt.Errorf("load relations: %w", err)
		}
		a.Log.Info("relations loaded", logging.Int("concepts", len(rel)))
	}
	if err := paths.ResetCandidates(); err != nil {
		return 0, fmt.Errorf("reset candidate dir: %w", err)
	}

	timer := m.StageTimer("graphs")
	w := disambig.NewWriter(p.linkMode, p.entityType(), idx.Graph, rel)
	n, err := w.WriteAll(paths.CandidatesDir, docs)
	timer.ObserveDuration()
	if err != nil {
		return 0, fmt.Errorf("write candidate files: %w", err)
	}
	m.Entities.Set(float64(n))
	a.Log.Info("candidate files written",
		logging.Int("documents", len(docs)), logging.Int("entities", n))

	concepts, err := infocontent.WriteFile(paths.CandidatesDir, paths.ICFile, infocontent.Build(corpus))
	if err != nil {
		return 0, fmt.Errorf("write information content: %w", err)
	}
	a.Log.Info("information content written",
		logging.String("path", paths.ICFile), logging.Int("concepts", concepts))
	return n, nil
}

// writeBaselineAnswers answers every free-text mention with its best
// lexical candidate.
func (a *App) writeBaselineAnswers(p *plan, paths *Paths, docs []candidates.Document) error {
	answers := make(map[string]map[string]string, len(docs))
	for _, d := range docs {
		m := make(map[string]string, len(d.Entries))
		for _, e := range d.Entries {
			if len(e.Candidates) > 0 {
				m[e.Mention.Text] = results.FormatAnswer(p.ontology, e.Candidates[0].ConceptID)
			}
		}
		answers[d.ID] = m
	}
	return a.writeAnswers(p, paths, answers)
}

func (a *App) writeAnswers(p *plan, paths *Paths, answers map[string]map[string]string) error {
	out := paths.AnswersJSON
	if p.outDir != "" {
		if err := os.MkdirAll(p.outDir, 0755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
		out = filepath.Join(p.outDir, filepath.Base(paths.AnswersJSON))
	}
	if err := results.WriteJSON(out, answers); err != nil {
		return fmt.Errorf("write answers: %w", err)
	}
	a.Log.Info("answers written", logging.String("path", out), logging.Int("documents", len(answers)))
	return nil
}

// processResults reads the ranker output. Evaluation runs are scored against
// the no-solution count of the same run; baseline is nil when the count must
// be read back from the baseline statistics file. Free-text runs write the
// answer map and return nil.
func (a *App) processResults(p *plan, paths *Paths, baseline *status.Baseline) (*status.Ranked, error) {
	docs, err := results.ParseFile(paths.RankedAnswers)
	if err != nil {
		return nil, fmt.Errorf("read ranker results: %w", err)
	}
	if !p.evaluation() {
		return nil, a.writeAnswers(p, paths, results.Answers(p.ontology, docs))
	}

	var noSolution int
	if baseline != nil {
		noSolution = baseline.NoSolution
	} else {
		f, err := os.Open(paths.BaselineStats)
		if err != nil {
			return nil, fmt.Errorf("%w: baseline statistics: %v", ports.ErrMissingResource, err)
		}
		noSolution, err = status.ParseNoSolution(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read baseline statistics: %w", err)
		}
	}

	ranked := results.Evaluate(docs, noSolution)
	if err := status.WriteFile(paths.RankedStats, ranked); err != nil {
		return nil, fmt.Errorf("write ranked statistics: %w", err)
	}
	a.Log.Info("ranked results evaluated",
		logging.Int("answers", ranked.Answers),
		logging.Int("correct", ranked.Correct),
		logging.Float64("f1", ranked.F1()))
	return &ranked, nil
}

// Results re-runs only the result-processing step of a finished ppr_ic run.
func (a *App) Results(ctx context.Context, opts RunOptions) (*status.Ranked, error) {
	p, err := a.plan(opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths := NewPaths(a.Config.Pipeline.OutputDir, p.runLabel, p.linkMode)
	return a.processResults(p, paths, nil)
}

// CacheCount returns the number of persisted cache entries for an ontology.
func (a *App) CacheCount(o ports.Ontology) (int, error) {
	return a.Store.Count(o)
}

// WipeCache deletes the persisted cache entries of an ontology.
func (a *App) WipeCache(o ports.Ontology) error {
	if err := a.Store.Delete(o); err != nil {
		return fmt.Errorf("wipe %s cache: %w", o, err)
	}
	a.Log.Info("match cache wiped", logging.String("ontology", string(o)))
	return nil
}
