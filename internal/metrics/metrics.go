// Package metrics collects per-run counters on a private prometheus registry.
// A batch run has no scrape endpoint, so the registry is exported once at the
// end of the run as a node_exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/corey/reel/internal/domain/status"
)

// Namespace prefixes every metric name.
const Namespace = "reel"

// Labels identify the run a registry describes.
type Labels struct {
	RunLabel string
	Ontology string
	Model    string
	LinkMode string
}

// Run holds the counters of one pipeline run.
type Run struct {
	registry *prometheus.Registry

	Documents    prometheus.Gauge
	Mentions     *prometheus.GaugeVec
	Entities     prometheus.Gauge
	Answers      *prometheus.GaugeVec
	CacheLookups *prometheus.GaugeVec
	StageSeconds *prometheus.HistogramVec
}

// New registers the run metrics on a fresh registry.
func New(l Labels) *Run {
	constLabels := prometheus.Labels{
		"run_label": l.RunLabel,
		"ontology":  l.Ontology,
		"model":     l.Model,
		"link_mode": l.LinkMode,
	}
	r := &Run{
		registry: prometheus.NewRegistry(),
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "documents",
			Help: "Documents read from the annotation source.", ConstLabels: constLabels,
		}),
		Mentions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "mentions",
			Help: "Mentions by candidate generation outcome.", ConstLabels: constLabels,
		}, []string{"outcome"}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "entities_written",
			Help: "Entity records written to candidate files.", ConstLabels: constLabels,
		}),
		Answers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "ranked_answers",
			Help: "Ranker answers by correctness.", ConstLabels: constLabels,
		}, []string{"result"}),
		CacheLookups: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "cache_lookups",
			Help: "Match cache lookups by result.", ConstLabels: constLabels,
		}, []string{"result"}),
		StageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace, Name: "stage_duration_seconds",
			Help:        "Wall time of each pipeline stage.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
	}
	r.registry.MustRegister(r.Documents, r.Mentions, r.Entities, r.Answers, r.CacheLookups, r.StageSeconds)
	return r
}

// Registry exposes the underlying registry.
func (r *Run) Registry() *prometheus.Registry { return r.registry }

// ObserveBaseline records candidate generation outcomes.
func (r *Run) ObserveBaseline(b status.Baseline) {
	r.Documents.Set(float64(b.Documents))
	r.Mentions.WithLabelValues("total").Set(float64(b.Total))
	r.Mentions.WithLabelValues("nil").Set(float64(b.NILs))
	r.Mentions.WithLabelValues("unique").Set(float64(b.Unique))
	r.Mentions.WithLabelValues("no_solution").Set(float64(b.NoSolution))
	r.Mentions.WithLabelValues("first_rank").Set(float64(b.FirstRank))
}

// ObserveRanked records the ranker's evaluation.
func (r *Run) ObserveRanked(rk status.Ranked) {
	r.Answers.WithLabelValues("correct").Set(float64(rk.Correct))
	r.Answers.WithLabelValues("wrong").Set(float64(rk.Answers - rk.Correct))
}

// ObserveCache records cache hit and miss totals.
func (r *Run) ObserveCache(hits, misses int64) {
	r.CacheLookups.WithLabelValues("hit").Set(float64(hits))
	r.CacheLookups.WithLabelValues("miss").Set(float64(misses))
}

// StageTimer starts timing a stage; call ObserveDuration when it ends.
func (r *Run) StageTimer(stage string) *prometheus.Timer {
	return prometheus.NewTimer(r.StageSeconds.WithLabelValues(stage))
}

// WriteTextfile writes the registry in text exposition format. The parent
// directory is created if needed.
func (r *Run) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("metrics textfile dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	return nil
}
