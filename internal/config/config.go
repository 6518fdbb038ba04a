// Package config defines the run configuration. No I/O lives here, only plain
// data types, path resolution and validation; loading is in loader.go.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corey/reel/internal/adapters/corpus"
	"github.com/corey/reel/internal/adapters/redis"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// Cache backends.
const (
	BackendBolt  = "bolt"
	BackendRedis = "redis"
)

// DataConfig locates ontology, corpus and relation files. Relative file
// names resolve against Dir.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	ChEBI        string `mapstructure:"chebi"`
	MEDIC        string `mapstructure:"medic"`
	CTDChemicals string `mapstructure:"ctd_chemicals"`
	CorpusDir    string `mapstructure:"corpus_dir"`
	RelationsDir string `mapstructure:"relations_dir"`
	// CDRFormat is "pubtator" or "bioc".
	CDRFormat string `mapstructure:"cdr_format"`
}

// CacheConfig selects the match cache backend.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "bolt" | "redis"
	Path    string `mapstructure:"path"`

	redis.Config `mapstructure:",squash"`
}

// PipelineConfig holds candidate generation tunables.
type PipelineConfig struct {
	MinMatchScore float64 `mapstructure:"min_match_score"`
	Workers       int     `mapstructure:"workers"`
	OutputDir     string  `mapstructure:"output_dir"`
}

// RankerConfig is the external ranker command line, without the positional
// run arguments.
type RankerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// MetricsConfig controls the prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after every run; empty disables it.
	Textfile string `mapstructure:"textfile"`
}

// Config is the root configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Ranker   RankerConfig   `mapstructure:"ranker"`
	Log      logging.Config `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendBolt:
		if c.Cache.Path == "" {
			return fmt.Errorf("%w: cache.path is required for the bolt backend", ports.ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for the redis backend", ports.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: cache.backend %q (valid: bolt, redis)", ports.ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Pipeline.MinMatchScore < 0 || c.Pipeline.MinMatchScore >= 1 {
		return fmt.Errorf("%w: pipeline.min_match_score %v out of range [0, 1)", ports.ErrInvalidConfig, c.Pipeline.MinMatchScore)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be at least 1", ports.ErrInvalidConfig)
	}
	if _, err := corpus.ParseFormat(c.Data.CDRFormat); err != nil {
		return fmt.Errorf("%w: data.cdr_format %q (valid: pubtator, bioc)", ports.ErrInvalidConfig, c.Data.CDRFormat)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (valid: console, json)", ports.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// OntologySources maps each ontology to its resolved source path.
func (c *Config) OntologySources() map[ports.Ontology]string {
	return map[ports.Ontology]string{
		ports.OntologyChEBI:        c.resolve(c.Data.ChEBI),
		ports.OntologyMEDIC:        c.resolve(c.Data.MEDIC),
		ports.OntologyCTDChemicals: c.resolve(c.Data.CTDChemicals),
	}
}

// CorpusDir is the resolved corpus root.
func (c *Config) CorpusDir() string { return c.resolve(c.Data.CorpusDir) }

// RelationsDir is the resolved directory of relation map files.
func (c *Config) RelationsDir() string { return c.resolve(c.Data.RelationsDir) }

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Data.Dir, p)
}
