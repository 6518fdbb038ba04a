package config

import (
	"github.com/spf13/viper"

	"github.com/corey/reel/internal/adapters/corpus"
	"github.com/corey/reel/internal/adapters/ranker"
	"github.com/corey/reel/internal/adapters/redis"
	"github.com/corey/reel/internal/domain/candidates"
)

const (
	DefaultDataDir      = "."
	DefaultChEBI        = "chebi.obo"
	DefaultMEDIC        = "CTD_diseases.obo"
	DefaultCTDChemicals = "CTD_chemicals.tsv"

	DefaultCacheBackend = BackendBolt
	DefaultCachePath    = "reel_cache.db"
	DefaultRedisAddr    = "localhost:6379"

	DefaultWorkers   = 1
	DefaultOutputDir = "."

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// setDefaults registers every key with viper so that REEL_* environment
// variables resolve even when no config file mentions the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", DefaultDataDir)
	v.SetDefault("data.chebi", DefaultChEBI)
	v.SetDefault("data.medic", DefaultMEDIC)
	v.SetDefault("data.ctd_chemicals", DefaultCTDChemicals)
	v.SetDefault("data.corpus_dir", DefaultDataDir)
	v.SetDefault("data.relations_dir", DefaultDataDir)
	v.SetDefault("data.cdr_format", string(corpus.FormatPubTator))

	v.SetDefault("cache.backend", DefaultCacheBackend)
	v.SetDefault("cache.path", DefaultCachePath)
	v.SetDefault("cache.redis_addr", DefaultRedisAddr)
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_prefix", redis.DefaultPrefix)
	v.SetDefault("cache.redis_timeout", "5s")

	v.SetDefault("pipeline.min_match_score", candidates.DefaultMinScore)
	v.SetDefault("pipeline.workers", DefaultWorkers)
	v.SetDefault("pipeline.output_dir", DefaultOutputDir)

	v.SetDefault("ranker.command", ranker.DefaultCommand)
	v.SetDefault("ranker.args", ranker.DefaultArgs)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.textfile", "")
}

// ApplyDefaults fills zero-value fields in cfg. Fields already set are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = DefaultDataDir
	}
	if cfg.Data.ChEBI == "" {
		cfg.Data.ChEBI = DefaultChEBI
	}
	if cfg.Data.MEDIC == "" {
		cfg.Data.MEDIC = DefaultMEDIC
	}
	if cfg.Data.CTDChemicals == "" {
		cfg.Data.CTDChemicals = DefaultCTDChemicals
	}
	if cfg.Data.CorpusDir == "" {
		cfg.Data.CorpusDir = DefaultDataDir
	}
	if cfg.Data.RelationsDir == "" {
		cfg.Data.RelationsDir = DefaultDataDir
	}
	if cfg.Data.CDRFormat == "" {
		cfg.Data.CDRFormat = string(corpus.FormatPubTator)
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultRedisAddr
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = redis.DefaultPrefix
	}

	if cfg.Pipeline.MinMatchScore == 0 {
		cfg.Pipeline.MinMatchScore = candidates.DefaultMinScore
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = DefaultWorkers
	}
	if cfg.Pipeline.OutputDir == "" {
		cfg.Pipeline.OutputDir = DefaultOutputDir
	}

	if cfg.Ranker.Command == "" {
		cfg.Ranker.Command = ranker.DefaultCommand
		cfg.Ranker.Args = ranker.DefaultArgs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
