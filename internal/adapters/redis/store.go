// Package redis implements ports.CandidateStore on a shared Redis server so
// several runs (or hosts) can reuse one match cache. Each ontology is one
// hash: field = mention text, value = JSON match list.
package redis

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "reel:"

// Config selects the server and key namespace.
type Config struct {
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	Prefix   string        `mapstructure:"redis_prefix"`
	Timeout  time.Duration `mapstructure:"redis_timeout"`
}

func applyDefaults(cfg *Config) {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
}

// Store implements ports.CandidateStore backed by Redis hashes.
type Store struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	log     logging.Logger
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg Config, log logging.Logger) (*Store, error) {
	applyDefaults(&cfg)
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	log.Debug("redis match store connected", logging.String("addr", cfg.Addr), logging.String("prefix", cfg.Prefix))
	return &Store{rdb: rdb, prefix: cfg.Prefix, timeout: cfg.Timeout, log: log}, nil
}

func (s *Store) key(o ports.Ontology) string {
	return s.prefix + "matches:" + string(o)
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Load returns every cached entry of an ontology. A missing hash is an empty
// cache; an undecodable field fails the load.
func (s *Store) Load(o ports.Ontology) (map[string][]ports.RawMatch, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	raw, err := s.rdb.HGetAll(ctx, s.key(o)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	entries := make(map[string][]ports.RawMatch, len(raw))
	for field, value := range raw {
		var matches []ports.RawMatch
		if err := json.Unmarshal([]byte(value), &matches); err != nil {
			return nil, fmt.Errorf("decode %q: %w", field, err)
		}
		entries[field] = matches
	}
	return entries, nil
}

// Save upserts entries in one pipelined HSET.
func (s *Store) Save(o ports.Ontology, entries map[string][]ports.RawMatch) error {
	if len(entries) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(entries))
	for k, v := range entries {
		if v == nil {
			v = []ports.RawMatch{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		fields[k] = b
	}

	ctx, cancel := s.ctx()
	defer cancel()
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, s.key(o), fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Count returns the number of cached entries of an ontology.
func (s *Store) Count(o ports.Ontology) (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	n, err := s.rdb.HLen(ctx, s.key(o)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen: %w", err)
	}
	return int(n), nil
}

// Delete removes every cached entry of an ontology. Idempotent.
func (s *Store) Delete(o ports.Ontology) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.rdb.Del(ctx, s.key(o)).Err()
}

// Close closes the client connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}
