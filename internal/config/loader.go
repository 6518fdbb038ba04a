package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/corey/reel/internal/ports"
)

// envPrefix is the environment variable prefix of every setting:
// data.corpus_dir resolves from REEL_DATA_CORPUS_DIR.
const envPrefix = "REEL"

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "reel.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// Load reads the YAML file at configPath, merges REEL_* environment
// overrides, applies defaults and validates the result. An empty configPath
// reads DefaultFile if it exists and otherwise runs on defaults and
// environment alone.
func Load(configPath string) (*Config, error) {
	v := newViper()

	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: read %q: %w", path, err)
			}
			return nil, fmt.Errorf("config: read %q: %w: %v", path, ports.ErrInvalidConfig, err)
		}
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %v", ports.ErrInvalidConfig, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
