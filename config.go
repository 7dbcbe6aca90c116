package strata

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the file form of catalog configuration. Every field is optional;
// zero values fall back to the built-in defaults.
type Config struct {
	// Path is the root directory for the filesystem object and pointer
	// stores.
	Path string `yaml:"path"`

	// CommitRetries bounds commit rebase attempts under contention.
	CommitRetries int `yaml:"commit_retries"`

	// SnapshotCacheSize is the snapshot reader cache capacity in entries.
	SnapshotCacheSize int `yaml:"snapshot_cache_size"`

	// MergeThreshold is the default chunk_block_num for new tables.
	MergeThreshold int `yaml:"merge_threshold"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CommitRetries < 0 {
		return fmt.Errorf("%w: commit_retries must not be negative", ErrInvalidConfig)
	}
	if c.MergeThreshold < 0 {
		return fmt.Errorf("%w: merge_threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}

// options translates the config into functional options, skipping zero
// fields so defaults apply.
func (c Config) options() []Option {
	var opts []Option
	if c.CommitRetries > 0 {
		opts = append(opts, WithCommitRetries(c.CommitRetries))
	}
	if c.SnapshotCacheSize > 0 {
		opts = append(opts, WithSnapshotCacheSize(c.SnapshotCacheSize))
	}
	if c.MergeThreshold > 0 {
		opts = append(opts, WithDefaultMergeThreshold(c.MergeThreshold))
	}
	return opts
}
