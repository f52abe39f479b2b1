// Package config loads the optional .refmap/config.yml. A missing file
// means defaults; a malformed one is an error, never a silent fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drew/refmap/internal/domain/index"
)

// DefaultDebounceMs is the rebuild debounce applied when the config
// does not set one.
const DefaultDebounceMs = 250

// Config is the full configuration tree.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig locates and filters the document corpus.
type CorpusConfig struct {
	// Root is the corpus directory. Defaults to the directory holding
	// the .refmap state dir.
	Root string `yaml:"root"`
	// Include holds glob patterns matched against file base names.
	// Empty means every file.
	Include []string `yaml:"include"`
	// Ignore holds extra directory or file names to skip, on top of
	// the built-in scratch-file filters.
	Ignore []string `yaml:"ignore"`
}

// SearchConfig tunes result caps and the similarity cache.
type SearchConfig struct {
	Limit            int `yaml:"limit"`             // ranked result cap
	InteractiveLimit int `yaml:"interactive_limit"` // CLI display cap
	CacheSize        int `yaml:"cache_size"`        // similarity memo entries, 0 = package default
}

// WatchConfig tunes the corpus watcher.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"` // rebuild coalescing window
}

// LoggingConfig tunes the daemon log.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // defaults under .refmap/log/
}

// Load reads root/.refmap/config.yml. A missing file yields the defaults
// for root; any other read or parse failure is an error.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, ".refmap", "config.yml")

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.normalize(root)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) normalize(root string) {
	if c.Corpus.Root == "" {
		c.Corpus.Root = root
	}
	c.Corpus.Root = expandPath(c.Corpus.Root)

	if c.Search.Limit == 0 {
		c.Search.Limit = index.DefaultLimit
	}
	if c.Search.InteractiveLimit == 0 {
		c.Search.InteractiveLimit = index.InteractiveLimit
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.Corpus.Root, ".refmap", "log", "daemon.log")
	} else {
		c.Logging.File = expandPath(c.Logging.File)
	}
}

func (c *Config) validate() error {
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must not be negative")
	}
	if c.Search.InteractiveLimit < 0 {
		return fmt.Errorf("search.interactive_limit must not be negative")
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("search.cache_size must not be negative")
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p)
}
