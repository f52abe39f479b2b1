// Package app wires the domain core to its adapters. It owns the corpus
// walk, the current index, the reference store, and the watcher-driven
// rebuild loop; the socket server and the CLI both talk to an App.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/drew/refmap/internal/adapters/ahocorasick"
	"github.com/drew/refmap/internal/adapters/bbolt"
	fsn "github.com/drew/refmap/internal/adapters/fsnotify"
	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/domain/automatch"
	"github.com/drew/refmap/internal/domain/index"
	"github.com/drew/refmap/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	CorpusRoot string
	DBPath     string // path to bbolt file (default: .refmap/refmap.db)

	Include []string // corpus include globs (base names); empty = all
	Ignore  []string // extra names skipped during walk and watch

	SearchLimit int // ranked result cap (default: index.DefaultLimit)
	CacheSize   int // similarity memo entries (0 = package default)
	DebounceMs  int // rebuild coalescing window (default: 250)

	Matcher ports.PatternMatcherFactory // default: ahocorasick.NewMatcher
	Logger  *zap.Logger                 // default: zap.NewNop()
}

// snapshot pairs an index with the fingerprint of the walk that built it.
// Rebuilds swap the whole pair atomically.
type snapshot struct {
	ix          *index.Index
	fingerprint string
}

// App is the top-level container wiring all components together.
type App struct {
	CorpusRoot string
	StatePaths *Paths

	Store   *bbolt.Store
	Watcher *fsn.Watcher
	Server  *socket.Server

	cfg Config
	log *zap.Logger

	current atomic.Pointer[snapshot]

	mu       sync.Mutex  // guards debounce and rebuilds
	debounce *time.Timer // pending rebuild from watcher events
	rebuilds int
}

// New creates an App with all dependencies wired and the initial index
// built. Does not start the server or the watcher.
func New(cfg Config) (*App, error) {
	if cfg.CorpusRoot == "" {
		return nil, fmt.Errorf("corpus root required")
	}
	absRoot, err := filepath.Abs(cfg.CorpusRoot)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", absRoot)
	}
	cfg.CorpusRoot = absRoot

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Matcher == nil {
		cfg.Matcher = ahocorasick.NewMatcher
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = index.DefaultLimit
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = 250
	}

	paths := NewPaths(absRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	watcher, err := fsn.NewWatcher()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	a := &App{
		CorpusRoot: absRoot,
		StatePaths: paths,
		Store:      store,
		Watcher:    watcher,
		cfg:        cfg,
		log:        cfg.Logger,
	}
	a.Server = socket.NewServer(a, socket.SocketPath(absRoot))

	if _, err := a.Reindex(); err != nil {
		watcher.Stop()
		store.Close()
		return nil, fmt.Errorf("initial index: %w", err)
	}

	return a, nil
}

// Start brings up the socket server and the corpus watcher, and records
// the daemon PID. The watcher is non-fatal: a corpus on a filesystem
// without notification support still serves searches, just without
// automatic rebuilds.
func (a *App) Start() error {
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	if err := a.Watcher.Watch(a.CorpusRoot, a.onCorpusChange); err != nil {
		a.log.Warn("corpus watcher unavailable", zap.Error(err))
	}

	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(a.StatePaths.PIDFile, []byte(pid), 0644); err != nil {
		a.log.Warn("write pid file", zap.Error(err))
	}

	a.log.Info("daemon started",
		zap.String("root", a.CorpusRoot),
		zap.String("socket", a.Server.Addr()))
	return nil
}

// Stop shuts down the watcher, the server, and the store. Safe to call
// after a failed or skipped Start.
func (a *App) Stop() error {
	a.mu.Lock()
	if a.debounce != nil {
		a.debounce.Stop()
		a.debounce = nil
	}
	a.mu.Unlock()

	a.Watcher.Stop()
	a.Server.Stop()
	err := a.Store.Close()
	a.StatePaths.CleanEphemeral()
	return err
}

// Search implements socket.AppQueries. Committed mapping paths are
// excluded unless includeUsed is set; limit truncates after ranking.
func (a *App) Search(term string, limit int, includeUsed bool) ([]ports.RankedMatch, error) {
	snap := a.current.Load()

	var excluded map[string]bool
	if !includeUsed {
		used, err := a.Store.UsedPaths()
		if err != nil {
			return nil, fmt.Errorf("load used paths: %w", err)
		}
		excluded = used
	}

	matches := snap.ix.Search(term, excluded)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// AutoMatch implements socket.AppQueries. The path pool is the current
// index; committed mapping paths are excluded up front. Progress is
// logged here, it does not cross the socket.
func (a *App) AutoMatch(refs []ports.Reference) (ports.AutoMatchResult, error) {
	snap := a.current.Load()

	used, err := a.Store.UsedPaths()
	if err != nil {
		return ports.AutoMatchResult{}, fmt.Errorf("load used paths: %w", err)
	}

	result := automatch.Run(refs, snap.ix.Paths(), used, automatch.Options{
		Index: index.Options{CacheSize: a.cfg.CacheSize, Matcher: a.cfg.Matcher},
		Progress: func(done, total int) {
			a.log.Info("automatch progress", zap.Int("done", done), zap.Int("total", total))
		},
	})
	return result, nil
}

// Paths implements socket.AppQueries: the indexed paths, optionally
// narrowed by a case-insensitive substring filter.
func (a *App) Paths(filter string, includeUsed bool) ([]string, error) {
	snap := a.current.Load()

	var used map[string]bool
	if !includeUsed {
		var err error
		used, err = a.Store.UsedPaths()
		if err != nil {
			return nil, fmt.Errorf("load used paths: %w", err)
		}
	}

	needle := strings.ToLower(filter)
	var out []string
	for _, p := range snap.ix.Paths() {
		if used[p] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p), needle) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// HasPath reports whether path is part of the current corpus.
func (a *App) HasPath(path string) bool {
	snap := a.current.Load()
	for _, p := range snap.ix.Paths() {
		if p == path {
			return true
		}
	}
	return false
}

// IndexSize implements socket.AppQueries.
func (a *App) IndexSize() (int, int) {
	snap := a.current.Load()
	return snap.ix.Size(), snap.ix.TokenCount()
}

// Fingerprint returns the fingerprint of the current corpus snapshot.
func (a *App) Fingerprint() string {
	return a.current.Load().fingerprint
}

// Reindex walks the corpus, builds a fresh index, and swaps it in
// atomically. In-flight searches finish against the old snapshot.
// Implements socket.AppQueries.
func (a *App) Reindex() (socket.ReindexResult, error) {
	start := time.Now()

	paths, err := WalkCorpus(a.CorpusRoot, a.cfg.Include, a.cfg.Ignore)
	if err != nil {
		return socket.ReindexResult{}, fmt.Errorf("walk corpus: %w", err)
	}

	ix := index.Build(paths, index.Options{
		Limit:     a.cfg.SearchLimit,
		CacheSize: a.cfg.CacheSize,
		Matcher:   a.cfg.Matcher,
	})
	snap := &snapshot{ix: ix, fingerprint: Fingerprint(paths)}
	a.current.Store(snap)

	a.mu.Lock()
	a.rebuilds++
	a.mu.Unlock()

	elapsed := time.Since(start)
	a.log.Info("index rebuilt",
		zap.Int("paths", ix.Size()),
		zap.Int("tokens", ix.TokenCount()),
		zap.String("fingerprint", snap.fingerprint),
		zap.Duration("elapsed", elapsed))

	return socket.ReindexResult{
		PathCount:   ix.Size(),
		TokenCount:  ix.TokenCount(),
		Fingerprint: snap.fingerprint,
		ElapsedMs:   elapsed.Milliseconds(),
	}, nil
}

// Stats implements socket.AppQueries. Uptime is the server's to fill.
func (a *App) Stats() (socket.StatsResult, error) {
	snap := a.current.Load()

	refs, err := a.Store.LoadReferences()
	if err != nil {
		return socket.StatsResult{}, fmt.Errorf("load references: %w", err)
	}
	mappings, err := a.Store.LoadMappings()
	if err != nil {
		return socket.StatsResult{}, fmt.Errorf("load mappings: %w", err)
	}

	a.mu.Lock()
	rebuilds := a.rebuilds
	a.mu.Unlock()

	return socket.StatsResult{
		Root:           a.CorpusRoot,
		Fingerprint:    snap.fingerprint,
		PathCount:      snap.ix.Size(),
		TokenCount:     snap.ix.TokenCount(),
		ReferenceCount: len(refs),
		MappingCount:   len(mappings),
		Rebuilds:       rebuilds,
	}, nil
}
