package cmd

import (
	"os"

	"github.com/drew/refmap/internal/adapters/ahocorasick"
	"github.com/drew/refmap/internal/adapters/bbolt"
	"github.com/drew/refmap/internal/app"
	"github.com/drew/refmap/internal/config"
	"github.com/drew/refmap/internal/domain/index"
)

// localIndex builds a one-shot index over the corpus for commands that
// run without the daemon. Returns the index and the walked paths.
func localIndex(cfg *config.Config) (*index.Index, []string, error) {
	paths, err := app.WalkCorpus(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Ignore)
	if err != nil {
		return nil, nil, err
	}
	ix := index.Build(paths, index.Options{
		Limit:     cfg.Search.Limit,
		CacheSize: cfg.Search.CacheSize,
		Matcher:   ahocorasick.NewMatcher,
	})
	return ix, paths, nil
}

// openLocalStore opens the corpus store directly; the daemon must not
// hold it. Creates the state dir on first use.
func openLocalStore(root string) (*bbolt.Store, error) {
	p := app.NewPaths(root)
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}
	store, err := bbolt.NewStore(p.DB)
	if err != nil {
		return nil, openStoreError(root, err)
	}
	return store, nil
}

// localUsedPaths loads the committed mapping paths without a daemon.
// A corpus that has never stored anything yields an empty set.
func localUsedPaths(root string) (map[string]bool, error) {
	p := app.NewPaths(root)
	if _, err := os.Stat(p.DB); os.IsNotExist(err) {
		return nil, nil
	}
	store, err := bbolt.NewStore(p.DB)
	if err != nil {
		return nil, openStoreError(root, err)
	}
	defer store.Close()
	return store.UsedPaths()
}

// localFingerprint walks the corpus and fingerprints it, for exports
// stamped without a daemon.
func localFingerprint(cfg *config.Config) (string, error) {
	paths, err := app.WalkCorpus(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Ignore)
	if err != nil {
		return "", err
	}
	return app.Fingerprint(paths), nil
}
