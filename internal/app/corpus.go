package app

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	fsn "github.com/drew/refmap/internal/adapters/fsnotify"
)

// WalkCorpus discovers the document corpus under root: every regular file
// that survives the watcher's ignore filters, the optional include globs
// (matched against base names), and the extra ignore names from config.
// Paths come back relative to root, slash-separated, sorted; that order
// is the corpus order every index build sees.
func WalkCorpus(root string, include, ignore []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	ignoreSet := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignoreSet[name] = true
	}

	var paths []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable
		}
		name := info.Name()
		if info.IsDir() {
			if path != absRoot && (fsn.ShouldIgnoreDir(name) || ignoreSet[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if fsn.ShouldIgnorePath(absRoot, path) || ignoreSet[name] {
			return nil
		}
		if len(include) > 0 && !matchesAny(include, name) {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func matchesAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

// Fingerprint identifies a corpus snapshot: sha256 over the sorted path
// list, truncated to 12 hex chars. Exports stamp it; imports compare it
// against the live corpus.
func Fingerprint(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, p := range sorted {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
