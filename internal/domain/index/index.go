// Package index implements the searchable path index: an inverted map from
// normalized tokens to candidate paths, fuzzy path scoring, and the
// wildcard-driven result ordering used for pattern queries.
//
// An Index is immutable once built. Corpus changes mean a wholesale
// rebuild; callers swap in the new Index atomically and let in-flight
// searches finish against the old one.
package index

import (
	"os"
	"sort"
	"strings"

	"github.com/drew/refmap/internal/domain/text"
	"github.com/drew/refmap/internal/ports"
)

const (
	// DefaultLimit caps ranked results for bulk callers.
	DefaultLimit = 50
	// InteractiveLimit is the tighter cap used for search-box style queries.
	InteractiveLimit = 20

	// wildcardCandidateLimit bounds candidates gathered before wildcard
	// sorting; the sort itself never truncates further.
	wildcardCandidateLimit = 100
	// wildcardBaseScore is assigned when a pattern has no fuzzy base to
	// rank candidates with (e.g. the query is all metacharacters).
	wildcardBaseScore = 0.5
	// minScore gates candidates out of ranked results.
	minScore = 0.05
)

// Options tunes index construction. The zero value is ready to use.
type Options struct {
	// Limit caps ranked search results. Zero means DefaultLimit.
	Limit int
	// CacheSize bounds the similarity memo cache. Zero means the
	// text package default.
	CacheSize int
	// Matcher supplies the multi-pattern scanner used for candidate
	// retrieval. Nil falls back to a substring loop over index keys.
	Matcher ports.PatternMatcherFactory
}

// Index is the inverted token index over one path corpus.
type Index struct {
	paths    []string         // corpus order, as given
	postings map[string][]int // token -> path positions, ascending
	keys     []string         // sorted tokens, for deterministic scans

	scorer *PathScorer
	sim    *text.SimilarityCache
	opts   Options

	// debug enables phase timing output (REFMAP_DEBUG=1).
	debug bool
}

// Build constructs an index over paths. The slice is copied; the caller
// may reuse it. Build cost is linear in total path length and is paid
// once per corpus.
func Build(paths []string, opts Options) *Index {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	ix := &Index{
		paths:    append([]string(nil), paths...),
		postings: make(map[string][]int),
		sim:      text.NewSimilarityCache(opts.CacheSize),
		opts:     opts,
		debug:    os.Getenv("REFMAP_DEBUG") == "1",
	}
	ix.scorer = NewPathScorer(ix.sim.Similarity)

	for i, p := range ix.paths {
		for tok := range pathTokens(p) {
			ix.postings[tok] = append(ix.postings[tok], i)
		}
	}

	ix.keys = make([]string, 0, len(ix.postings))
	for tok := range ix.postings {
		ix.keys = append(ix.keys, tok)
	}
	sort.Strings(ix.keys)

	return ix
}

// pathTokens computes the token set for one path: the cleaned path with
// slashes as spaces, unioned with its lowercased key terms, keeping only
// tokens longer than one character.
func pathTokens(path string) map[string]struct{} {
	set := make(map[string]struct{})
	spaced := strings.ReplaceAll(path, "/", " ")
	for _, tok := range strings.Fields(text.Clean(spaced)) {
		if len(tok) > 1 {
			set[tok] = struct{}{}
		}
	}
	for _, tok := range strings.Fields(strings.ToLower(text.KeyTerms(path))) {
		if len(tok) > 1 {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Size returns the number of indexed paths.
func (ix *Index) Size() int { return len(ix.paths) }

// TokenCount returns the number of distinct index keys.
func (ix *Index) TokenCount() int { return len(ix.keys) }

// Paths returns a copy of the corpus in original order.
func (ix *Index) Paths() []string {
	return append([]string(nil), ix.paths...)
}

// CacheLen reports memoized similarity pairs, for stats output.
func (ix *Index) CacheLen() int { return ix.sim.Len() }
