package index

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/drew/refmap/internal/domain/text"
	"github.com/drew/refmap/internal/ports"
)

// Search runs one query against the index. excluded paths are treated as
// non-existent candidates and can never appear in the result.
//
// Three modes, chosen from the trimmed term:
//   - empty: browse-all, every available path at score 0 in corpus order;
//   - wildcard metacharacters present: candidates gathered from the
//     stripped pattern, then filtered and reordered by the wildcard sort;
//   - plain: token-driven candidate retrieval, fuzzy scoring, ranked
//     descending with ties stable in corpus order.
func (ix *Index) Search(term string, excluded map[string]bool) []ports.RankedMatch {
	start := time.Now()
	trimmed := strings.TrimSpace(term)

	if trimmed == "" {
		out := ix.browseAll(excluded)
		ix.debugf("search phase=browse results=%d elapsed=%v", len(out), time.Since(start))
		return out
	}

	if hasWildcard(trimmed) {
		out := ix.searchWildcard(trimmed, excluded)
		ix.debugf("search phase=wildcard query=%q results=%d elapsed=%v", trimmed, len(out), time.Since(start))
		return out
	}

	out := ix.rank(trimmed, excluded, ix.opts.Limit)
	ix.debugf("search phase=ranked query=%q results=%d elapsed=%v", trimmed, len(out), time.Since(start))
	return out
}

// browseAll returns every available path unranked, in corpus order.
func (ix *Index) browseAll(excluded map[string]bool) []ports.RankedMatch {
	out := make([]ports.RankedMatch, 0, len(ix.paths))
	for _, p := range ix.paths {
		if excluded[p] {
			continue
		}
		out = append(out, ports.RankedMatch{Path: p})
	}
	return out
}

// searchWildcard gathers candidates from the metacharacter-stripped base
// pattern, then lets the wildcard sort filter and reorder them using the
// original term. A pattern with no base at all starts from every
// available path at the flat wildcardBaseScore.
func (ix *Index) searchWildcard(term string, excluded map[string]bool) []ports.RankedMatch {
	base := strings.TrimSpace(stripWildcardMeta(term))

	var candidates []ports.RankedMatch
	if base != "" {
		candidates = ix.rank(base, excluded, wildcardCandidateLimit)
	} else {
		for _, p := range ix.paths {
			if excluded[p] {
				continue
			}
			candidates = append(candidates, ports.RankedMatch{Path: p, Score: wildcardBaseScore})
		}
	}

	return SortWildcard(candidates, term)
}

// rank is the plain fuzzy query path: candidate retrieval through the
// inverted index, then the three-way max score per candidate, gated at
// minScore and capped at limit.
func (ix *Index) rank(term string, excluded map[string]bool, limit int) []ports.RankedMatch {
	// Slashes separate tokens the same way they did at build time, so a
	// folder-shaped query like "contracts/" still reaches the token
	// "contracts" stored in the index.
	cleaned := text.Clean(strings.ReplaceAll(term, "/", " "))
	keyTerms := text.KeyTerms(term)
	qtokens := queryTokens(cleaned, keyTerms)
	if len(qtokens) == 0 {
		return nil
	}

	ids := ix.candidates(qtokens)

	type scored struct {
		id    int
		score float64
	}
	kept := make([]scored, 0, len(ids))
	for _, id := range ids {
		p := ix.paths[id]
		if excluded[p] {
			continue
		}
		fileName := p
		if i := strings.LastIndex(p, "/"); i >= 0 {
			fileName = p[i+1:]
		}

		s := ix.scorer.FuzzyScore(p, term)
		if v := ix.scorer.FuzzyScore(text.Clean(fileName), cleaned); v > s {
			s = v
		}
		if v := ix.scorer.FuzzyScore(p, keyTerms); v > s {
			s = v
		}
		if s > minScore {
			kept = append(kept, scored{id: id, score: s})
		}
	}

	// Candidates arrive in corpus order; the stable sort keeps that
	// order for equal scores, so results are deterministic across
	// rebuilds of the same corpus.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]ports.RankedMatch, len(kept))
	for i, k := range kept {
		out[i] = ports.RankedMatch{Path: ix.paths[k.id], Score: k.score}
	}
	return out
}

// candidates returns corpus positions of every path stored under an index
// key containing any query token as a substring. The loose containment is
// deliberate: partial-word queries still reach their paths.
func (ix *Index) candidates(qtokens []string) []int {
	seen := make(map[int]bool)
	var ids []int
	addKey := func(key string) {
		for _, id := range ix.postings[key] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if ix.opts.Matcher != nil {
		// One automaton over the query tokens scans each key in a
		// single pass regardless of token count.
		m := ix.opts.Matcher(qtokens)
		for _, key := range ix.keys {
			if len(m.Match(key)) > 0 {
				addKey(key)
			}
		}
	} else {
		for _, key := range ix.keys {
			for _, tok := range qtokens {
				if strings.Contains(key, tok) {
					addKey(key)
					break
				}
			}
		}
	}

	sort.Ints(ids)
	return ids
}

// queryTokens merges the cleaned term's tokens with the lowercased key
// terms, deduplicated, keeping only tokens longer than one character.
func queryTokens(cleaned, keyTerms string) []string {
	seen := make(map[string]bool)
	var tokens []string
	add := func(tok string) {
		if len(tok) > 1 && !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	for _, tok := range strings.Fields(cleaned) {
		add(tok)
	}
	for _, tok := range strings.Fields(strings.ToLower(keyTerms)) {
		add(tok)
	}
	return tokens
}

func (ix *Index) debugf(format string, args ...any) {
	if !ix.debug {
		return
	}
	fmt.Printf("[%s] [debug] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}
