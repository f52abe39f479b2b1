// Package ahocorasick provides multi-pattern substring matching using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick
// library for O(n + m + z) matching, so a query's whole token set is
// checked against each index key in a single pass.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/drew/refmap/internal/ports"
)

// Matcher holds one compiled automaton over a query's token set.
type Matcher struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewMatcher compiles an automaton from the given patterns. It satisfies
// ports.PatternMatcherFactory; the index builds one matcher per search.
func NewMatcher(patterns []string) ports.PatternMatcher {
	p := make([]string, len(patterns))
	copy(p, patterns)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Matcher{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

var _ ports.PatternMatcherFactory = NewMatcher

// Match returns all patterns found as substrings of content, deduplicated.
func (m *Matcher) Match(content string) []string {
	if len(m.patterns) == 0 {
		return nil
	}
	matches := m.automaton.FindAll(content)
	if len(matches) == 0 {
		return nil
	}

	// Deduplicate by pattern
	seen := make(map[string]bool, len(matches))
	var result []string
	for i := range matches {
		pat := m.patterns[matches[i].Pattern()]
		if !seen[pat] {
			seen[pat] = true
			result = append(result, pat)
		}
	}
	return result
}
