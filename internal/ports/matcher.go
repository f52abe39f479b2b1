package ports

// PatternMatcher reports which of a fixed pattern set occur as substrings
// of a given string. The index builds one matcher per query over the
// query's token set and scans every stored key with it, so a single pass
// over each key finds all token hits at once. The concrete implementation
// (Aho-Corasick) lives in internal/adapters/ahocorasick.
type PatternMatcher interface {
	// Match returns the patterns found in content, deduplicated, in
	// pattern-set order. Returns nil when nothing matches.
	Match(content string) []string
}

// PatternMatcherFactory builds a matcher for one query's token set.
// A fresh matcher per search keeps concurrent searches independent;
// a nil factory makes the index fall back to a plain substring loop.
type PatternMatcherFactory func(patterns []string) PatternMatcher
