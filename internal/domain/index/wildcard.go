package index

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/drew/refmap/internal/domain/text"
	"github.com/drew/refmap/internal/ports"
)

// wildcardMeta is the metacharacter set that flips a query into wildcard
// mode. Slash is deliberately absent: path-shaped queries stay fuzzy.
const wildcardMeta = `*?+[](){}|\^$`

var (
	wildcardMetaRe = regexp.MustCompile(`[*?+\[\](){}|\\^$]`)
	// wildNameSepRe collapses separators in a filename before regex
	// matching, so "exhibit *" reaches "exhibit-1.pdf".
	wildNameSepRe = regexp.MustCompile(`[\s_\-.]+`)
	digitRunRe    = regexp.MustCompile(`\d+`)
)

// hasWildcard reports whether the term contains wildcard metacharacters.
func hasWildcard(term string) bool {
	return strings.ContainsAny(term, wildcardMeta)
}

// stripWildcardMeta removes metacharacters, leaving the fuzzy base pattern.
func stripWildcardMeta(term string) string {
	return wildcardMetaRe.ReplaceAllString(term, "")
}

// CompileWildcard converts a user pattern to a case-insensitive regex:
// every metacharacter except * and ? is escaped, * becomes a capturing
// (.*), ? a capturing (.). The first capture group is the sort key source.
func CompileWildcard(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString("(.*)")
		case '?':
			b.WriteString("(.)")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile wildcard %q: %w", pattern, err)
	}
	return re, nil
}

// SortWildcard filters matches to those whose filename matches the
// pattern and reorders them by the first captured value: captures with a
// digit run sort numerically, the rest sort as locale-aware strings, and
// numeric keys order before string keys when mixed. If the pattern
// matches no filename at all the input is returned unchanged, so a bad
// pattern degrades to a no-op instead of an empty result.
func SortWildcard(matches []ports.RankedMatch, pattern string) []ports.RankedMatch {
	re, err := CompileWildcard(pattern)
	if err != nil {
		return matches
	}

	type keyed struct {
		match   ports.RankedMatch
		numeric bool
		n       int
		s       string
	}
	var kept []keyed
	for _, m := range matches {
		groups := re.FindStringSubmatch(wildcardName(m.Path))
		if groups == nil {
			continue
		}
		k := keyed{match: m}
		if len(groups) > 1 {
			capture := groups[1]
			if run := digitRunRe.FindString(capture); run != "" {
				if n, convErr := strconv.Atoi(run); convErr == nil {
					k.numeric = true
					k.n = n
				} else {
					k.s = capture
				}
			} else {
				k.s = capture
			}
		}
		kept = append(kept, k)
	}
	if len(kept) == 0 {
		return matches
	}

	// Collators keep internal buffers, so build one per sort rather
	// than sharing across goroutines.
	coll := collate.New(language.Und)
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.numeric != b.numeric {
			return a.numeric
		}
		if a.numeric {
			return a.n < b.n
		}
		return coll.CompareString(a.s, b.s) < 0
	})

	out := make([]ports.RankedMatch, len(kept))
	for i, k := range kept {
		out[i] = k.match
	}
	return out
}

// wildcardName is the filename form patterns match against: extension
// stripped, separators collapsed to single spaces, lowercased.
func wildcardName(path string) string {
	fileName := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		fileName = path[i+1:]
	}
	name := text.StripExtension(fileName)
	name = wildNameSepRe.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}
