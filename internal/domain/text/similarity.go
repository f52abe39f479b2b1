package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// simTokenRe splits on whitespace plus / - _ . so "legal/nda_v2.pdf" and
// "legal nda" tokenize comparably.
var simTokenRe = regexp.MustCompile(`[\s/\-_.]+`)

// Similarity scores how alike two short strings are, in [0,1].
//
// Scoring ladder:
//   - either side empty -> 0
//   - case-insensitive exact match -> 1.0
//   - a contains b -> 0.9; b contains a -> 0.85 (asymmetric on purpose:
//     callers keep the candidate on the a side and the query on the b side)
//   - otherwise 0.7*wordScore + 0.3*charScore
//
// wordScore counts b's tokens that contain, or are contained by, some token
// of a, over max token count. charScore greedily consumes b's characters
// from a multiset of a's characters, over max string length.
//
// Pure function. For bulk workloads wrap it in a SimilarityCache.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) {
		return 0.9
	}
	if strings.Contains(lb, la) {
		return 0.85
	}
	return 0.7*wordScore(la, lb) + 0.3*charScore(la, lb)
}

// SimilarityFunc is the scoring signature shared by the pure function and
// the memoized cache method, so scorers accept either.
type SimilarityFunc func(a, b string) float64

func wordScore(la, lb string) float64 {
	tokensA := splitSimTokens(la)
	tokensB := splitSimTokens(lb)
	denom := max(len(tokensA), len(tokensB))
	if denom == 0 {
		return 0
	}

	matched := 0
	for _, tb := range tokensB {
		for _, ta := range tokensA {
			if strings.Contains(ta, tb) || strings.Contains(tb, ta) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(denom)
}

func charScore(la, lb string) float64 {
	denom := max(utf8.RuneCountInString(la), utf8.RuneCountInString(lb))
	if denom == 0 {
		return 0
	}

	// Multiset consume: each character of a satisfies at most one
	// character of b.
	pool := make(map[rune]int, len(la))
	for _, r := range la {
		pool[r]++
	}
	matched := 0
	for _, r := range lb {
		if pool[r] > 0 {
			pool[r]--
			matched++
		}
	}
	return float64(matched) / float64(denom)
}

func splitSimTokens(s string) []string {
	parts := simTokenRe.Split(s, -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
