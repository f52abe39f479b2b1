// Package automatch pairs unmatched references with available paths in
// bulk: one search index over the unused paths serves every reference in
// the pass, and each claimed path is withheld from later references so no
// path is suggested twice.
package automatch

import (
	"sort"
	"strings"

	"github.com/drew/refmap/internal/domain/index"
	"github.com/drew/refmap/internal/ports"
)

// suggestionFloor is the minimum top-result score that produces a
// suggestion. Below it the reference is surfaced as having no match
// rather than silently dropped.
const suggestionFloor = 0.15

// Options tunes one automatch pass. The zero value is ready to use.
type Options struct {
	// Index is forwarded to the index built over the unused paths.
	Index index.Options
	// Progress, when set, is called periodically with processed and
	// total reference counts.
	Progress ports.ProgressFunc
}

// Run matches every reference against the paths not already excluded.
//
// References are processed in descending word-count order of their
// descriptions, so longer, more specific descriptions get first pick of
// contested paths. The returned suggestions are in the caller's original
// reference order regardless, one per input reference.
func Run(refs []ports.Reference, paths []string, excluded map[string]bool, opts Options) ports.AutoMatchResult {
	res := ports.AutoMatchResult{Suggestions: make([]ports.Suggestion, len(refs))}
	if len(refs) == 0 {
		return res
	}

	unused := make([]string, 0, len(paths))
	for _, p := range paths {
		if !excluded[p] {
			unused = append(unused, p)
		}
	}
	ix := index.Build(unused, opts.Index)

	// Processing order only; output positions stay fixed. The stable
	// sort keeps caller order among equal word counts.
	order := make([]int, len(refs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return wordCount(refs[order[i]].Description) > wordCount(refs[order[j]].Description)
	})

	stride := len(refs) / 20
	if stride < 10 {
		stride = 10
	}

	suggested := make(map[string]bool)
	for done, pos := range order {
		ref := refs[pos]
		sug := ports.Suggestion{Reference: ref}

		matches := ix.Search(ref.Description, suggested)
		if len(matches) > 0 && matches[0].Score > suggestionFloor {
			sug.SuggestedPath = matches[0].Path
			sug.Score = matches[0].Score
			suggested[sug.SuggestedPath] = true
		}
		res.Suggestions[pos] = sug

		if opts.Progress != nil && ((done+1)%stride == 0 || done+1 == len(refs)) {
			opts.Progress(done+1, len(refs))
		}
	}

	for _, s := range res.Suggestions {
		if s.SuggestedPath == "" {
			continue
		}
		switch ports.Confidence(s.Score) {
		case "high":
			res.High++
		case "medium":
			res.Medium++
		default:
			res.Low++
		}
	}
	return res
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
