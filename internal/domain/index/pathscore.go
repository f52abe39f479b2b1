package index

import (
	"strings"

	"github.com/drew/refmap/internal/domain/text"
)

// PathScorer turns one (path, query) pair into a single fuzzy score by
// decomposing the path into folder and file parts and blending several
// similarity calls. Argument order matters: similarity awards containment
// asymmetrically, and each branch below fixes which side is which.
type PathScorer struct {
	sim text.SimilarityFunc
}

// NewPathScorer wraps a similarity function, usually a memoized cache
// method. A nil sim falls back to the pure function.
func NewPathScorer(sim text.SimilarityFunc) *PathScorer {
	if sim == nil {
		sim = text.Similarity
	}
	return &PathScorer{sim: sim}
}

// FuzzyScore scores path against query. Three query shapes:
//
//   - trailing "/": pure folder search, the path prefix compared against
//     the query with the slash stripped;
//   - embedded "/": split into queryPath/queryFile, scored
//     0.7·sim(fileName, queryFile) + 0.5·sim(pathPrefix, queryPath).
//     The weights sum to 1.2, not 1.0; the overshoot biases toward
//     candidates matching on both dimensions at once and is preserved
//     exactly for compatibility;
//   - plain: max(0.8·sim(fileName, query) + 0.3·bestFolder,
//     0.8·bestFolder), so a strong folder hit can outrank a weak
//     filename hit.
//
// A blank query scores 0 against every path.
func (s *PathScorer) FuzzyScore(path, query string) float64 {
	if strings.TrimSpace(query) == "" {
		return 0
	}

	fileName := path
	pathPrefix := ""
	if i := strings.LastIndex(path, "/"); i >= 0 {
		fileName = path[i+1:]
		pathPrefix = path[:i]
	}

	if strings.HasSuffix(query, "/") {
		return s.sim(pathPrefix, strings.TrimSuffix(query, "/"))
	}

	if i := strings.LastIndex(query, "/"); i >= 0 {
		queryPath := query[:i]
		queryFile := query[i+1:]
		return 0.7*s.sim(fileName, queryFile) + 0.5*s.sim(pathPrefix, queryPath)
	}

	bestFolder := 0.0
	if pathPrefix != "" {
		for _, folder := range strings.Split(pathPrefix, "/") {
			if v := s.sim(query, folder); v > bestFolder {
				bestFolder = v
			}
		}
	}
	fileScore := 0.8*s.sim(fileName, query) + 0.3*bestFolder
	if folderScore := 0.8 * bestFolder; folderScore > fileScore {
		return folderScore
	}
	return fileScore
}
