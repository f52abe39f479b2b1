package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScore_BlankQuery(t *testing.T) {
	s := NewPathScorer(nil)
	assert.Zero(t, s.FuzzyScore("contracts/legal/nda.pdf", ""))
	assert.Zero(t, s.FuzzyScore("contracts/legal/nda.pdf", "   "))
}

func TestFuzzyScore_TrailingSlashComparesFolders(t *testing.T) {
	s := NewPathScorer(nil)
	// "contracts/legal" contains "contracts", the 0.9 containment tier.
	assert.InDelta(t, 0.9, s.FuzzyScore("contracts/legal/nda.pdf", "contracts/"), 1e-9)
}

func TestFuzzyScore_TrailingSlashIgnoresFileName(t *testing.T) {
	s := NewPathScorer(nil)
	// The filename matches the query exactly but a folder query only
	// looks at the path prefix.
	got := s.FuzzyScore("archive/reports.pdf", "reports/")
	assert.Less(t, got, 0.5)
}

func TestFuzzyScore_EmbeddedSlashBlendsBothSides(t *testing.T) {
	s := NewPathScorer(nil)
	// 0.7*sim("nda.pdf","nda") + 0.5*sim("contracts/legal","legal"),
	// both containment hits at 0.9.
	got := s.FuzzyScore("contracts/legal/nda.pdf", "legal/nda")
	assert.InDelta(t, 1.08, got, 1e-9)
}

func TestFuzzyScore_EmbeddedSlashExactPathExceedsOne(t *testing.T) {
	s := NewPathScorer(nil)
	// The weights sum to 1.2, so a path matching its own full form
	// scores above 1.0. Downstream ordering only compares scores
	// within one query, so the overshoot is harmless and kept.
	got := s.FuzzyScore("contracts/legal/nda.pdf", "contracts/legal/nda.pdf")
	assert.InDelta(t, 1.2, got, 1e-9)
}

func TestFuzzyScore_PlainQueryFileNameHit(t *testing.T) {
	s := NewPathScorer(nil)
	// 0.8*sim("nda.pdf","nda") + 0.3*bestFolder where the folders
	// contribute only a small character-overlap score.
	got := s.FuzzyScore("contracts/legal/nda.pdf", "nda")
	assert.InDelta(t, 0.74, got, 1e-9)
}

func TestFuzzyScore_PlainQueryFolderCanOutrankFileName(t *testing.T) {
	s := NewPathScorer(nil)
	// "invoices" matches a folder exactly and the filename barely at
	// all, so the 0.8*bestFolder arm wins.
	got := s.FuzzyScore("invoices/q3/summary.pdf", "invoices")
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestFuzzyScore_PlainQueryNoSeparatorsInPath(t *testing.T) {
	s := NewPathScorer(nil)
	// A bare filename has no folders; only the filename arm applies.
	assert.InDelta(t, 0.8*0.9, s.FuzzyScore("nda.pdf", "nda"), 1e-9)
}

func TestFuzzyScore_UsesInjectedSimilarity(t *testing.T) {
	calls := 0
	s := NewPathScorer(func(a, b string) float64 {
		calls++
		return 1.0
	})
	got := s.FuzzyScore("a/b.pdf", "b")
	// fileScore = 0.8*1 + 0.3*1 = 1.1 with every sim call returning 1.
	assert.InDelta(t, 1.1, got, 1e-9)
	assert.Equal(t, 2, calls)
}
