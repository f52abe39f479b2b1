package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drew/refmap/internal/ports"
)

var discoveryCorpus = []string{
	"discovery/exhibit-10.pdf",
	"discovery/exhibit-2.pdf",
	"discovery/exhibit-1.pdf",
	"notes/summary.pdf",
}

func TestBuild_SizeAndTokens(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	assert.Equal(t, 4, ix.Size())
	assert.Greater(t, ix.TokenCount(), 0)
}

func TestBuild_CopiesPaths(t *testing.T) {
	paths := []string{"a/one.pdf", "b/two.pdf"}
	ix := Build(paths, Options{})
	paths[0] = "mutated"
	assert.Equal(t, []string{"a/one.pdf", "b/two.pdf"}, ix.Paths())

	got := ix.Paths()
	got[1] = "mutated"
	assert.Equal(t, []string{"a/one.pdf", "b/two.pdf"}, ix.Paths())
}

func TestSearch_EmptyTermBrowsesAll(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	got := ix.Search("   ", nil)
	require.Len(t, got, 4)
	for i, m := range got {
		assert.Equal(t, discoveryCorpus[i], m.Path)
		assert.Zero(t, m.Score)
	}
}

func TestSearch_EmptyTermSkipsExcluded(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	got := ix.Search("", map[string]bool{"discovery/exhibit-2.pdf": true})
	require.Len(t, got, 3)
	for _, m := range got {
		assert.NotEqual(t, "discovery/exhibit-2.pdf", m.Path)
	}
}

func TestSearch_RankedFindsSubstringTokens(t *testing.T) {
	ix := Build([]string{
		"contracts/service-agreement-2024.pdf",
		"notes/summary.pdf",
	}, Options{})
	// "agree" is a partial word; the stored key "agreement" contains it.
	got := ix.Search("agree", nil)
	require.NotEmpty(t, got)
	assert.Equal(t, "contracts/service-agreement-2024.pdf", got[0].Path)
	assert.Greater(t, got[0].Score, 0.5)
}

func TestSearch_NoCandidatesReturnsEmpty(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	assert.Empty(t, ix.Search("zzzqqq", nil))
}

func TestSearch_FolderQueryMatchesByPrefixOnly(t *testing.T) {
	ix := Build([]string{
		"contracts/legal/nda.pdf",
		"exhibits/photo.jpg",
	}, Options{})
	got := ix.Search("contracts/", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "contracts/legal/nda.pdf", got[0].Path)
	assert.InDelta(t, 0.9, got[0].Score, 1e-9)
}

func TestSearch_RankedTiesKeepCorpusOrder(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	got := ix.Search("exhibit", nil)
	require.Len(t, got, 3)
	assert.Equal(t, "discovery/exhibit-10.pdf", got[0].Path)
	assert.Equal(t, "discovery/exhibit-2.pdf", got[1].Path)
	assert.Equal(t, "discovery/exhibit-1.pdf", got[2].Path)
}

func TestSearch_ExclusionRemovesWithoutReordering(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	full := ix.Search("exhibit", nil)
	require.Len(t, full, 3)

	got := ix.Search("exhibit", map[string]bool{full[1].Path: true})
	require.Len(t, got, 2)
	assert.Equal(t, full[0].Path, got[0].Path)
	assert.Equal(t, full[2].Path, got[1].Path)
	assert.Equal(t, full[0].Score, got[0].Score)
	assert.Equal(t, full[2].Score, got[1].Score)
}

func TestSearch_LimitCapsResults(t *testing.T) {
	ix := Build(discoveryCorpus, Options{Limit: 2})
	got := ix.Search("exhibit", nil)
	assert.Len(t, got, 2)
}

func TestSearch_WildcardOrdersNumerically(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	got := ix.Search("exhibit *", nil)
	require.Len(t, got, 3)
	assert.Equal(t, "discovery/exhibit-1.pdf", got[0].Path)
	assert.Equal(t, "discovery/exhibit-2.pdf", got[1].Path)
	assert.Equal(t, "discovery/exhibit-10.pdf", got[2].Path)
}

func TestSearch_WildcardAllMetaStartsFromEveryPath(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	// No fuzzy base survives stripping, so every available path is a
	// candidate and the regex filter does all the work.
	got := ix.Search("*", nil)
	require.Len(t, got, 4)
}

func TestSearch_SameCorpusSameResults(t *testing.T) {
	a := Build(discoveryCorpus, Options{})
	b := Build(discoveryCorpus, Options{})
	for _, term := range []string{"", "exhibit", "exhibit *", "summary", "discovery/"} {
		assert.Equal(t, a.Search(term, nil), b.Search(term, nil), "term %q", term)
	}
}

// containsMatcher mirrors the fallback substring scan, exercising the
// pluggable matcher path in isolation.
type containsMatcher struct {
	patterns []string
}

func (m containsMatcher) Match(content string) []string {
	var out []string
	for _, p := range m.patterns {
		if strings.Contains(content, p) {
			out = append(out, p)
		}
	}
	return out
}

func TestSearch_MatcherFactoryMatchesFallback(t *testing.T) {
	plain := Build(discoveryCorpus, Options{})
	withFactory := Build(discoveryCorpus, Options{
		Matcher: func(patterns []string) ports.PatternMatcher {
			return containsMatcher{patterns: patterns}
		},
	})
	for _, term := range []string{"exhibit", "summary", "exhibit *", "notes/"} {
		assert.Equal(t, plain.Search(term, nil), withFactory.Search(term, nil), "term %q", term)
	}
}

func TestSearch_PopulatesSimilarityCache(t *testing.T) {
	ix := Build(discoveryCorpus, Options{})
	assert.Zero(t, ix.CacheLen())
	ix.Search("exhibit", nil)
	assert.Greater(t, ix.CacheLen(), 0)
}
