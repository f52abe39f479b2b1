package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drew/refmap/internal/ports"
)

// testCorpus is the small document tree most tests run against.
var testCorpus = []string{
	"contracts/service-agreement-2024.pdf",
	"discovery/exhibit-1.pdf",
	"discovery/exhibit-2.pdf",
	"notes/summary.pdf",
}

// newTestApp builds an App over a throwaway corpus. The daemon pieces
// stay cold: New builds the initial index but starts nothing.
func newTestApp(t *testing.T, files ...string) *App {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		writeCorpusFile(t, root, f)
	}
	a, err := New(Config{CorpusRoot: root})
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop() })
	return a
}

func mapPath(t *testing.T, a *App, refID, path string) {
	t.Helper()
	require.NoError(t, a.Store.SaveMapping(ports.Mapping{
		ReferenceID: refID,
		Path:        path,
		Score:       0.9,
		CreatedAt:   time.Now().Unix(),
	}))
}

func TestNew_BuildsInitialIndex(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	paths, tokens := a.IndexSize()
	assert.Equal(t, 4, paths)
	assert.Greater(t, tokens, 0)
	assert.Len(t, a.Fingerprint(), 12)

	st, err := a.Stats()
	require.NoError(t, err)
	assert.Equal(t, a.CorpusRoot, st.Root)
	assert.Equal(t, a.Fingerprint(), st.Fingerprint)
	assert.Equal(t, 4, st.PathCount)
	assert.Equal(t, 1, st.Rebuilds)
	assert.Equal(t, 0, st.ReferenceCount)
	assert.Equal(t, 0, st.MappingCount)
}

func TestNew_StateDirNeverIndexed(t *testing.T) {
	// New creates .refmap/ under the corpus root before the first walk;
	// the walk must not see it.
	a := newTestApp(t, "contracts/lease.pdf")

	paths, _ := a.IndexSize()
	assert.Equal(t, 1, paths)
	assert.True(t, a.HasPath("contracts/lease.pdf"))
	assert.False(t, a.HasPath(".refmap/refmap.db"))
}

func TestNew_RejectsBadRoot(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus root")

	_, err = New(Config{CorpusRoot: filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = New(Config{CorpusRoot: file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestSearch_RanksByScore(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	matches, err := a.Search("Service agreement 2024", 0, false)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "contracts/service-agreement-2024.pdf", matches[0].Path)
	assert.InDelta(t, 0.72, matches[0].Score, 1e-6)
}

func TestSearch_TiesKeepCorpusOrder(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	matches, err := a.Search("exhibit", 0, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "discovery/exhibit-1.pdf", matches[0].Path)
	assert.Equal(t, "discovery/exhibit-2.pdf", matches[1].Path)
	assert.Equal(t, matches[0].Score, matches[1].Score)
}

func TestSearch_LimitTruncates(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	matches, err := a.Search("exhibit", 1, false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "discovery/exhibit-1.pdf", matches[0].Path)
}

func TestSearch_ExcludesMappedPaths(t *testing.T) {
	a := newTestApp(t, testCorpus...)
	mapPath(t, a, "r1", "discovery/exhibit-1.pdf")

	matches, err := a.Search("exhibit", 0, false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "discovery/exhibit-2.pdf", matches[0].Path)

	matches, err = a.Search("exhibit", 0, true)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearch_EmptyTermBrowsesAll(t *testing.T) {
	a := newTestApp(t, testCorpus...)
	mapPath(t, a, "r1", "notes/summary.pdf")

	matches, err := a.Search("", 0, false)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "contracts/service-agreement-2024.pdf", matches[0].Path)
	assert.Zero(t, matches[0].Score)
}

func TestAutoMatch(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	refs := []ports.Reference{
		{ID: "r1", Description: "Exhibit 1 medical records"},
		{ID: "r2", Description: "Service agreement 2024"},
	}
	res, err := a.AutoMatch(refs)
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 2)

	// Output keeps caller order even though processing reorders.
	assert.Equal(t, "r1", res.Suggestions[0].Reference.ID)
	assert.Equal(t, "discovery/exhibit-1.pdf", res.Suggestions[0].SuggestedPath)
	assert.InDelta(t, 0.68, res.Suggestions[0].Score, 1e-6)

	assert.Equal(t, "r2", res.Suggestions[1].Reference.ID)
	assert.Equal(t, "contracts/service-agreement-2024.pdf", res.Suggestions[1].SuggestedPath)
	assert.InDelta(t, 0.72, res.Suggestions[1].Score, 1e-6)

	assert.Equal(t, 1, res.High)
	assert.Equal(t, 1, res.Medium)
	assert.Equal(t, 0, res.Low)
}

func TestAutoMatch_ExcludesMappedPaths(t *testing.T) {
	a := newTestApp(t, testCorpus...)
	mapPath(t, a, "r8", "discovery/exhibit-1.pdf")
	mapPath(t, a, "r9", "discovery/exhibit-2.pdf")

	// With both exhibits gone nothing in the pool resembles the
	// description, so the reference surfaces unmatched.
	res, err := a.AutoMatch([]ports.Reference{
		{ID: "r1", Description: "Exhibit 1 medical records"},
	})
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	assert.Empty(t, res.Suggestions[0].SuggestedPath)
	assert.Zero(t, res.Suggestions[0].Score)
	assert.Zero(t, res.High+res.Medium+res.Low)
}

func TestReindex_PicksUpNewFiles(t *testing.T) {
	a := newTestApp(t, "contracts/lease.pdf")
	before := a.Fingerprint()

	writeCorpusFile(t, a.CorpusRoot, "discovery/exhibit-9.pdf")

	res, err := a.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 2, res.PathCount)
	assert.NotEqual(t, before, res.Fingerprint)
	assert.Equal(t, res.Fingerprint, a.Fingerprint())
	assert.True(t, a.HasPath("discovery/exhibit-9.pdf"))

	st, err := a.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rebuilds)
}

func TestPaths_FilterAndUsed(t *testing.T) {
	a := newTestApp(t, testCorpus...)
	mapPath(t, a, "r1", "notes/summary.pdf")

	paths, err := a.Paths("", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"contracts/service-agreement-2024.pdf",
		"discovery/exhibit-1.pdf",
		"discovery/exhibit-2.pdf",
	}, paths)

	paths, err = a.Paths("", true)
	require.NoError(t, err)
	assert.Len(t, paths, 4)

	paths, err = a.Paths("DISCOVERY", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"discovery/exhibit-1.pdf",
		"discovery/exhibit-2.pdf",
	}, paths)
}

func TestHasPath(t *testing.T) {
	a := newTestApp(t, testCorpus...)
	assert.True(t, a.HasPath("notes/summary.pdf"))
	assert.False(t, a.HasPath("notes/missing.pdf"))
	assert.False(t, a.HasPath("summary.pdf"))
}

func TestStats_Counts(t *testing.T) {
	a := newTestApp(t, testCorpus...)

	require.NoError(t, a.Store.SaveReferences([]ports.Reference{
		{ID: "r1", Description: "Exhibit 1"},
		{ID: "r2", Description: "Service agreement"},
	}))
	mapPath(t, a, "r1", "discovery/exhibit-1.pdf")

	st, err := a.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.ReferenceCount)
	assert.Equal(t, 1, st.MappingCount)
	assert.Equal(t, 4, st.PathCount)
}
