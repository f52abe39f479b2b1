package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drew/refmap/internal/ports"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func makeTestReferences() []ports.Reference {
	return []ports.Reference{
		{ID: "ref-001", Description: "Service agreement 2024", Date: "2024-03-01", ExternalRef: "CTR-88"},
		{ID: "ref-002", Description: "Exhibit 10 medical records"},
		{ID: "ref-003", Description: "Invoice for March services", Generated: true},
	}
}

func TestStore_SaveLoadReferences_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	original := makeTestReferences()

	require.NoError(t, store.SaveReferences(original))

	loaded, err := store.LoadReferences()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStore_LoadReferences_FreshStore(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadReferences()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveReferences_ReplacesWholesale(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveReferences(makeTestReferences()))
	require.NoError(t, store.SaveReferences([]ports.Reference{
		{ID: "ref-100", Description: "replacement"},
	}))

	loaded, err := store.LoadReferences()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ref-100", loaded[0].ID)
}

func TestStore_SaveMapping_RoundtripAndOverwrite(t *testing.T) {
	store, _ := newTestStore(t)

	m := ports.Mapping{ReferenceID: "ref-001", Path: "contracts/agreement.pdf", Score: 0.9, CreatedAt: 1700000000}
	require.NoError(t, store.SaveMapping(m))

	loaded, err := store.LoadMappings()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, m, loaded[0])

	// Overwrite for the same reference replaces, not appends.
	m2 := ports.Mapping{ReferenceID: "ref-001", Path: "contracts/agreement-v2.pdf", Score: 0.8, CreatedAt: 1700000100}
	require.NoError(t, store.SaveMapping(m2))

	loaded, err = store.LoadMappings()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "contracts/agreement-v2.pdf", loaded[0].Path)
}

func TestStore_SaveMapping_RejectsIncomplete(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.SaveMapping(ports.Mapping{Path: "a/b.pdf"}))
	assert.Error(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-001"}))
}

func TestStore_LoadMappings_SortedByReferenceID(t *testing.T) {
	store, _ := newTestStore(t)

	for _, id := range []string{"ref-002", "ref-001", "ref-003"} {
		require.NoError(t, store.SaveMapping(ports.Mapping{
			ReferenceID: id,
			Path:        "files/" + id + ".pdf",
		}))
	}

	loaded, err := store.LoadMappings()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "ref-001", loaded[0].ReferenceID)
	assert.Equal(t, "ref-002", loaded[1].ReferenceID)
	assert.Equal(t, "ref-003", loaded[2].ReferenceID)
}

func TestStore_LoadMappings_FreshStore(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadMappings()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_DeleteMapping(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-001", Path: "a/one.pdf"}))
	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-002", Path: "b/two.pdf"}))

	require.NoError(t, store.DeleteMapping("ref-001"))

	loaded, err := store.LoadMappings()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ref-002", loaded[0].ReferenceID)

	// Deleting again, or deleting an unknown ID, is not an error.
	assert.NoError(t, store.DeleteMapping("ref-001"))
	assert.NoError(t, store.DeleteMapping("never-existed"))
}

func TestStore_UsedPaths(t *testing.T) {
	store, _ := newTestStore(t)

	used, err := store.UsedPaths()
	require.NoError(t, err)
	assert.Empty(t, used)

	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-001", Path: "a/one.pdf"}))
	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-002", Path: "b/two.pdf"}))

	used, err = store.UsedPaths()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a/one.pdf": true, "b/two.pdf": true}, used)

	require.NoError(t, store.DeleteMapping("ref-001"))
	used, err = store.UsedPaths()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b/two.pdf": true}, used)
}

func TestStore_Wipe(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveReferences(makeTestReferences()))
	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-001", Path: "a/one.pdf"}))

	require.NoError(t, store.Wipe())

	refs, err := store.LoadReferences()
	require.NoError(t, err)
	assert.Nil(t, refs)

	mappings, err := store.LoadMappings()
	require.NoError(t, err)
	assert.Nil(t, mappings)

	// Wiping an empty store is not an error.
	assert.NoError(t, store.Wipe())
}

func TestStore_SurvivesReopen(t *testing.T) {
	// Save, close, reopen. Data from committed transactions is intact.
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveReferences(makeTestReferences()))
	require.NoError(t, store.SaveMapping(ports.Mapping{ReferenceID: "ref-001", Path: "a/one.pdf", Score: 0.7}))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	refs, err := store2.LoadReferences()
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	mappings, err := store2.LoadMappings()
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "a/one.pdf", mappings[0].Path)
}

func TestStore_ConcurrentReads(t *testing.T) {
	// bbolt supports concurrent readers, single writer.
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveReferences(makeTestReferences()))

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refs, err := store.LoadReferences()
			if err != nil {
				errs <- err
				return
			}
			if len(refs) != 3 {
				errs <- fmt.Errorf("expected 3 references, got %d", len(refs))
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read error: %v", err)
	}
}
