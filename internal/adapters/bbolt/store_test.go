package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/reel/internal/ports"
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

// makeTestEntries creates a realistic set of cached match lists.
func makeTestEntries() map[string][]ports.RawMatch {
	return map[string][]ports.RawMatch{
		"aspirin": {{Label: "Aspirin", Score: 100}},
		"tumors": {
			{Label: "Neoplasms", Score: 62.5},
			{Label: "Tumor Lysis Syndrome", Score: 48.27586206896552},
		},
		"β-carotene": {{Label: "beta Carotene", Score: 91.66666666666667}},
		"nothing":    {},
	}
}

// =============================================================================
// Save/load, ontology scoping, deletion
// =============================================================================

func TestStore_SaveLoad_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	orig := makeTestEntries()
	require.NoError(t, store.Save(ports.OntologyMEDIC, orig))

	loaded, err := store.Load(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
}

func TestStore_LoadMissingBucketIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(ports.OntologyChEBI)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	n, err := store.Count(ports.OntologyChEBI)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_SaveUpserts(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ports.OntologyMEDIC, makeTestEntries()))
	require.NoError(t, store.Save(ports.OntologyMEDIC, map[string][]ports.RawMatch{
		"aspirin": {{Label: "Aspirin", Score: 99}},
		"ice":     {{Label: "Water", Score: 40}},
	}))

	loaded, err := store.Load(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Len(t, loaded, 5)
	assert.Equal(t, 99.0, loaded["aspirin"][0].Score)

	n, err := store.Count(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestStore_OntologyScoped(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ports.OntologyMEDIC, makeTestEntries()))
	require.NoError(t, store.Save(ports.OntologyChEBI, map[string][]ports.RawMatch{
		"water": {{Label: "water", Score: 100}},
	}))

	medic, err := store.Load(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.NotContains(t, medic, "water")

	chebi, err := store.Load(ports.OntologyChEBI)
	require.NoError(t, err)
	assert.Len(t, chebi, 1)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ports.OntologyMEDIC, makeTestEntries()))
	require.NoError(t, store.Save(ports.OntologyChEBI, map[string][]ports.RawMatch{"water": {{Label: "water", Score: 100}}}))

	require.NoError(t, store.Delete(ports.OntologyMEDIC))
	loaded, err := store.Load(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	chebi, err := store.Load(ports.OntologyChEBI)
	require.NoError(t, err)
	assert.Len(t, chebi, 1, "other ontologies untouched")

	// Idempotent
	assert.NoError(t, store.Delete(ports.OntologyMEDIC))
}

func TestStore_StateSurvivesRestart(t *testing.T) {
	// Committed transactions survive close and reopen.
	path := filepath.Join(t.TempDir(), "restart.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ports.OntologyCTDChemicals, makeTestEntries()))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.Load(ports.OntologyCTDChemicals)
	require.NoError(t, err)
	assert.Equal(t, makeTestEntries(), loaded)
}

func TestStore_CorruptRecordFailsLoad(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(ports.OntologyMEDIC, makeTestEntries()))

	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName(ports.OntologyMEDIC)).Put([]byte("broken"), []byte{0x05, 0x00, 0xff})
	}))

	_, err := store.Load(ports.OntologyMEDIC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(ports.OntologyMEDIC, makeTestEntries()))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := store.Load(ports.OntologyMEDIC)
			if err != nil {
				errs <- err
				return
			}
			if len(loaded) != 4 {
				errs <- fmt.Errorf("got %d entries", len(loaded))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// =============================================================================
// Encoding
// =============================================================================

func TestEncoding_Truncated(t *testing.T) {
	data, err := encodeMatches([]ports.RawMatch{{Label: "Aspirin", Score: 100}})
	require.NoError(t, err)

	for _, n := range []int{0, 1, 3, len(data) - 1} {
		_, err := decodeMatches(data[:n])
		assert.Error(t, err, "len %d", n)
	}

	_, err = decodeMatches(append(data, 0x00))
	assert.Error(t, err, "trailing bytes")
}

// =============================================================================
// Lock contention: the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}
