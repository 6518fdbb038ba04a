package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewStore(Config{Addr: mr.Addr(), Prefix: "test:"}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStore_SaveLoad_Roundtrip(t *testing.T) {
	store, mr := newTestStore(t)

	orig := map[string][]ports.RawMatch{
		"aspirin": {{Label: "Aspirin", Score: 100}},
		"tumors":  {{Label: "Neoplasms", Score: 62.5}, {Label: "Tumor Lysis Syndrome", Score: 48.27586206896552}},
		"nothing": {},
	}
	require.NoError(t, store.Save(ports.OntologyMEDIC, orig))
	assert.True(t, mr.Exists("test:matches:medic"))

	loaded, err := store.Load(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)

	n, err := store.Count(ports.OntologyMEDIC)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(ports.OntologyChEBI)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_CorruptFieldFailsLoad(t *testing.T) {
	store, mr := newTestStore(t)
	mr.HSet("test:matches:chebi", "water", "{not json")

	_, err := store.Load(ports.OntologyChEBI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "water")
}

func TestStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, store.Save(ports.OntologyCTDChemicals, map[string][]ports.RawMatch{
		"aspirin": {{Label: "Aspirin", Score: 100}},
	}))

	require.NoError(t, store.Delete(ports.OntologyCTDChemicals))
	assert.False(t, mr.Exists("test:matches:ctd_chem"))
	assert.NoError(t, store.Delete(ports.OntologyCTDChemicals), "idempotent")
}

func TestNewStore_ConnectionFailed(t *testing.T) {
	store, err := NewStore(Config{Addr: "localhost:99999"}, logging.NewNopLogger())
	assert.Error(t, err)
	assert.Nil(t, store)
}
