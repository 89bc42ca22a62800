package userstate

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory Cache that counts writes.
type memCache struct {
	data   []byte
	writes int
}

func (c *memCache) Read() ([]byte, error) {
	if c.data == nil {
		return nil, ErrNoCache
	}
	return c.data, nil
}
func (c *memCache) Write(data []byte) error {
	c.data = data
	c.writes++
	return nil
}
func (c *memCache) Remove() error {
	c.data = nil
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestInit_AdoptsCachedRecord(t *testing.T) {
	cached, _ := json.Marshal(Record{FirstName: "Ana", BaseID: "b1"})
	m := NewManager(&memCache{data: cached})
	m.Init()

	got := m.Current()
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "b1", got.BaseID)
}

func TestInit_EmptyCacheStartsEmpty(t *testing.T) {
	m := NewManager(&memCache{})
	m.Init()
	assert.Equal(t, Record{}, m.Current())
}

func TestInit_CorruptCacheDiscarded(t *testing.T) {
	cache := &memCache{data: []byte("{not json")}
	m := NewManager(cache)
	m.Init()

	assert.Equal(t, Record{}, m.Current())
	assert.Nil(t, cache.data)
}

func TestInit_RunsOnce(t *testing.T) {
	cache := &memCache{}
	m := NewManager(cache)
	m.Init()

	require.NoError(t, m.Set(Patch{FirstName: strPtr("Ana")}))

	// a late re-activation must not clobber in-memory state
	cache.data = []byte(`{"firstName":"Stale"}`)
	m.Init()
	assert.Equal(t, "Ana", m.Current().FirstName)
}

func TestSet_MergesAndPersists(t *testing.T) {
	cache := &memCache{}
	m := NewManager(cache)
	m.Init()

	require.NoError(t, m.Set(Patch{FirstName: strPtr("Ana"), Email: strPtr("a@b.com")}))
	require.NoError(t, m.Set(Patch{IsVerified: boolPtr(true)}))

	got := m.Current()
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "a@b.com", got.Email)
	assert.True(t, got.IsVerified)

	var persisted Record
	require.NoError(t, json.Unmarshal(cache.data, &persisted))
	assert.Equal(t, got, persisted)
}

func TestSet_BaseIDIsSticky(t *testing.T) {
	m := NewManager(&memCache{})
	m.Init()

	require.NoError(t, m.Set(Patch{BaseID: strPtr("X"), FirstName: strPtr("A")}))
	require.NoError(t, m.Set(Patch{FirstName: strPtr("B")}))

	got := m.Current()
	assert.Equal(t, "X", got.BaseID)
	assert.Equal(t, "B", got.FirstName)
}

func TestTransform_EmptyBaseIDReattached(t *testing.T) {
	m := NewManager(&memCache{})
	m.Init()
	require.NoError(t, m.Set(Patch{BaseID: strPtr("X")}))

	// a transform that drops the identifier gets it back
	require.NoError(t, m.Transform(func(r Record) Record {
		return Record{FirstName: "Ana"}
	}))

	got := m.Current()
	assert.Equal(t, "X", got.BaseID)
	assert.Equal(t, "Ana", got.FirstName)
}

func TestSet_UnchangedRecordSkipsWrite(t *testing.T) {
	cache := &memCache{}
	m := NewManager(cache)
	m.Init()

	require.NoError(t, m.Set(Patch{FirstName: strPtr("Ana")}))
	writes := cache.writes

	require.NoError(t, m.Set(Patch{FirstName: strPtr("Ana")}))
	assert.Equal(t, writes, cache.writes)
}

func TestClear_DropsRecordAndCache(t *testing.T) {
	cache := &memCache{}
	m := NewManager(cache)
	m.Init()
	require.NoError(t, m.Set(Patch{BaseID: strPtr("X"), FirstName: strPtr("Ana")}))

	require.NoError(t, m.Clear())

	assert.Equal(t, Record{}, m.Current())
	assert.Nil(t, cache.data)

	// after Clear the identifier really is gone; a new one can be set
	require.NoError(t, m.Set(Patch{BaseID: strPtr("Y")}))
	assert.Equal(t, "Y", m.Current().BaseID)
}

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	c := NewFileCache(path)

	_, err := c.Read()
	assert.ErrorIs(t, err, ErrNoCache)

	require.NoError(t, c.Write([]byte(`{"baseID":"X"}`)))
	data, err := c.Read()
	require.NoError(t, err)
	assert.JSONEq(t, `{"baseID":"X"}`, string(data))

	require.NoError(t, c.Remove())
	require.NoError(t, c.Remove())
	_, err = c.Read()
	assert.ErrorIs(t, err, ErrNoCache)
}
