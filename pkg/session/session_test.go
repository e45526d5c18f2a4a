package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrepp/planbook/pkg/kvstore"
)

// brokenStore fails every write.
type brokenStore struct {
	*kvstore.Memory
}

func (brokenStore) Set(string, string) error { return errors.New("disk full") }
func (brokenStore) Delete(string) error      { return errors.New("disk full") }

func TestLoad(t *testing.T) {
	t.Run("empty store is logged out", func(t *testing.T) {
		s, err := Load(kvstore.NewMemory(), hclog.NewNullLogger())
		require.NoError(t, err)
		assert.False(t, s.IsLoggedIn())
		assert.Empty(t, s.Token())
		assert.Empty(t, s.DisplayName())
	})

	t.Run("requires store", func(t *testing.T) {
		_, err := Load(nil, nil)
		require.Error(t, err)
	})

	t.Run("restores persisted values", func(t *testing.T) {
		store := kvstore.NewMemory()
		require.NoError(t, store.Set(KeyToken, "abc"))
		require.NoError(t, store.Set(KeyDisplayName, "alice"))

		s, err := Load(store, nil)
		require.NoError(t, err)
		assert.True(t, s.IsLoggedIn())
		assert.Equal(t, "abc", s.Token())
		assert.Equal(t, "alice", s.DisplayName())
	})
}

func TestRoundTripAcrossRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.planbook/session.json"

	store, err := kvstore.OpenFile(fs, path)
	require.NoError(t, err)
	s, err := Load(store, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("abc"))
	require.NoError(t, s.SetDisplayName("alice"))

	// Simulate a restart: a fresh store over the same file.
	reopened, err := kvstore.OpenFile(fs, path)
	require.NoError(t, err)
	restarted, err := Load(reopened, nil)
	require.NoError(t, err)

	assert.Equal(t, "abc", restarted.Token())
	assert.Equal(t, "alice", restarted.DisplayName())
	assert.True(t, restarted.IsLoggedIn())
}

func TestSetToken(t *testing.T) {
	store := kvstore.NewMemory()
	s, err := Load(store, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("abc"))
	require.NoError(t, s.SetToken("abc"))
	assert.Equal(t, "abc", s.Token())

	v, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	// An empty token is a logout and removes the key.
	require.NoError(t, s.SetToken(""))
	assert.False(t, s.IsLoggedIn())
	_, ok, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	store := kvstore.NewMemory()
	s, err := Load(store, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("abc"))
	require.NoError(t, s.SetDisplayName("alice"))

	require.NoError(t, s.Clear())
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.DisplayName())

	// Clearing an already cleared session is harmless.
	require.NoError(t, s.Clear())

	_, ok, _ := store.Get(KeyToken)
	assert.False(t, ok)
	_, ok, _ = store.Get(KeyDisplayName)
	assert.False(t, ok)
}

func TestStoreFailure(t *testing.T) {
	s, err := Load(brokenStore{kvstore.NewMemory()}, nil)
	require.NoError(t, err)

	err = s.SetToken("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "abc", s.Token(), "memory state still updates")

	err = s.Clear()
	require.Error(t, err)
	assert.False(t, s.IsLoggedIn())
}

func TestConcurrentWriters(t *testing.T) {
	s, err := Load(kvstore.NewMemory(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, tok := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			_ = s.SetToken(tok)
		}(tok)
	}
	wg.Wait()

	assert.Contains(t, []string{"a", "b", "c", "d"}, s.Token())
}

func TestPreferences(t *testing.T) {
	store := kvstore.NewMemory()

	p, err := LoadPreferences(store)
	require.NoError(t, err)
	assert.True(t, p.SidebarOpen(), "sidebar defaults to open")

	open, err := p.ToggleSidebar()
	require.NoError(t, err)
	assert.False(t, open)

	reloaded, err := LoadPreferences(store)
	require.NoError(t, err)
	assert.False(t, reloaded.SidebarOpen())

	require.NoError(t, reloaded.SetSidebarOpen(true))
	v, _, _ := store.Get(KeySidebarOpen)
	assert.Equal(t, "true", v)
}
