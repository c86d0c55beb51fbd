// Package testing provides a standardised test suite for implementations of
// the store.IStore interface.
//
// Example usage:
//
//	func Test(t *testing.T) {
//		storetesting.RunStoreTests(t, "MemStore", func() store.IStore {
//			return memstore.New()
//		})
//	}
package testing

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory is a function that creates a new, empty instance of an IStore implementation
type StoreFactory func() store.IStore

// RunStoreTests runs the conformance suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory())
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	defer s.Close()

	require.NoError(t, s.SetItem("storage:prefs", []byte("v1")))

	value, ok, err := s.GetItem("storage:prefs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), value)

	require.NoError(t, s.SetItem("storage:prefs", []byte("v2")))
	value, ok, err = s.GetItem("storage:prefs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), value)

	_, ok, err = s.GetItem("nonexistent-key")
	require.NoError(t, err)
	assert.False(t, ok)

	// returned values must not alias the stored ones
	value[0] = 'X'
	value, _, err = s.GetItem("storage:prefs")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

func testRemove(t *testing.T, s store.IStore) {
	defer s.Close()

	require.NoError(t, s.SetItem("a", []byte("1")))
	require.NoError(t, s.RemoveItem("a"))

	_, ok, err := s.GetItem("a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.RemoveItem("never-set"))
}

func testKeys(t *testing.T, s store.IStore) {
	defer s.Close()

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, k := range []string{"storage:b", "storage:a:user:1", "storage:a"} {
		require.NoError(t, s.SetItem(k, []byte(k)))
	}

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"storage:a", "storage:a:user:1", "storage:b"}, keys)
}

func testClear(t *testing.T, s store.IStore) {
	defer s.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.SetItem(fmt.Sprintf("key-%d", i), []byte("x")))
	}
	require.NoError(t, s.Clear())

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func testEdgeCases(t *testing.T, s store.IStore) {
	defer s.Close()

	// empty value is a value
	require.NoError(t, s.SetItem("empty", []byte{}))
	value, ok, err := s.GetItem("empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)

	// binary values round trip unchanged
	binary := []byte{0x00, 0xff, 0x10, 0x00}
	require.NoError(t, s.SetItem("binary", binary))
	value, _, err = s.GetItem("binary")
	require.NoError(t, err)
	assert.Equal(t, binary, value)

	// the empty key is a key
	require.NoError(t, s.SetItem("", []byte("root")))
	value, ok, err = s.GetItem("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("root"), value)
}

func testConcurrent(t *testing.T, s store.IStore) {
	defer s.Close()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				assert.NoError(t, s.SetItem(fmt.Sprintf("w%d-%d", w, i), []byte("x")))
			}
		}(w)
	}
	wg.Wait()

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, workers*perWorker)
}

func testClose(t *testing.T, s store.IStore) {
	require.NoError(t, s.SetItem("a", []byte("1")))
	require.NoError(t, s.Close())

	err := s.SetItem("a", []byte("2"))
	assert.True(t, errors.Is(err, store.ErrClosed), "expected ErrClosed, got %v", err)

	_, _, err = s.GetItem("a")
	assert.True(t, errors.Is(err, store.ErrClosed), "expected ErrClosed, got %v", err)
}
