package sqlstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/store"
	storetesting "github.com/ValentinKolb/storagefor/lib/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpen(t *testing.T, path string) store.IStore {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "SQLiteMemory", func() store.IStore {
		return mustOpen(t, common.InMemoryPath)
	})

	dir := t.TempDir()
	counter := 0
	storetesting.RunStoreTests(t, "SQLiteFile", func() store.IStore {
		counter++
		return mustOpen(t, filepath.Join(dir, "stores", fmt.Sprintf("store-%d.db", counter)))
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")

	s := mustOpen(t, path)
	require.NoError(t, s.SetItem("storage:favorites:user:42", []byte(`{"ids":[1,2]}`)))
	require.NoError(t, s.Close())

	s = mustOpen(t, path)
	defer s.Close()

	value, ok, err := s.GetItem("storage:favorites:user:42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"ids":[1,2]}`, string(value))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	s, err := Factory(common.InMemoryPath)()
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.SetItem("a", []byte("b")))
}

func TestDriverErrorsMapToStoreCodes(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		s := mustOpen(t, common.InMemoryPath)
		defer s.Close()

		// cap the database at its current size
		_, err := s.(*storeImpl).db.Exec("PRAGMA max_page_count = 1")
		require.NoError(t, err)

		err = s.SetItem("storage:big", make([]byte, 64*1024))
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrQuotaExceeded), "got %v", err)
	})

	t.Run("ReadOnly", func(t *testing.T) {
		s := mustOpen(t, common.InMemoryPath)
		defer s.Close()

		_, err := s.(*storeImpl).db.Exec("PRAGMA query_only = ON")
		require.NoError(t, err)

		err = s.SetItem("storage:prefs", []byte("{}"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrUnavailable), "got %v", err)
	})

	t.Run("NotADriverError", func(t *testing.T) {
		assert.Equal(t, store.RetCInternalError, classify(errors.New("SQLITE_FULL")))
		assert.Equal(t, store.RetCInternalError, classify(fmt.Errorf("wrapped: %w", errors.New("database or disk is full"))))
	})
}
