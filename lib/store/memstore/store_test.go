package memstore

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/store"
	storetesting "github.com/ValentinKolb/storagefor/lib/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "MemStore", func() store.IStore {
		return New()
	})
}

func TestQuota(t *testing.T) {
	s := New(WithQuota(2))
	defer s.Close()

	require.NoError(t, s.SetItem("a", []byte("1")))
	require.NoError(t, s.SetItem("b", []byte("1")))

	// overwriting an existing key does not count against the quota
	require.NoError(t, s.SetItem("a", []byte("2")))

	err := s.SetItem("c", []byte("1"))
	assert.True(t, errors.Is(err, store.ErrQuotaExceeded))

	require.NoError(t, s.RemoveItem("b"))
	assert.NoError(t, s.SetItem("c", []byte("1")))
}

func TestDisabled(t *testing.T) {
	s := New(WithDisabled())
	defer s.Close()

	assert.True(t, errors.Is(s.SetItem("a", []byte("1")), store.ErrUnavailable))
	assert.True(t, errors.Is(s.RemoveItem("a"), store.ErrUnavailable))

	_, ok, err := s.GetItem("a")
	require.NoError(t, err)
	assert.False(t, ok)
}
