package probe

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/ValentinKolb/storagefor/lib/store/memstore"
	"github.com/ValentinKolb/storagefor/lib/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFactory counts how often the native store is opened.
func countingFactory(counter *atomic.Int32, f store.Factory) store.Factory {
	return func() (store.IStore, error) {
		counter.Add(1)
		return f()
	}
}

// failingRemove accepts writes but cannot remove items.
type failingRemove struct {
	store.IStore
	closed bool
}

func (f *failingRemove) RemoveItem(string) error {
	return store.NewError(store.RetCUnavailable, "remove disabled")
}

func (f *failingRemove) Close() error {
	f.closed = true
	return f.IStore.Close()
}

func TestProbeNative(t *testing.T) {
	reg := NewRegistry(map[store.Kind]store.Factory{
		store.KindLocal: sqlstore.Factory(common.InMemoryPath),
	})
	defer reg.Close()

	h := reg.Probe(store.KindLocal)
	assert.True(t, h.Native())
	assert.Equal(t, store.KindLocal, h.Kind())

	// the sentinel item is cleaned up
	_, ok, err := h.GetItem(SentinelKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProbeMemoized(t *testing.T) {
	var opened atomic.Int32
	reg := NewRegistry(map[store.Kind]store.Factory{
		store.KindSession: countingFactory(&opened, func() (store.IStore, error) { return memstore.New(), nil }),
	})
	defer reg.Close()

	assert.False(t, reg.Probed(store.KindSession))

	var wg sync.WaitGroup
	handles := make([]*Handle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = reg.Probe(store.KindSession)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), opened.Load())
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	assert.True(t, reg.Probed(store.KindSession))

	require.NoError(t, reg.Reset())
	assert.False(t, reg.Probed(store.KindSession))
	reg.GetStore(store.KindSession)
	assert.Equal(t, int32(2), opened.Load())
}

func TestProbeFallback(t *testing.T) {
	failures := map[string]store.Factory{
		"FactoryError": func() (store.IStore, error) {
			return nil, errors.New("no storage")
		},
		"QuotaExceeded": func() (store.IStore, error) {
			full := memstore.New(memstore.WithQuota(1))
			_ = full.SetItem("occupied", []byte("x"))
			return full, nil
		},
		"Disabled": func() (store.IStore, error) {
			return memstore.New(memstore.WithDisabled()), nil
		},
		"Panic": func() (store.IStore, error) {
			panic("security error")
		},
		"NilStore": func() (store.IStore, error) {
			return nil, nil
		},
	}

	for name, factory := range failures {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry(map[store.Kind]store.Factory{store.KindLocal: factory})
			defer reg.Close()

			h := reg.Probe(store.KindLocal)
			require.NotNil(t, h)
			assert.False(t, h.Native())

			// the fallback supports item get/set without failing
			require.NoError(t, h.SetItem("storage:prefs", []byte("x")))
			value, ok, err := h.GetItem("storage:prefs")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("x"), value)
		})
	}
}

func TestProbeClosesRejectedStore(t *testing.T) {
	rejected := &failingRemove{IStore: memstore.New()}
	reg := NewRegistry(map[store.Kind]store.Factory{
		store.KindLocal: func() (store.IStore, error) { return rejected, nil },
	})
	defer reg.Close()

	assert.False(t, reg.Probe(store.KindLocal).Native())
	assert.True(t, rejected.closed)
}

func TestProbeUnconfiguredKind(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()

	h := reg.Probe(store.KindSession)
	assert.False(t, h.Native())
	assert.NoError(t, h.SetItem("a", []byte("b")))
}

func TestProbeAll(t *testing.T) {
	reg := NewRegistry(map[store.Kind]store.Factory{
		store.KindLocal: func() (store.IStore, error) { return memstore.New(), nil },
	})
	defer reg.Close()

	handles := reg.ProbeAll()
	require.Len(t, handles, 2)
	assert.Equal(t, store.KindLocal, handles[0].Kind())
	assert.True(t, handles[0].Native())
	assert.Equal(t, store.KindSession, handles[1].Kind())
	assert.False(t, handles[1].Native())
	assert.True(t, reg.Probed(store.KindSession))
}
