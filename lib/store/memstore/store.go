// Package memstore implements an in-memory store.IStore on top of xsync.MapOf.
// It is the fallback the probe substitutes when a native store is unavailable,
// so data kept here does not survive the process.
//
// Options allow simulating the failures of a native store (a quota on the
// number of keys, or a store that rejects every write), which is how the
// fallback path of the probe is exercised in tests.
package memstore

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
	"sync/atomic"
)

type storeImpl struct {
	data     *xsync.MapOf[string, []byte]
	quota    int
	disabled bool
	closed   atomic.Bool
}

// Option configures the memory store.
type Option func(*storeImpl)

// WithQuota rejects writes of new keys once the store holds n keys.
func WithQuota(n int) Option {
	return func(s *storeImpl) {
		s.quota = n
	}
}

// WithDisabled rejects every write, like platform storage in private browsing.
func WithDisabled() Option {
	return func(s *storeImpl) {
		s.disabled = true
	}
}

// New creates a new in-memory store.
func New(opts ...Option) store.IStore {
	s := &storeImpl{
		data: xsync.NewMapOf[string, []byte](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) SetItem(key string, value []byte) error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	if s.disabled {
		return store.NewError(store.RetCUnavailable, "store is disabled")
	}
	if s.quota > 0 {
		if _, exists := s.data.Load(key); !exists && s.data.Size() >= s.quota {
			return store.NewError(store.RetCQuotaExceeded, fmt.Sprintf("quota of %d keys exceeded", s.quota))
		}
	}

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.data.Store(key, valueCopy)
	return nil
}

func (s *storeImpl) GetItem(key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, store.NewError(store.RetCClosed, "store is closed")
	}
	val, ok := s.data.Load(key)
	if !ok {
		return nil, false, nil
	}
	valueCopy := make([]byte, len(val))
	copy(valueCopy, val)
	return valueCopy, true, nil
}

func (s *storeImpl) RemoveItem(key string) error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	if s.disabled {
		return store.NewError(store.RetCUnavailable, "store is disabled")
	}
	s.data.Delete(key)
	return nil
}

func (s *storeImpl) Keys() ([]string, error) {
	if s.closed.Load() {
		return nil, store.NewError(store.RetCClosed, "store is closed")
	}
	keys := make([]string, 0, s.data.Size())
	s.data.Range(func(key string, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

func (s *storeImpl) Clear() error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	if s.disabled {
		return store.NewError(store.RetCUnavailable, "store is disabled")
	}
	s.data.Clear()
	return nil
}

func (s *storeImpl) Close() error {
	s.closed.Store(true)
	return nil
}
