package proxy

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/store"
	"reflect"
	"slices"
	"sync"
)

// ItemsField is the state field holding the seeded items of an array.
const ItemsField = "items"

// Array is a list persisted under its storage key.
//
// Thread-safety: All methods are thread-safe.
type Array struct {
	mu      sync.RWMutex
	store   store.IStore
	codec   codec.ICodec
	key     string
	initial []any
	items   []any
}

// NewArray creates an array for the storage key of state. Items already
// persisted under the key are loaded, otherwise the array starts with the
// seeded items (state field "items").
func NewArray(state descriptor.State, s store.IStore, c codec.ICodec) (*Array, error) {
	a := &Array{
		store: s,
		codec: c,
		key:   state.StorageKey(),
	}
	if a.key == "" {
		return nil, fmt.Errorf("state has no %s", descriptor.StorageKeyField)
	}
	var seeded []any
	switch v := state[ItemsField].(type) {
	case nil:
		seeded = []any{}
	case []any:
		seeded = v
	default:
		return nil, fmt.Errorf("state field %s of %s must be a list, got %T", ItemsField, a.key, v)
	}
	if _, err := roundTrip(c, seeded, &a.initial); err != nil {
		return nil, fmt.Errorf("seed %s: %w", a.key, err)
	}
	if a.initial == nil {
		a.initial = []any{}
	}

	raw, ok, err := s.GetItem(a.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", a.key, err)
	}
	if !ok {
		a.items = slices.Clone(a.initial)
		return a, nil
	}
	var items []any
	if err := c.Decode(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.key, err)
	}
	if items == nil {
		items = []any{}
	}
	a.items = items
	return a, nil
}

// StorageKey returns the key the array is persisted under.
func (a *Array) StorageKey() string {
	return a.key
}

// Items returns a copy of the items.
func (a *Array) Items() []any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.items)
}

// Len returns the number of items.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Append adds items to the end and persists the array. If the write fails,
// the items are left unchanged.
func (a *Array) Append(items ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commit(append(slices.Clone(a.items), items...))
}

// RemoveAt removes the item at index i and persists the array.
func (a *Array) RemoveAt(i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(a.items))
	}
	return a.commit(slices.Delete(slices.Clone(a.items), i, i+1))
}

// Reset restores the seeded items and persists them.
func (a *Array) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commit(slices.Clone(a.initial))
}

// Clear removes all items and the persisted item.
func (a *Array) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.RemoveItem(a.key); err != nil {
		return err
	}
	a.items = []any{}
	return nil
}

// IsInitialContent reports whether the items equal the seeded items.
func (a *Array) IsInitialContent() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return reflect.DeepEqual(a.items, a.initial)
}

func (a *Array) commit(next []any) error {
	var stored []any
	raw, err := roundTrip(a.codec, next, &stored)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.key, err)
	}
	if err := a.store.SetItem(a.key, raw); err != nil {
		return err
	}
	if stored == nil {
		stored = []any{}
	}
	a.items = stored
	return nil
}
