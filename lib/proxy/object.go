package proxy

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/store"
	"maps"
	"reflect"
	"sort"
	"sync"
)

// Object is a map persisted under its storage key. Every change is written
// through to the native store.
//
// Thread-safety: All methods are thread-safe.
type Object struct {
	mu      sync.RWMutex
	store   store.IStore
	codec   codec.ICodec
	key     string
	initial map[string]any
	content map[string]any
}

// NewObject creates an object for the storage key of state. Content already
// persisted under the key is loaded, otherwise the object starts with the
// seeded content of state.
func NewObject(state descriptor.State, s store.IStore, c codec.ICodec) (*Object, error) {
	o := &Object{
		store: s,
		codec: c,
		key:   state.StorageKey(),
	}
	if o.key == "" {
		return nil, fmt.Errorf("state has no %s", descriptor.StorageKeyField)
	}
	// seeded content is compared with decoded content, so it takes the
	// same shape (e.g. json numbers become float64)
	if _, err := roundTrip(c, state.Content(), &o.initial); err != nil {
		return nil, fmt.Errorf("seed %s: %w", o.key, err)
	}
	if o.initial == nil {
		o.initial = map[string]any{}
	}

	raw, ok, err := s.GetItem(o.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", o.key, err)
	}
	if !ok {
		o.content = maps.Clone(o.initial)
		return o, nil
	}
	var content map[string]any
	if err := c.Decode(raw, &content); err != nil {
		return nil, fmt.Errorf("decode %s: %w", o.key, err)
	}
	if content == nil {
		content = map[string]any{}
	}
	o.content = content
	return o, nil
}

// StorageKey returns the key the object is persisted under.
func (o *Object) StorageKey() string {
	return o.key
}

// Get returns the value of a property.
func (o *Object) Get(key string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.content[key]
	return v, ok
}

// Keys returns the property names in ascending order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	keys := make([]string, 0, len(o.content))
	for k := range o.content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Content returns a copy of all properties.
func (o *Object) Content() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return maps.Clone(o.content)
}

// Set sets a property and persists the object.
func (o *Object) Set(key string, value any) error {
	return o.SetProperties(map[string]any{key: value})
}

// SetProperties sets several properties with a single write. If the write
// fails, the content is left unchanged.
func (o *Object) SetProperties(props map[string]any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := maps.Clone(o.content)
	for k, v := range props {
		next[k] = v
	}
	return o.commit(next)
}

// Delete removes a property and persists the object.
func (o *Object) Delete(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.content[key]; !ok {
		return nil
	}
	next := maps.Clone(o.content)
	delete(next, key)
	return o.commit(next)
}

// Reset restores the seeded content and persists it.
func (o *Object) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.commit(maps.Clone(o.initial))
}

// Clear removes all properties and the persisted item.
func (o *Object) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.store.RemoveItem(o.key); err != nil {
		return err
	}
	o.content = map[string]any{}
	return nil
}

// IsInitialContent reports whether the content equals the seeded content.
func (o *Object) IsInitialContent() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return reflect.DeepEqual(o.content, o.initial)
}

// commit writes next and makes its decoded form the content. The caller holds
// the write lock.
func (o *Object) commit(next map[string]any) error {
	var stored map[string]any
	raw, err := roundTrip(o.codec, next, &stored)
	if err != nil {
		return fmt.Errorf("encode %s: %w", o.key, err)
	}
	if err := o.store.SetItem(o.key, raw); err != nil {
		return err
	}
	if stored == nil {
		stored = map[string]any{}
	}
	o.content = stored
	return nil
}

// roundTrip encodes v and decodes the result into out.
func roundTrip(c codec.ICodec, v any, out any) ([]byte, error) {
	raw, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	if err := c.Decode(raw, out); err != nil {
		return nil, err
	}
	return raw, nil
}
