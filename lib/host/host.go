// Package host provides the owner side of storage bindings: objects whose
// named properties can be read and observed.
//
// A binding that attaches storage to an entity reads the entity from a
// property of its owner and re-derives the storage whenever that property
// changes. Owner is the contract the binding needs; Object is a ready-made
// observable property bag implementing it.
package host

import (
	"reflect"
	"sync"
)

// Owner is an object with named, observable properties.
type Owner interface {
	// Property returns the current value of a property (nil if unset).
	Property(name string) any
	// Observe registers fn to be called after the property changed.
	// The returned function removes the observer.
	Observe(name string, fn func()) (cancel func())
}

type observer struct {
	id uint64
	fn func()
}

// Object is an observable property bag.
//
// Thread-safety: All methods are thread-safe. Observers are called outside of
// the internal lock, in registration order, on the goroutine calling Set.
type Object struct {
	mu        sync.Mutex
	props     map[string]any
	observers map[string][]observer
	nextID    uint64
}

// NewObject creates an object with the given initial properties.
func NewObject(props map[string]any) *Object {
	o := &Object{
		props:     make(map[string]any, len(props)),
		observers: make(map[string][]observer),
	}
	for k, v := range props {
		o.props[k] = v
	}
	return o
}

// Property implements Owner.
func (o *Object) Property(name string) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.props[name]
}

// Set changes a property and notifies its observers if the value changed.
func (o *Object) Set(name string, value any) {
	o.mu.Lock()
	old, existed := o.props[name]
	if existed && sameValue(old, value) {
		o.mu.Unlock()
		return
	}
	o.props[name] = value
	observers := append([]observer(nil), o.observers[name]...)
	o.mu.Unlock()

	for _, obs := range observers {
		obs.fn()
	}
}

// Observe implements Owner.
func (o *Object) Observe(name string, fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.observers[name] = append(o.observers[name], observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			list := o.observers[name]
			for i, obs := range list {
				if obs.id == id {
					o.observers[name] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// sameValue compares by identity for pointers and by value for comparable
// values. Values that cannot be compared count as changed.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
