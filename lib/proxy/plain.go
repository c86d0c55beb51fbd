package proxy

import (
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"maps"
	"sync"
)

// Plain is the stateful object a plain descriptor is wrapped as. It holds a
// copy of the descriptor's properties in memory and is not persisted.
type Plain struct {
	mu    sync.RWMutex
	props map[string]any
}

// NewPlain wraps properties as a plain object. Fields of state take precedence
// over properties of the same name, so the storage key is always present.
func NewPlain(properties map[string]any, state descriptor.State) *Plain {
	props := maps.Clone(properties)
	if props == nil {
		props = map[string]any{}
	}
	for k, v := range state {
		props[k] = v
	}
	return &Plain{props: props}
}

// StorageKey returns the storage key the object was provisioned with.
func (p *Plain) StorageKey() string {
	return descriptor.State(p.Properties()).StorageKey()
}

// Get returns the value of a property.
func (p *Plain) Get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.props[key]
	return v, ok
}

// Set sets a property.
func (p *Plain) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.props[key] = value
}

// Properties returns a copy of all properties.
func (p *Plain) Properties() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.props)
}
