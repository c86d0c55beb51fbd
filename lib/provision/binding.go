package provision

import (
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/host"
	"github.com/ValentinKolb/storagefor/lib/keys"
)

// Binding attaches storage to owners. A global binding yields the same
// instance for every owner; an entity binding reads the entity from a
// property of the owner and yields the instance of that entity.
type Binding struct {
	provider       *Provider
	key            string
	entityProperty string
	opts           []Option
}

// StorageFor creates a binding for rawKey. If entityProperty is not empty,
// the storage is attached to the entity held by that property of the owner.
func (p *Provider) StorageFor(rawKey, entityProperty string, opts ...Option) *Binding {
	return &Binding{
		provider:       p,
		key:            rawKey,
		entityProperty: entityProperty,
		opts:           opts,
	}
}

// Key returns the key the binding was created with.
func (b *Binding) Key() string { return b.key }

// EntityProperty returns the observed property ("" for global bindings).
func (b *Binding) EntityProperty() string { return b.entityProperty }

// Get derives the storage for owner. For entity bindings an unset property
// value is returned as it is.
func (b *Binding) Get(owner host.Owner) (any, error) {
	// a typed nil owner counts as no owner
	unset := keys.IsUnset(owner)
	var ctx any
	if !unset {
		ctx = owner
	}
	if b.entityProperty == "" {
		return b.provider.ProvideStorage(ctx, b.key, b.opts...)
	}
	if unset {
		return nil, common.ConfigurationErrorf("storage %s is bound to property %s but has no owner", b.key, b.entityProperty)
	}
	return b.provider.ProvideEntityStorage(ctx, b.key, owner.Property(b.entityProperty), b.opts...)
}

// Subscribe calls fn with the re-derived storage every time the entity
// property of owner changes. Global bindings never change, so subscribing to
// them is a no-op. The returned function ends the subscription.
func (b *Binding) Subscribe(owner host.Owner, fn func(value any, err error)) (cancel func()) {
	if b.entityProperty == "" || keys.IsUnset(owner) {
		return func() {}
	}
	return owner.Observe(b.entityProperty, func() {
		fn(b.Get(owner))
	})
}
