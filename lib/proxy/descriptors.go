package proxy

import (
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
)

// ObjectDescriptor returns a constructible descriptor for the canonical key
// whose instances are Objects persisted in the descriptor's store kind.
func ObjectDescriptor(canonicalKey string, c codec.ICodec, opts ...descriptor.Option) *descriptor.Descriptor {
	var d *descriptor.Descriptor
	d = descriptor.NewConstructible(descriptor.NameFor(canonicalKey), func(state descriptor.State, stores descriptor.Stores) (any, error) {
		return NewObject(state, stores.GetStore(d.Kind), c)
	}, opts...)
	return d
}

// ArrayDescriptor returns a constructible descriptor for the canonical key
// whose instances are Arrays persisted in the descriptor's store kind.
func ArrayDescriptor(canonicalKey string, c codec.ICodec, opts ...descriptor.Option) *descriptor.Descriptor {
	var d *descriptor.Descriptor
	d = descriptor.NewConstructible(descriptor.NameFor(canonicalKey), func(state descriptor.State, stores descriptor.Stores) (any, error) {
		return NewArray(state, stores.GetStore(d.Kind), c)
	}, opts...)
	return d
}

// SeedItems returns an initial state producer seeding an array with items.
func SeedItems(items ...any) descriptor.InitialStateFunc {
	return func(any) descriptor.State {
		return descriptor.State{ItemsField: append([]any{}, items...)}
	}
}
