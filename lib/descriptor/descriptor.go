package descriptor

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/ValentinKolb/storagefor/lib/store"
	"maps"
)

// Prefix is prepended to canonical keys to form descriptor names.
const Prefix = "storage:"

// NameFor returns the descriptor name of a canonical key.
func NameFor(canonicalKey string) string {
	return Prefix + canonicalKey
}

// --------------------------------------------------------------------------
// State
// --------------------------------------------------------------------------

// StorageKeyField is the state field holding the native store key of an instance.
const StorageKeyField = "storageKey"

// State is the initial state an instance is created with: the seeded content
// of the descriptor merged with the storage key.
type State map[string]any

// StorageKey returns the native store key of the state.
func (s State) StorageKey() string {
	k, _ := s[StorageKeyField].(string)
	return k
}

// Content returns a copy of the state without the storage key.
func (s State) Content() map[string]any {
	c := make(map[string]any, len(s))
	for k, v := range s {
		if k != StorageKeyField {
			c[k] = v
		}
	}
	return c
}

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	return maps.Clone(s)
}

// --------------------------------------------------------------------------
// Variant
// --------------------------------------------------------------------------

// Variant is the construction protocol of a descriptor, fixed at registration.
type Variant int

const (
	// Constructible descriptors build their instance from the initial state.
	Constructible Variant = iota + 1
	// PlainObject descriptors are wrapped as a plain stateful object.
	PlainObject
)

func (v Variant) String() string {
	switch v {
	case Constructible:
		return "Constructible"
	case PlainObject:
		return "PlainObject"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Descriptor
// --------------------------------------------------------------------------

// Stores gives constructors access to the probed native store handles.
type Stores interface {
	GetStore(kind store.Kind) *probe.Handle
}

// Constructor builds an instance from its initial state.
type Constructor func(state State, stores Stores) (any, error)

// InitialStateFunc produces the seeded content of an instance. The owner is
// the object the storage is provided for (may be nil).
type InitialStateFunc func(owner any) State

// Descriptor is a named template describing how to build a storage instance.
type Descriptor struct {
	// Name is the registered name, e.g. "storage:prefs".
	Name string
	// Kind is the native store the instance persists into.
	Kind store.Kind
	// InitialState is nil or a function producing the seeded content
	// (InitialStateFunc, func(any) State or func() State). Any other value
	// fails provisioning with a configuration error.
	InitialState any

	variant    Variant
	construct  Constructor
	properties map[string]any
}

// Option configures a descriptor.
type Option func(*Descriptor)

// WithKind sets the native store kind (default: local).
func WithKind(kind store.Kind) Option {
	return func(d *Descriptor) {
		d.Kind = kind
	}
}

// WithInitialState sets the initial state producer.
func WithInitialState(fn any) Option {
	return func(d *Descriptor) {
		d.InitialState = fn
	}
}

// NewConstructible creates a descriptor whose instances are built by ctor.
func NewConstructible(name string, ctor Constructor, opts ...Option) *Descriptor {
	d := &Descriptor{
		Name:      name,
		Kind:      store.KindLocal,
		variant:   Constructible,
		construct: ctor,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewPlain creates a descriptor that is wrapped as a plain stateful object
// holding a copy of properties.
func NewPlain(name string, properties map[string]any, opts ...Option) *Descriptor {
	d := &Descriptor{
		Name:       name,
		Kind:       store.KindLocal,
		variant:    PlainObject,
		properties: maps.Clone(properties),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Variant returns the construction protocol of the descriptor.
func (d *Descriptor) Variant() Variant {
	return d.variant
}

// Properties returns a copy of the properties of a plain descriptor.
func (d *Descriptor) Properties() map[string]any {
	if d.properties == nil {
		return map[string]any{}
	}
	return maps.Clone(d.properties)
}

// Construct builds an instance of a constructible descriptor.
func (d *Descriptor) Construct(state State, stores Stores) (any, error) {
	if d.variant != Constructible || d.construct == nil {
		return nil, fmt.Errorf("descriptor %s is not constructible", d.Name)
	}
	return d.construct(state, stores)
}

// validate checks the descriptor when it is registered.
func (d *Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name is required")
	}
	switch d.variant {
	case Constructible:
		if d.construct == nil {
			return fmt.Errorf("descriptor %s: constructor is required", d.Name)
		}
	case PlainObject:
	default:
		return fmt.Errorf("descriptor %s: unknown variant", d.Name)
	}
	if _, err := store.ParseKind(string(d.Kind)); err != nil {
		return fmt.Errorf("descriptor %s: %w", d.Name, err)
	}
	return nil
}
