package provision

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/proxy"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a single provisioning.
type Options struct {
	// LegacyKey overrides the computed storage key, for data persisted by
	// earlier versions under a different key.
	LegacyKey string
}

// Option configures Options.
type Option func(*Options)

// WithLegacyKey sets Options.LegacyKey.
func WithLegacyKey(key string) Option {
	return func(o *Options) {
		o.LegacyKey = key
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// StorageKey computes the native store key of an instance: the legacy key if
// given, else "storage:{canonicalKey}:{identityKey}" for entity storage, else
// "storage:{canonicalKey}".
func StorageKey(canonicalKey, identityKey string, opts Options) string {
	if opts.LegacyKey != "" {
		return opts.LegacyKey
	}
	name := descriptor.NameFor(canonicalKey)
	if identityKey != "" {
		return name + ":" + identityKey
	}
	return name
}

// --------------------------------------------------------------------------
// Pipeline
// --------------------------------------------------------------------------

// Pipeline resolves descriptors and instantiates them. It does not cache:
// every call builds a new instance.
type Pipeline struct {
	descriptors *descriptor.Registry
	stores      descriptor.Stores
}

// NewPipeline creates a pipeline resolving descriptors in descriptors and
// handing stores to constructors.
func NewPipeline(descriptors *descriptor.Registry, stores descriptor.Stores) *Pipeline {
	return &Pipeline{
		descriptors: descriptors,
		stores:      stores,
	}
}

// Provision builds the instance for canonicalKey (and identityKey, if not
// empty). ctx is handed to the initial state producer of the descriptor.
//
// Errors:
//   - common.ErrConfiguration: no descriptor "storage:{canonicalKey}", or its
//     initial state is not a function
//   - any error returned by the descriptor's constructor
func (p *Pipeline) Provision(ctx any, canonicalKey, identityKey string, opts Options) (any, error) {
	name := descriptor.NameFor(canonicalKey)
	d, ok := p.descriptors.Lookup(name)
	if !ok {
		return nil, common.ConfigurationErrorf("unknown storage descriptor: %s", name)
	}

	state, err := InitialState(d, ctx)
	if err != nil {
		return nil, err
	}
	state[descriptor.StorageKeyField] = StorageKey(canonicalKey, identityKey, opts)

	switch d.Variant() {
	case descriptor.Constructible:
		instance, err := d.Construct(state, p.stores)
		if err != nil {
			return nil, fmt.Errorf("construct %s: %w", name, err)
		}
		return instance, nil
	case descriptor.PlainObject:
		return proxy.NewPlain(d.Properties(), state), nil
	default:
		return nil, common.ConfigurationErrorf("descriptor %s has unknown variant %s", name, d.Variant())
	}
}

// InitialState invokes the initial state producer of d with ctx and returns
// a copy of the seeded content. A descriptor without producer yields an empty
// state, a producer that is not a function is a configuration error.
func InitialState(d *descriptor.Descriptor, ctx any) (descriptor.State, error) {
	var seeded descriptor.State
	switch fn := d.InitialState.(type) {
	case nil:
	case descriptor.InitialStateFunc:
		if fn != nil {
			seeded = fn(ctx)
		}
	case func(any) descriptor.State:
		if fn != nil {
			seeded = fn(ctx)
		}
	case func() descriptor.State:
		if fn != nil {
			seeded = fn()
		}
	case func(any) (descriptor.State, error):
		if fn != nil {
			s, err := fn(ctx)
			if err != nil {
				return nil, fmt.Errorf("initial state of %s: %w", d.Name, err)
			}
			seeded = s
		}
	default:
		return nil, common.ConfigurationErrorf("initialState of %s must be a function, got %T", d.Name, d.InitialState)
	}
	return seeded.Clone(), nil
}
