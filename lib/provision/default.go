package provision

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/definitions"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/ValentinKolb/storagefor/lib/store/sqlstore"
	"sync"
)

// --------------------------------------------------------------------------
// Construction from configuration
// --------------------------------------------------------------------------

// NewStores creates the store registry of a configuration: the local kind on
// a SQLite file, the session kind on SQLite (in memory by default).
func NewStores(cfg common.Config) *probe.Registry {
	return probe.NewRegistry(map[store.Kind]store.Factory{
		store.KindLocal:   sqlstore.Factory(cfg.ResolvedLocalPath()),
		store.KindSession: sqlstore.Factory(cfg.ResolvedSessionPath()),
	})
}

// NewFromConfig creates a provider for a configuration and registers the
// descriptors of the configured definitions file plus extra.
func NewFromConfig(cfg common.Config, extra ...*descriptor.Descriptor) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := codec.New(cfg.Codec)
	if err != nil {
		return nil, err
	}

	registry := descriptor.NewRegistry()
	if cfg.DescriptorFile != "" {
		ds, err := definitions.LoadFile(cfg.DescriptorFile, c)
		if err != nil {
			return nil, common.ConfigurationErrorf("%v", err)
		}
		if err := registry.RegisterAll(ds...); err != nil {
			return nil, err
		}
		Logger.Infof("loaded %d descriptors from %s", len(ds), cfg.DescriptorFile)
	}
	if err := registry.RegisterAll(extra...); err != nil {
		return nil, err
	}

	return NewProvider(registry, NewStores(cfg)), nil
}

// --------------------------------------------------------------------------
// Process-wide provider
// --------------------------------------------------------------------------

var (
	defaultMu       sync.Mutex
	defaultProvider *Provider
)

// Init replaces the process-wide provider with one built from cfg. The
// previous provider (if any) is closed.
func Init(cfg common.Config, extra ...*descriptor.Descriptor) (*Provider, error) {
	p, err := NewFromConfig(cfg, extra...)
	if err != nil {
		return nil, err
	}

	defaultMu.Lock()
	old := defaultProvider
	defaultProvider = p
	defaultMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			Logger.Warningf("failed to close previous provider: %v", err)
		}
	}
	return p, nil
}

// Default returns the process-wide provider. If Init was not called, a
// provider on in-memory stores without descriptors is created.
func Default() *Provider {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultProvider == nil {
		cfg := common.DefaultConfig()
		cfg.LocalPath = common.InMemoryPath
		defaultProvider = NewProvider(descriptor.NewRegistry(), NewStores(cfg))
	}
	return defaultProvider
}

// Shutdown closes and forgets the process-wide provider.
func Shutdown() error {
	defaultMu.Lock()
	p := defaultProvider
	defaultProvider = nil
	defaultMu.Unlock()

	if p == nil {
		return nil
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("close provider: %w", err)
	}
	return nil
}

// Register registers a descriptor with the process-wide provider.
func Register(d *descriptor.Descriptor) error {
	return Default().Descriptors().Register(d)
}

// ProvideStorage calls ProvideStorage of the process-wide provider.
func ProvideStorage(ctx any, rawKey string, opts ...Option) (any, error) {
	return Default().ProvideStorage(ctx, rawKey, opts...)
}

// ProvideEntityStorage calls ProvideEntityStorage of the process-wide provider.
func ProvideEntityStorage(ctx any, rawKey string, entity any, opts ...Option) (any, error) {
	return Default().ProvideEntityStorage(ctx, rawKey, entity, opts...)
}

// StorageFor creates a binding on the process-wide provider.
func StorageFor(rawKey, entityProperty string, opts ...Option) *Binding {
	return Default().StorageFor(rawKey, entityProperty, opts...)
}

// GetStore returns the probed handle of a store kind of the process-wide provider.
func GetStore(kind store.Kind) *probe.Handle {
	return Default().GetStore(kind)
}

// ResetAllStorageCache forgets all instances of the process-wide provider.
func ResetAllStorageCache() {
	Default().ResetAllStorageCache()
}

// Reset forgets all instances and store handles of the process-wide provider.
func Reset() error {
	return Default().Reset()
}
