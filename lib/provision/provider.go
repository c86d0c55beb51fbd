package provision

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/cache"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/keys"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"golang.org/x/sync/singleflight"
)

var Logger = logger.GetLogger("provision")

var (
	provisionedOK  = metrics.NewCounter(`storagefor_provision_total{result="ok"}`)
	provisionedErr = metrics.NewCounter(`storagefor_provision_total{result="error"}`)
	passThrough    = metrics.NewCounter(`storagefor_provision_passthrough_total`)
)

// Provider hands out storage instances. Each cache key is provisioned once
// and the same instance is returned until the cache is reset.
//
// Thread-safety: All methods are thread-safe. Concurrent requests for the same
// cache key are collapsed into a single provisioning.
type Provider struct {
	descriptors *descriptor.Registry
	stores      *probe.Registry
	cache       *cache.Cache
	pipeline    *Pipeline
	group       singleflight.Group
}

// NewProvider creates a provider resolving descriptors in descriptors and
// persisting into the handles of stores.
func NewProvider(descriptors *descriptor.Registry, stores *probe.Registry) *Provider {
	return &Provider{
		descriptors: descriptors,
		stores:      stores,
		cache:       cache.New(),
		pipeline:    NewPipeline(descriptors, stores),
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Descriptors returns the descriptor registry.
func (p *Provider) Descriptors() *descriptor.Registry { return p.descriptors }

// Cache returns the instance cache.
func (p *Provider) Cache() *cache.Cache { return p.cache }

// Stores returns the store handle registry.
func (p *Provider) Stores() *probe.Registry { return p.stores }

// GetStore returns the probed handle of a store kind.
func (p *Provider) GetStore(kind store.Kind) *probe.Handle {
	return p.stores.Probe(kind)
}

// --------------------------------------------------------------------------
// Provisioning
// --------------------------------------------------------------------------

// ProvideStorage returns the global instance of rawKey. Spelling variants
// of a key ("MyKey", "my-key") share one instance. Keys containing ':' are
// rejected with common.ErrConfiguration, they would collide with identity keys.
func (p *Provider) ProvideStorage(ctx any, rawKey string, opts ...Option) (any, error) {
	canonical, err := keys.Canonical(rawKey)
	if err != nil {
		return nil, err
	}
	return p.provide(ctx, canonical, canonical, "", buildOptions(opts))
}

// ProvideEntityStorage returns the instance of rawKey for an entity. The
// instance is cached under the identity key of the entity: there is one
// instance per entity, and the key of the first call decides its descriptor
// and storage key.
// An unset entity (nil or a typed nil) is returned unchanged and nothing is
// provisioned. Any other value must implement keys.Entity with a non-empty
// type and id, else common.ErrInvalidEntity is returned.
func (p *Provider) ProvideEntityStorage(ctx any, rawKey string, entity any, opts ...Option) (any, error) {
	if keys.IsUnset(entity) {
		passThrough.Inc()
		return entity, nil
	}
	e, ok := entity.(keys.Entity)
	if !ok {
		return nil, common.InvalidEntityf("%T does not expose a type and an id", entity)
	}
	identity, err := keys.DeriveIdentity(e)
	if err != nil {
		return nil, err
	}
	canonical, err := keys.Canonical(rawKey)
	if err != nil {
		return nil, err
	}
	return p.provide(ctx, identity, canonical, identity, buildOptions(opts))
}

func (p *Provider) provide(ctx any, cacheKey, canonical, identity string, opts Options) (any, error) {
	if instance, ok := p.cache.Get(cacheKey); ok {
		return instance, nil
	}

	instance, err, _ := p.group.Do(cacheKey, func() (any, error) {
		// another caller may have finished provisioning while we waited
		if instance, ok := p.cache.Get(cacheKey); ok {
			return instance, nil
		}
		instance, err := p.pipeline.Provision(ctx, canonical, identity, opts)
		if err != nil {
			return nil, err
		}
		p.cache.Set(cacheKey, instance)
		return instance, nil
	})
	if err != nil {
		provisionedErr.Inc()
		if errors.Is(err, common.ErrConfiguration) {
			Logger.Errorf("failed to provision %s: %v", cacheKey, err)
		} else {
			Logger.Warningf("failed to provision %s: %v", cacheKey, err)
		}
		return nil, err
	}
	provisionedOK.Inc()
	Logger.Debugf("provided storage %s", cacheKey)
	return instance, nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// ResetAllStorageCache forgets all provisioned instances. The next request
// for any key provisions a fresh instance. Persisted data is not touched.
func (p *Provider) ResetAllStorageCache() {
	p.cache.Reset()
}

// Reset forgets all instances and store handles, so stores are probed again.
func (p *Provider) Reset() error {
	p.cache.Reset()
	if err := p.stores.Reset(); err != nil {
		return fmt.Errorf("reset stores: %w", err)
	}
	return nil
}

// Close releases the store handles.
func (p *Provider) Close() error {
	p.cache.Reset()
	return p.stores.Close()
}
