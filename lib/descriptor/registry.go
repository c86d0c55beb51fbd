package descriptor

import (
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

var Logger = logger.GetLogger("descriptor")

// Registry maps descriptor names to descriptors.
//
// Thread-safety: All methods are thread-safe.
type Registry struct {
	descriptors *xsync.MapOf[string, *Descriptor]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: xsync.NewMapOf[string, *Descriptor](),
	}
}

// Register adds a descriptor. The variant is taken from the descriptor as
// created by NewConstructible or NewPlain and never re-detected later.
// Registering a name twice is a configuration error.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return common.ConfigurationErrorf("descriptor is nil")
	}
	if err := d.validate(); err != nil {
		return common.ConfigurationErrorf("%v", err)
	}
	if _, loaded := r.descriptors.LoadOrStore(d.Name, d); loaded {
		return common.ConfigurationErrorf("descriptor %s is already registered", d.Name)
	}
	Logger.Debugf("registered descriptor %s (%s, %s store)", d.Name, d.variant, d.Kind)
	return nil
}

// RegisterAll registers all descriptors and stops at the first error.
func (r *Registry) RegisterAll(ds ...*Descriptor) error {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	return r.descriptors.Load(name)
}

// Unregister removes a descriptor. Already provisioned instances are not affected.
func (r *Registry) Unregister(name string) {
	r.descriptors.Delete(name)
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.descriptors.Size())
	r.descriptors.Range(func(name string, _ *Descriptor) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
