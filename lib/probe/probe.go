package probe

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/ValentinKolb/storagefor/lib/store/memstore"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("probe")

const (
	// SentinelKey is written and removed again to test a native store.
	SentinelKey   = "storagefor.test"
	sentinelValue = "ok"
)

// --------------------------------------------------------------------------
// Store Handle
// --------------------------------------------------------------------------

// Handle wraps the store chosen for a kind: the native store if it passed the
// probe, an in-memory fallback otherwise.
type Handle struct {
	store.IStore
	kind   store.Kind
	native bool
}

// Kind returns the kind the handle was probed for.
func (h *Handle) Kind() store.Kind { return h.kind }

// Native reports whether the handle is backed by the native store.
// False means data is kept in memory only and is lost with the process.
func (h *Handle) Native() bool { return h.native }

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry probes native stores and memoizes one handle per kind.
//
// Thread-safety: All methods are thread-safe. The probe of a kind runs at most
// once until Reset is called, even under concurrent access.
type Registry struct {
	factories map[store.Kind]store.Factory
	handles   *xsync.MapOf[store.Kind, *Handle]
}

// NewRegistry creates a registry with the native store factory of each kind.
// Kinds without a factory always get a fallback handle.
func NewRegistry(factories map[store.Kind]store.Factory) *Registry {
	f := make(map[store.Kind]store.Factory, len(factories))
	for k, v := range factories {
		f[k] = v
	}
	return &Registry{
		factories: f,
		handles:   xsync.NewMapOf[store.Kind, *Handle](),
	}
}

// Probe returns the handle of a kind. The first call tests the native store,
// later calls return the memoized handle. Probe never fails: any failure of the
// native store is absorbed by substituting an in-memory store.
func (r *Registry) Probe(kind store.Kind) *Handle {
	h, _ := r.handles.LoadOrCompute(kind, func() *Handle {
		return r.probe(kind)
	})
	return h
}

// ProbeAll probes every known kind and returns the handles in the order of
// store.Kinds.
func (r *Registry) ProbeAll() []*Handle {
	handles := make([]*Handle, 0, len(store.Kinds))
	for _, kind := range store.Kinds {
		handles = append(handles, r.Probe(kind))
	}
	return handles
}

// GetStore is an alias for Probe.
func (r *Registry) GetStore(kind store.Kind) *Handle {
	return r.Probe(kind)
}

// Probed reports whether the kind has been probed already.
func (r *Registry) Probed(kind store.Kind) bool {
	_, ok := r.handles.Load(kind)
	return ok
}

// Reset closes all handles and forgets them, so the next Probe tests the
// native stores again.
func (r *Registry) Reset() error {
	var errs []error
	r.handles.Range(func(kind store.Kind, h *Handle) bool {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s store: %w", kind, err))
		}
		r.handles.Delete(kind)
		return true
	})
	return errors.Join(errs...)
}

// Close releases all handles.
func (r *Registry) Close() error {
	return r.Reset()
}

func (r *Registry) probe(kind store.Kind) *Handle {
	factory, ok := r.factories[kind]
	if !ok {
		Logger.Warningf("no native %s store configured, using in-memory fallback", kind)
		countProbe(kind, "fallback")
		return &Handle{IStore: memstore.New(), kind: kind}
	}

	native, err := TryStorage(factory)
	if err != nil {
		Logger.Warningf("native %s store is unavailable, using in-memory fallback (data will not persist): %v", kind, err)
		countProbe(kind, "fallback")
		return &Handle{IStore: memstore.New(), kind: kind}
	}

	Logger.Debugf("native %s store is available", kind)
	countProbe(kind, "native")
	return &Handle{IStore: native, kind: kind, native: true}
}

// TryStorage opens a native store and tests it with a write-then-delete of a
// sentinel item. It returns an error (and closes the store) if any step fails
// or panics.
func TryStorage(factory store.Factory) (s store.IStore, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native store panicked: %v", r)
		}
		if err != nil && s != nil {
			_ = s.Close()
			s = nil
		}
	}()

	s, err = factory()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, store.NewError(store.RetCUnavailable, "factory returned no store")
	}
	if err = s.SetItem(SentinelKey, []byte(sentinelValue)); err != nil {
		return s, err
	}
	if err = s.RemoveItem(SentinelKey); err != nil {
		return s, err
	}
	return s, nil
}

func countProbe(kind store.Kind, result string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`storagefor_probe_total{kind=%q,result=%q}`, kind, result)).Inc()
}
