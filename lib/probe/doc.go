// Package probe detects whether the native store of a kind is usable and
// falls back to an in-memory store when it is not.
//
// A native store can exist but still refuse writes (a full disk, a read-only
// data directory, a store disabled by policy). The probe therefore opens the
// store and performs a write-then-delete of a sentinel item. Any failure,
// including a panic of the backend, yields a memstore fallback instead. The
// failure is logged and counted but never returned: callers always get a
// working handle, at the cost of data silently not persisting.
//
// The result is memoized per kind in a Registry, so each native store is
// probed at most once until Reset is called.
//
// Usage Example:
//
//	reg := probe.NewRegistry(map[store.Kind]store.Factory{
//		store.KindLocal:   sqlstore.Factory("data/local.db"),
//		store.KindSession: sqlstore.Factory(":memory:"),
//	})
//	h := reg.Probe(store.KindLocal)
//	if !h.Native() {
//		// running on the in-memory fallback
//	}
//	_ = h.SetItem("storage:prefs", []byte(`{"theme":"dark"}`))
package probe
