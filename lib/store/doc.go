// Package store defines the native key/value stores that storage proxies
// persist into. It mirrors the item semantics of platform storage: values are
// set and removed per key, and writes fail loudly when the store is disabled
// or full.
//
// The package focuses on:
//   - A unified interface (IStore) for item operations across different backends
//   - Store kinds (local, session), one native store per kind per process
//   - Pluggable store construction through the Factory type
//
// Key Components:
//
//   - IStore Interface: The core abstraction with SetItem, GetItem, RemoveItem,
//     Keys, Clear and Close. All implementations share this interface so the
//     probe can substitute one for another without the callers noticing.
//
//   - Error System: A structured error with typed return codes. QuotaExceeded and
//     Unavailable are the failures the probe absorbs when it falls back to memory.
//
//   - Factory: A function type that creates the native store of a kind, so the
//     probe can be configured (and tested) with arbitrary backends.
//
// Implementations:
//
//	- Memory Store (memstore): An in-memory store on top of xsync.MapOf. It is the
//	  fallback when a native store fails its probe and can simulate a quota.
//	  Available in the "github.com/ValentinKolb/storagefor/lib/store/memstore" package.
//
//	- SQLite Store (sqlstore): A store backed by modernc.org/sqlite. A file path
//	  gives a store that survives process restarts (the local kind), ":memory:"
//	  gives a store bound to the process (the session kind).
//	  Available in the "github.com/ValentinKolb/storagefor/lib/store/sqlstore" package.
//
// The testing package (github.com/ValentinKolb/storagefor/lib/store/testing)
// provides a conformance suite for IStore implementations.
package store
