// Package descriptor defines storage descriptors and the registry they are
// looked up in.
//
// A descriptor is a named template ("storage:{canonicalKey}") describing how an
// instance is built: an optional initial state producer, the native store kind
// the instance persists into, and a construction protocol. The protocol is a
// tagged variant chosen when the descriptor is created:
//
//   - Constructible: a Constructor receives the merged initial state and the
//     probed store handles and returns the instance.
//   - PlainObject: the descriptor's properties are wrapped as a plain stateful
//     object (the compatibility path for descriptors without a constructor).
//
// Registries are plain lookup tables; provisioning and caching of instances is
// done by the provision package.
package descriptor
