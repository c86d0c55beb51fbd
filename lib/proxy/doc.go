// Package proxy implements the storage instances handed out by the provider.
//
// Object and Array keep their content in memory and write every change through
// to a native store handle, under the storage key of the state they were
// created with. On creation they load what is already persisted under that key,
// so a provider restarted on the same local store picks up where it left off.
// Both remember their seeded content: Reset restores it, Clear empties the
// instance and removes the persisted item.
//
// Plain is the in-memory object plain descriptors are wrapped as.
//
// The encoding of persisted values is chosen with a codec.ICodec.
package proxy
