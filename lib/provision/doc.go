// Package provision resolves storage descriptors into instances and caches one
// instance per logical key for the lifetime of the process.
//
// Key Components:
//
//   - Pipeline: Resolves the descriptor "storage:{canonicalKey}", computes the
//     storage key (legacy key, "storage:{key}:{identity}" or "storage:{key}"),
//     invokes the descriptor's initial state producer with the caller context,
//     merges the storage key into the seeded content (the storage key wins) and
//     instantiates the descriptor according to its variant. The pipeline never
//     retries and never caches.
//
//   - Provider: Normalizes keys, derives entity identity keys and returns the
//     cached instance or provisions it through the pipeline. Failed
//     provisionings leave the cache unset, so a later call may succeed.
//     Unset entities (nil, typed nil) are passed through without provisioning.
//
//   - Binding: The explicit subscription replacing lazily derived properties.
//     A binding names a key and optionally the property of an owner holding
//     the entity; Subscribe re-derives the storage and calls back whenever that
//     property changes.
//
//   - Process-wide provider: Init, Default, Reset, ResetAllStorageCache and
//     Shutdown manage a shared provider, with package-level shortcuts for
//     ProvideStorage, ProvideEntityStorage, StorageFor and GetStore.
//
// Cache Keys:
//
//	Global storage is cached under the canonical key, entity storage under the
//	identity key ("post:7"). There is one instance per entity: the key of the
//	first request decides its descriptor. Canonical keys must not contain ':'
//	so both kinds of keys never collide. Entries are never evicted; destroying
//	an entity does not drop its instance.
//
// Usage Example:
//
//	p, err := provision.Init(common.DefaultConfig(),
//		proxy.ObjectDescriptor("prefs", codec.NewJSONCodec(),
//			descriptor.WithInitialState(func() descriptor.State {
//				return descriptor.State{"theme": "dark"}
//			})),
//	)
//	prefs, err := p.ProvideStorage(nil, "Prefs")
//	_ = prefs.(*proxy.Object).Set("theme", "light")
package provision
