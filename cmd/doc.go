// Package cmd implements the command-line interface of storagefor. It provides
// commands to inspect the native stores and to provision storage from a YAML
// descriptor file.
//
// The package is organized into several subpackages:
//
//   - probe: Tests the native stores and reports native or fallback
//   - item: Raw item operations on a native store (get, set, remove, keys, clear)
//   - provide: Provisions the storage of a key (or entity) and changes its content
//   - perf: Benchmarks provisioning and item operations
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See storagefor -help for a list of all commands.
package cmd
