// Package snapstore provides the durable snapshot store: one JSON file per
// source module mapping test keys to accepted baseline values.
//
// The store is loaded lazily into an in-memory working copy, mutated there,
// and persisted with a single atomic flush (write temp file, fsync, rename
// over the target). A crash mid-write never leaves a truncated or
// half-written file. Load and flush serialize against other processes via
// an exclusive advisory lock on a sidecar file. There is no merge logic:
// a writer that flushes after another process flushed newer data overwrites
// it.
//
// Entries are written key-sorted so store files produce stable
// version-control diffs.
package snapstore
