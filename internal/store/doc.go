// Package store provides SQLite-backed durable storage for arbor.
//
// The database holds four logical tables:
//   - Blobs: content-addressed byte sequences, deduplicated on insert
//   - Trees: registered filesystem roots, keyed by absolute path
//   - Script bindings: per-tree named references to blobs
//   - File bindings: same shape, separate namespace
//
// # Critical Patterns
//
// Dedup-on-insert: PutBlob keys candidate rows by an xxh3-128 content hash
// and verifies exact byte equality before reusing an id. Two puts of
// identical bytes always return the same id.
//
// Shared mutation: OverwriteBlob changes a blob's content in place. Every
// binding referencing that blob id observes the new content. Callers that
// want fresh content must Put instead.
//
// Tombstones: pruning never deletes blob rows. TombstoneBlob nulls the
// content while keeping the id allocated, so binding rows stay referentially
// intact.
//
// Multi-statement operations (add = put-then-bind, unregister =
// cascade-then-delete) run inside a single transaction so a concurrent
// second process never observes a half-completed change.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
