// Package cache provides SQLite-based storage for probe results.
//
// Probing an icon costs a network round-trip plus up to a couple of
// kilobytes of body reads, and icon dimensions rarely change. The cache
// lets repeated CLI runs against the same hosts skip probes whose
// outcome is already known.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// flat file because:
// 1. No external dependencies - the cache is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. UPSERT gives us cheap last-write-wins semantics per URL
// 4. WAL mode provides good concurrent read performance
package cache
