// Package shardstore persists shard metadata and payloads in two tiers: an
// ordered key-value index of per-key JSON records, and a flat directory of
// digest-named files holding the bulk shard bytes.
//
// Records are written by Put and located by their logical key; the shard file
// itself is created lazily on the first Get, which hands back a write-mode
// handle when no file exists yet and a read-mode handle afterwards. Del
// removes the index entry before the file, so a crash mid-deletion never
// leaves an index entry pointing at a missing file silently.
//
// Both tiers are pluggable through the backend interfaces; the defaults are
// an embedded LevelDB index at <root>/contracts.db and local shard files
// under <root>/data. A single process must hold exclusive access to both.
package shardstore
