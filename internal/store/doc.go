// Package store provides SQLite-backed persistence for RDF datasets.
//
// A dataset persists as one row per graph and one row per triple. The
// default graph uses the empty string as its name. Triple rows carry the
// term kind alongside the lexical value so IRIs, blank nodes, and
// literals (with language tag or datatype) round-trip exactly.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Reads order by rowid so a saved dataset loads with the triples in the
// order they were written, keeping query evaluation deterministic across
// restarts.
package store
