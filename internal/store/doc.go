// Package store provides SQLite-backed run history for numcheck.
//
// The store is an append-only log with two tables:
//   - runs: one row per suite execution with its folded pass flag
//   - outcomes: one row per evaluated case, keyed by a content-addressed ID
//
// # Ordering
//
// Every listing query orders by ORDER BY seq ASC, id ASC COLLATE BINARY.
// seq comes from the engine's logical clock, so history reads identically
// regardless of wall time.
//
// # Numbers
//
// Expected and actual values are stored as canonical ir.IRNumber text
// (so NaN is the word "NaN"), never as SQLite REAL.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
