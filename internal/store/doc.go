// Package store provides SQLite-backed archival of finished simulation runs.
//
// The archive holds one record per run plus long-format series rows (one row
// per run, state and step). Reads order deterministically by run id, state
// name and step, so listings and exports reproduce identically.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Run ids are time-sortable UUIDv7 strings, so ordering by id follows
// creation order.
package store
