// Package store provides SQLite-backed execution and row snapshot storage.
//
// Execute and Query run statements against the database with parameters
// normalized by package distill. Execute runs a statement once per
// parameter unit, sharing one transaction when there are several; Query
// wraps the cursor in a result.Result so rows come back as row.Row values.
//
// Snapshots persist fetched rows by name. Each row is stored as its encoded
// state next to its value hash, so a restored row compares equal to the row
// that was saved and FindByHash can locate snapshots holding equal rows.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The schema version lives in PRAGMA user_version and is advanced by
// idempotent migrations on Open.
package store
