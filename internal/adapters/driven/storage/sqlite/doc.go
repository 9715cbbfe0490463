// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DonorStore: Donor persistence and keyword lookup
//   - GiftStore: Gift ledger persistence and windowed lookup
//   - InteractionStore: Append-only touchpoint log
//   - SyncStateStore: Accounting sync progress persistence
//   - VectorIndex: Donor embedding storage and similarity matching
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.donoriq/data/donoriq.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
