// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DonorStore: Donor persistence and keyword lookup
//   - GiftStore: Gift ledger persistence and windowed lookup
//   - InteractionStore: Append-only touchpoint log
//   - SyncStateStore: Accounting sync progress persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, semantic
//     donor search is unavailable.
//   - VectorIndex: Stores and matches donor embeddings. Only enabled when
//     EmbeddingService is configured.
//   - LLMService: Language model operations. Without it, letter drafting
//     is disabled.
//   - AccountingGateway: Upstream gift source. Without it, gift sync is
//     disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
