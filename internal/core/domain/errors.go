package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (letter drafting) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Semantic donor search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	// Similarity matching is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrSyncInProgress indicates a gift sync is already running for the org.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrAccountingUnavailable indicates the accounting gateway is not configured.
	// Gift sync is disabled without an accounting connection.
	ErrAccountingUnavailable = errors.New("accounting gateway unavailable")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
