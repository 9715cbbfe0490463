// Package quickbooks implements the accounting gateway against the
// QuickBooks Online API.
//
// Sales receipts are treated as gifts: each receipt's customer becomes the
// upstream donor reference and the receipt id is the idempotency key for
// the local gift ledger. Pagination uses the query STARTPOSITION clause,
// surfaced to the core as an opaque cursor.
//
// OAuth2 access tokens refresh transparently inside the HTTP client, and
// requests are throttled below the per-realm API limit.
package quickbooks
