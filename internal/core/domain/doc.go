// Package domain defines the core business entities for Donoriq.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Donor: An organisation-owned supporter record
//   - Gift: An immutable donation attributed to a Donor
//   - LifecycleResult: A donor's computed lifecycle stage
//   - DonorSearchResult: A ranked donor list with search diagnostics
//   - RedactionMap: Placeholder-to-value mapping for PII round trips
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
