// Package domain defines the core business entities for docdex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocChunk: A heading-scoped slice of a guide document
//   - Declaration: An exported symbol from reference documentation
//   - Member: A method, property, constructor or accessor of a Declaration
//   - SearchResult: A query-time rankable record
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
