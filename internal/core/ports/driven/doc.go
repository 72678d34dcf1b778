// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceFetcher: Obtains documentation files from the external repository
//   - IndexStore: Entity persistence and read-side queries
//   - StoreFactory: Creates a fresh IndexStore for each full rebuild
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
