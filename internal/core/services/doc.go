// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The indexer owns the store lifecycle: every build writes a fresh
// store and swaps it in atomically. The query service only reads,
// through whatever store is currently serving.
package services
