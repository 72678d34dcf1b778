package mcp

import (
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers the four retrieval operations.
	Query driving.QueryService

	// Indexer reports the observable index state.
	Indexer driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Indexer == nil {
		return ErrMissingIndexService
	}
	return nil
}
