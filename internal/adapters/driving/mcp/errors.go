// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docdex. It exposes the documentation index to AI assistants as
// four tools: search_docs, get_class, get_method and list_modules.
package mcp

import "errors"

// Errors returned when required ports are not provided.
var (
	// ErrMissingQueryService is returned when the query service is not provided.
	ErrMissingQueryService = errors.New("mcp: query service is required")

	// ErrMissingIndexService is returned when the index service is not provided.
	ErrMissingIndexService = errors.New("mcp: index service is required")
)
