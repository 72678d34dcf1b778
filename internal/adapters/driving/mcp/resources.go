package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for docdex resources.
const uriScheme = "docdex://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Current index status and entity counts",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the observable index state.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state := s.ports.Indexer.State()

	info := struct {
		Status      string `json:"status"`
		Error       string `json:"error,omitempty"`
		DocCount    int    `json:"doc_count"`
		ClassCount  int    `json:"class_count"`
		MemberCount int    `json:"member_count"`
	}{
		Status:      string(state.Status),
		Error:       state.Err,
		DocCount:    state.Stats.DocCount,
		ClassCount:  state.Stats.ClassCount,
		MemberCount: state.Stats.MemberCount,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
