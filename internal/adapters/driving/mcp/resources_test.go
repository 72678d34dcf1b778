package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("reports ready state with counts", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{
			Status: domain.StatusReady,
			Stats:  domain.IndexStats{DocCount: 12, ClassCount: 3, MemberCount: 9},
		}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		req := &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "docdex://status"},
		}
		result, err := server.handleStatusResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "docdex://status", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var info struct {
			Status      string `json:"status"`
			Error       string `json:"error"`
			DocCount    int    `json:"doc_count"`
			ClassCount  int    `json:"class_count"`
			MemberCount int    `json:"member_count"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, "ready", info.Status)
		assert.Empty(t, info.Error)
		assert.Equal(t, 12, info.DocCount)
		assert.Equal(t, 3, info.ClassCount)
		assert.Equal(t, 9, info.MemberCount)
	})

	t.Run("reports build failure", func(t *testing.T) {
		indexer := &mockIndexService{state: domain.IndexState{
			Status: domain.StatusError,
			Err:    "fetching source files: repository not found",
		}}
		server := newTestServer(t, &mockQueryService{}, indexer)

		req := &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "docdex://status"},
		}
		result, err := server.handleStatusResource(ctx, req)

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "error")
		assert.Contains(t, result.Contents[0].Text, "repository not found")
	})
}
