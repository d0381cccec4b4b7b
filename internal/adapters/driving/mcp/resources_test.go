package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestExtractRecordCode(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid record URI", uri: "babix://records/596-70", expected: "596-70"},
		{name: "trailing slash", uri: "babix://records/596-70/", expected: "596-70"},
		{name: "invalid prefix", uri: "file://records/596-70", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRecordCode(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSourcesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil source service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		result, err := server.handleSourcesResource(ctx, makeReadResourceRequest("babix://sources"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns sources with counts", func(t *testing.T) {
		source := &mockSourceService{stats: []domain.SourceStats{{
			Source: domain.Source{
				ID:        "src-1",
				Origin:    "https://example.gov.br/mbft",
				Status:    domain.SourceStatusError,
				LastError: "status 503",
			},
			Chunks:  4,
			Records: 2,
		}}}
		server := newTestServer(t, &Ports{Source: source})

		result, err := server.handleSourcesResource(ctx, makeReadResourceRequest("babix://sources"))
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "https://example.gov.br/mbft", got[0]["origin"])
		assert.Equal(t, "error", got[0]["status"])
		assert.Equal(t, "status 503", got[0]["last_error"])
		assert.EqualValues(t, 2, got[0]["records"])
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(t, &Ports{Source: &mockSourceService{err: errors.New("db closed")}})

		_, err := server.handleSourcesResource(ctx, makeReadResourceRequest("babix://sources"))

		assert.ErrorContains(t, err, "db closed")
	})
}

func TestServer_handleRecordResource(t *testing.T) {
	ctx := context.Background()
	records := &mockRecordService{records: map[string]*domain.Record{
		"596-70": {Code: "596-70", Title: "Dirigir sem linha amarela"},
	}}
	server := newTestServer(t, &Ports{Records: records})

	result, err := server.handleRecordResource(ctx, makeReadResourceRequest("babix://records/596-70"))
	require.NoError(t, err)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "Dirigir sem linha amarela")

	_, err = server.handleRecordResource(ctx, makeReadResourceRequest("babix://records/999-99"))
	assert.Error(t, err)

	_, err = server.handleRecordResource(ctx, makeReadResourceRequest("babix://other"))
	assert.Error(t, err)
}
