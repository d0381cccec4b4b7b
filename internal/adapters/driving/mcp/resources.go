package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Babix resources.
	uriScheme = "babix://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Ingested sources with their status and counts",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{code}",
		Name:        "record",
		Description: "An infraction record (ficha) by code",
		MIMEType:    "application/json",
	}, s.handleRecordResource)
}

// handleSourcesResource returns every ingested source.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	stats, err := s.ports.Source.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		ID        string    `json:"id"`
		Origin    string    `json:"origin"`
		Title     string    `json:"title"`
		Status    string    `json:"status"`
		LastError string    `json:"last_error,omitempty"`
		Chunks    int       `json:"chunks"`
		Records   int       `json:"records"`
		FetchedAt time.Time `json:"fetched_at"`
	}

	infos := make([]sourceInfo, len(stats))
	for i, st := range stats {
		infos[i] = sourceInfo{
			ID:        st.Source.ID,
			Origin:    st.Source.Origin,
			Title:     st.Source.Title,
			Status:    string(st.Source.Status),
			LastError: st.Source.LastError,
			Chunks:    st.Chunks,
			Records:   st.Records,
			FetchedAt: st.Source.FetchedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRecordResource returns one record as JSON.
func (s *Server) handleRecordResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	code := extractRecordCode(req.Params.URI)
	if code == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Records.GetRecord(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRecordCode extracts the code from a URI like babix://records/{code}.
func extractRecordCode(uri string) string {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(uri, prefix), "/")
}
