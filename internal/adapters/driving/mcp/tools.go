package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// defaultLimit is used when a tool call does not set a limit.
const defaultLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the question or keywords to look up"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 10)"`
	Offset    int      `json:"offset,omitempty" jsonschema:"number of passages to skip"`
	SourceIDs []string `json:"source_ids,omitempty" jsonschema:"restrict results to these source IDs"`
}

// ProbeInput is the input schema for the probe tool.
type ProbeInput struct {
	Term      string `json:"term" jsonschema:"literal text to find, case and accent insensitive"`
	PerSource int    `json:"per_source,omitempty" jsonschema:"maximum matches per source"`
}

// SearchOutput is the output schema for the search and probe tools.
// When Insufficient is true the index has no evidence for the query and
// no citation should be made.
type SearchOutput struct {
	Results      []PassageOutput `json:"results"`
	Count        int             `json:"count"`
	Insufficient bool            `json:"insufficient"`
	Reason       string          `json:"reason,omitempty"`
}

// PassageOutput is a single citeable passage.
type PassageOutput struct {
	Origin     string  `json:"origin"`
	Title      string  `json:"title"`
	Kind       string  `json:"kind"`
	RecordCode string  `json:"record_code,omitempty"`
	Position   int     `json:"position"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

// RecordInput is the input schema for the get_record tool.
type RecordInput struct {
	Code string `json:"code" jsonschema:"record code, for example 596-70"`
}

// FindRecordInput is the input schema for the find_record tool.
type FindRecordInput struct {
	Query string `json:"query" jsonschema:"a record code or a description of the infraction"`
}

// RecordOutput is the output schema for record lookups.
type RecordOutput struct {
	Found      bool           `json:"found"`
	Method     string         `json:"method,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Record     *domain.Record `json:"record,omitempty"`
	Sentence   string         `json:"sentence,omitempty"`
	Origin     string         `json:"origin,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Origins []string `json:"origins" jsonschema:"file paths or URLs to ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Results []IngestResultOutput `json:"results"`
}

// IngestResultOutput is the outcome for one origin.
type IngestResultOutput struct {
	Origin  string `json:"origin"`
	Outcome string `json:"outcome"`
	Chunks  int    `json:"chunks"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Ranked search over indexed legal texts. Returns citeable passages or an insufficient-evidence signal",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "probe",
		Description: "Find every passage containing a literal term, a few per source",
	}, s.handleProbe)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_record",
		Description: "Fetch an infraction record (ficha) by its exact code",
	}, s.handleGetRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_record",
		Description: "Resolve a code or a free-text description to the best matching record",
	}, s.handleFindRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Fetch and index documents from paths or URLs",
	}, s.handleIngest)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	opts := domain.SearchOptions{Limit: limit, Offset: input.Offset, SourceIDs: input.SourceIDs}
	resp, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(resp), nil
}

func (s *Server) handleProbe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProbeInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Search.Probe(ctx, input.Term, domain.SearchOptions{PerSource: input.PerSource})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(resp), nil
}

func (s *Server) handleGetRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordInput,
) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.ports.Records.GetRecord(ctx, input.Code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, RecordOutput{Reason: fmt.Sprintf("record %s is not indexed", input.Code)}, nil
	}
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, RecordOutput{
		Found:      true,
		Method:     string(domain.MatchByCode),
		Confidence: 1,
		Record:     rec,
	}, nil
}

func (s *Server) handleFindRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindRecordInput,
) (*mcp.CallToolResult, RecordOutput, error) {
	match, err := s.ports.Records.FindRecord(ctx, input.Query)
	if errors.Is(err, domain.ErrInsufficientEvidence) {
		return nil, RecordOutput{Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, RecordOutput{}, err
	}

	out := RecordOutput{
		Found:      true,
		Method:     string(match.Method),
		Confidence: match.Confidence,
		Record:     match.Record,
		Sentence:   match.Sentence,
		Origin:     match.SourceOrigin,
	}
	return nil, out, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errors.New("ingestion is not enabled on this server")
	}
	if len(input.Origins) == 0 {
		return nil, IngestOutput{}, fmt.Errorf("origins: %w", domain.ErrInvalidInput)
	}

	results := s.ports.Ingest.IngestBatch(ctx, input.Origins)
	out := IngestOutput{Results: make([]IngestResultOutput, len(results))}
	for i, r := range results {
		out.Results[i] = IngestResultOutput{
			Origin:  r.Origin,
			Outcome: string(r.Outcome),
			Chunks:  r.ChunksIndexed,
			Records: r.RecordsIndexed,
		}
		if r.Err != nil {
			out.Results[i].Error = r.Err.Error()
		}
	}
	return nil, out, nil
}

func toSearchOutput(resp *domain.SearchResponse) SearchOutput {
	out := SearchOutput{
		Results:      make([]PassageOutput, len(resp.Results)),
		Count:        len(resp.Results),
		Insufficient: resp.Insufficient,
		Reason:       resp.Reason,
	}
	for i, r := range resp.Results {
		out.Results[i] = PassageOutput{
			Origin:     r.Origin,
			Title:      r.Title,
			Kind:       string(r.Kind),
			RecordCode: r.RecordCode,
			Position:   r.Position,
			Snippet:    r.Snippet,
			Score:      r.Score,
		}
	}
	return out
}
