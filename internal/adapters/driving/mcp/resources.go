package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for casefile resources.
	uriScheme = "casefile://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cases",
		Name:        "cases",
		Description: "List of all cases with their status and snapshot size",
		MIMEType:    "application/json",
	}, s.handleCasesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "cases/{caseId}",
		Name:        "case",
		Description: "A case with its profile, snapshot, steps and advisors",
		MIMEType:    "application/json",
	}, s.handleCaseResource)
}

// caseInfo is the summary of a case in the cases resource.
type caseInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	URI     string `json:"uri"`
}

func (s *Server) handleCasesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	cases, err := s.ports.Case.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	infos := make([]caseInfo, len(cases))
	for i := range cases {
		infos[i] = caseInfo{
			ID:      cases[i].ID,
			Title:   cases[i].Title,
			Status:  string(cases[i].Status),
			Records: len(cases[i].Snapshot.RecordIDs),
			URI:     uriScheme + "cases/" + cases[i].ID,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleCaseResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	caseID := extractCaseID(req.Params.URI)
	if caseID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	c, err := s.ports.Case.Get(ctx, caseID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting case: %w", err)
	}
	return jsonResource(req.Params.URI, c)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCaseID extracts the case ID from a URI like casefile://cases/{caseId}.
func extractCaseID(uri string) string {
	const prefix = uriScheme + "cases/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
