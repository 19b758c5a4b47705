package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/casefile/internal/adapters/driven/render"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/snapshot"
)

// CandidatesInput is the input schema for the case_candidates tool.
type CandidatesInput struct {
	CaseID     string   `json:"case_id" jsonschema:"the case to find candidate records for"`
	Limit      int      `json:"limit,omitempty" jsonschema:"ranking limit applied before included records are dropped (default the case's max results)"`
	MinScore   *float64 `json:"min_score,omitempty" jsonschema:"override the minimum total score"`
	MinTextSim *float64 `json:"min_text_sim,omitempty" jsonschema:"override the minimum keyword similarity (0..1)"`
}

// CandidatesOutput is the output schema for the case_candidates tool.
type CandidatesOutput struct {
	CaseID     string            `json:"case_id"`
	Candidates []CandidateOutput `json:"candidates"`
	Count      int               `json:"count"`
}

// CandidateOutput is one ranked record outside the case snapshot.
type CandidateOutput struct {
	RecordID string   `json:"record_id"`
	Rank     int      `json:"rank"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
	When     string   `json:"when,omitempty"`
	Actor    string   `json:"actor"`
	Parties  []string `json:"parties"`
	Summary  string   `json:"summary"`
}

// SnapshotInput is the input schema for the case_snapshot tool.
type SnapshotInput struct {
	CaseID  string   `json:"case_id" jsonschema:"the case whose snapshot to read or change"`
	Add     []string `json:"add,omitempty" jsonschema:"record ids to merge into the snapshot"`
	Remove  []string `json:"remove,omitempty" jsonschema:"record ids to drop from the snapshot"`
	Compact bool     `json:"compact,omitempty" jsonschema:"purge cached scores of records no longer included"`
}

// SnapshotOutput is the output schema for the case_snapshot tool.
type SnapshotOutput struct {
	CaseID    string             `json:"case_id"`
	RecordIDs []string           `json:"record_ids"`
	Scores    map[string]float64 `json:"scores"`
	Orphaned  []string           `json:"orphaned,omitempty"`
	Purged    int                `json:"purged,omitempty"`
}

// ReportInput is the input schema for the case_report tool.
type ReportInput struct {
	CaseID string `json:"case_id" jsonschema:"the case to report on"`
	Format string `json:"format,omitempty" jsonschema:"output format: json (default) or text"`
}

// ReportOutput is the output schema for the case_report tool.
type ReportOutput struct {
	CaseID      string `json:"case_id"`
	Title       string `json:"title"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	Content     string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "case_candidates",
		Description: "Rank records not yet included in a case, with the reasons for each score",
	}, s.handleCandidates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "case_snapshot",
		Description: "Read a case snapshot, optionally adding, removing or compacting records first. " +
			"Every id to remove must be in the snapshot or in add; otherwise nothing changes.",
	}, s.handleSnapshot)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "case_report",
		Description: "Build the evidence report of a case",
	}, s.handleReport)
}

func (s *Server) handleCandidates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CandidatesInput,
) (*mcp.CallToolResult, CandidatesOutput, error) {
	opts := domain.RankOptions{
		Limit:      input.Limit,
		MinScore:   input.MinScore,
		MinTextSim: input.MinTextSim,
	}

	hits, err := s.ports.Case.Candidates(ctx, input.CaseID, opts)
	if err != nil {
		return nil, CandidatesOutput{}, err
	}

	output := CandidatesOutput{
		CaseID:     input.CaseID,
		Candidates: make([]CandidateOutput, len(hits)),
		Count:      len(hits),
	}
	for i := range hits {
		r := hits[i].Record
		when := ""
		if !r.Timestamp.IsZero() {
			when = r.Timestamp.Format(time.RFC3339)
		}
		output.Candidates[i] = CandidateOutput{
			RecordID: hits[i].ID,
			Rank:     hits[i].Rank,
			Score:    hits[i].Score,
			Reasons:  hits[i].Reasons,
			When:     when,
			Actor:    r.Actor.Short(),
			Parties:  parties(r),
			Summary:  r.Summary,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSnapshot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SnapshotInput,
) (*mcp.CallToolResult, SnapshotOutput, error) {
	if len(input.Remove) > 0 {
		if err := s.checkRemovable(ctx, input); err != nil {
			return nil, SnapshotOutput{}, err
		}
	}
	if len(input.Add) > 0 {
		if _, err := s.ports.Case.AddRecords(ctx, input.CaseID, input.Add); err != nil {
			return nil, SnapshotOutput{}, fmt.Errorf("adding records: %w", err)
		}
	}
	for _, id := range input.Remove {
		if _, err := s.ports.Case.RemoveRecord(ctx, input.CaseID, id); err != nil {
			return nil, SnapshotOutput{}, fmt.Errorf("removing record %s: %w", id, err)
		}
	}

	output := SnapshotOutput{CaseID: input.CaseID}
	if input.Compact {
		n, err := s.ports.Case.Compact(ctx, input.CaseID)
		if err != nil {
			return nil, SnapshotOutput{}, fmt.Errorf("compacting: %w", err)
		}
		output.Purged = n
	}

	c, err := s.ports.Case.Get(ctx, input.CaseID)
	if err != nil {
		return nil, SnapshotOutput{}, err
	}
	output.RecordIDs = c.Snapshot.RecordIDs
	output.Scores = make(map[string]float64, len(c.Snapshot.RecordIDs))
	for _, id := range c.Snapshot.RecordIDs {
		output.Scores[id] = c.Snapshot.ScoreByRecordID[id]
	}
	output.Orphaned = snapshot.Orphans(c.Snapshot)
	return nil, output, nil
}

// parties lists the main and related actors of r.
func parties(r domain.Record) []string {
	actors := r.Actors()
	out := make([]string, len(actors))
	for i, a := range actors {
		out[i] = a.Short()
	}
	return out
}

// checkRemovable rejects a snapshot edit up front when a remove id would
// not be in the snapshot once the adds are applied.
func (s *Server) checkRemovable(ctx context.Context, input SnapshotInput) error {
	c, err := s.ports.Case.Get(ctx, input.CaseID)
	if err != nil {
		return err
	}
	adding := make(map[string]bool, len(input.Add))
	for _, id := range input.Add {
		adding[id] = true
	}
	for _, id := range input.Remove {
		if !adding[id] && !c.Snapshot.Contains(id) {
			return domain.NewValidationError("remove", fmt.Sprintf("record %s is not in case %s", id, input.CaseID))
		}
	}
	return nil
}

func (s *Server) handleReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	format := input.Format
	if format == "" {
		format = "json"
	}

	payload, err := s.ports.Report.Build(ctx, input.CaseID)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	renderer := s.renderer(format)
	if renderer == nil {
		return nil, ReportOutput{}, domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}
	content, err := renderer.Render(ctx, payload)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("rendering report: %w", err)
	}

	return nil, ReportOutput{
		CaseID:      payload.CaseID,
		Title:       payload.Title,
		Format:      format,
		ContentHash: payload.ContentHash,
		Content:     string(content),
	}, nil
}

// renderer returns the renderer for format, falling back to JSON.
func (s *Server) renderer(format string) driven.ReportRenderer {
	r, err := render.Pick(format, s.ports.Renderers...)
	if err == nil {
		return r
	}
	if format == "json" {
		return render.NewJSON()
	}
	return nil
}
