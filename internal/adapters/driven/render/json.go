package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// Ensure JSON implements the interface.
var _ driven.ReportRenderer = (*JSON)(nil)

// JSON renders the report payload as indented JSON.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON { return &JSON{} }

// Format returns "json".
func (*JSON) Format() string { return "json" }

// Render marshals the payload.
func (*JSON) Render(ctx context.Context, p *domain.ReportPayload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("render json: %w", domain.ErrInvalidInput)
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return append(b, '\n'), nil
}

// Pick returns the renderer for format among renderers.
func Pick(format string, renderers ...driven.ReportRenderer) (driven.ReportRenderer, error) {
	for _, r := range renderers {
		if r.Format() == format {
			return r, nil
		}
	}
	return nil, domain.NewValidationError("format", fmt.Sprintf("unknown report format %q", format))
}
