// Package local provides the in-process relevance provider.
package local

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ranking"
)

// Ensure Engine implements the interface.
var _ driven.RelevanceProvider = (*Engine)(nil)

// ParamsSource returns the configured ranking parameters.
// It is consulted on every call so configuration reloads take effect.
type ParamsSource func() ranking.Params

// Engine ranks records in-process with the ranking package.
type Engine struct {
	params ParamsSource
}

// New creates an engine. A nil source uses the built-in defaults.
func New(params ParamsSource) *Engine {
	if params == nil {
		params = ranking.DefaultParams
	}
	return &Engine{params: params}
}

// Rank resolves request options over the case profile and configured
// parameters, then ranks the pool.
func (e *Engine) Rank(ctx context.Context, req driven.RankRequest) ([]domain.RankedHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := ranking.Resolve(e.params(), req.Profile, req.Options)
	hits := ranking.Rank(req.Records, req.Profile, params)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
