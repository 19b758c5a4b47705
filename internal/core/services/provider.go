package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/logger"
)

// errMalformedResponse marks provider output that breaks the response contract.
var errMalformedResponse = errors.New("malformed response")

// rankBoundary calls the relevance provider for one case-scoped request.
//
// Only the newest request per case survives: an older one still running is
// cancelled and returns domain.ErrSuperseded. Any other failure, including a
// response that breaks the contract, comes back as *domain.ProviderError.
func rankBoundary(
	ctx context.Context, gate *caseGate, provider driven.RelevanceProvider, req driven.RankRequest,
) ([]domain.RankedHit, error) {
	if provider == nil {
		return nil, &domain.ProviderError{Op: "rank", CaseID: req.CaseID, Err: domain.ErrProviderUnavailable}
	}

	rctx, done := gate.begin(ctx, req.CaseID)
	defer done()
	defer logger.Timed("rank")()

	logger.Debug("Ranking %d records for case %q", len(req.Records), req.CaseID)
	hits, err := provider.Rank(rctx, req)
	if superseded(rctx) {
		logger.Debug("Rank for case %q superseded", req.CaseID)
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		return nil, &domain.ProviderError{Op: "rank", CaseID: req.CaseID, Err: err}
	}
	if err := checkHits(hits, req.Records); err != nil {
		return nil, &domain.ProviderError{Op: "rank", CaseID: req.CaseID, Err: err}
	}

	logger.Debug("Rank for case %q returned %d hits", req.CaseID, len(hits))
	return hits, nil
}

// checkHits validates a provider response: known ids, no duplicates,
// ranks 1..N in order, finite non-negative scores.
func checkHits(hits []domain.RankedHit, pool []domain.Record) error {
	known := make(map[string]struct{}, len(pool))
	for _, r := range pool {
		known[r.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(hits))
	for i, h := range hits {
		if _, ok := known[h.ID]; !ok {
			return fmt.Errorf("%w: unknown record %q", errMalformedResponse, h.ID)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("%w: duplicate record %q", errMalformedResponse, h.ID)
		}
		seen[h.ID] = struct{}{}
		if h.Rank != i+1 {
			return fmt.Errorf("%w: record %q has rank %d at position %d", errMalformedResponse, h.ID, h.Rank, i+1)
		}
		if math.IsNaN(h.Score) || math.IsInf(h.Score, 0) || h.Score < 0 {
			return fmt.Errorf("%w: record %q has invalid score %v", errMalformedResponse, h.ID, h.Score)
		}
		if h.Components.TextSim < 0 || h.Components.TextSim > 1 {
			return fmt.Errorf("%w: record %q has text similarity %v", errMalformedResponse, h.ID, h.Components.TextSim)
		}
	}
	return nil
}

// adviseBoundary calls the advisory provider. A nil provider yields no items.
func adviseBoundary(
	ctx context.Context, provider driven.AdvisorProvider, req driven.AdviseRequest,
) ([]domain.AdvisorItem, error) {
	if provider == nil {
		return nil, nil
	}
	items, err := provider.Advise(ctx, req)
	if err != nil {
		return nil, &domain.ProviderError{Op: "advise", CaseID: req.Case.ID, Err: err}
	}
	return items, nil
}

// degrade logs a provider failure so callers can continue with empty results.
func degrade(err error) {
	logger.Warn("%v", err)
}
