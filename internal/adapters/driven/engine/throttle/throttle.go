// Package throttle rate-limits calls to a relevance provider.
//
// Long-running MCP sessions can issue ranking calls in quick succession;
// the limiter spaces them out with a token bucket.
package throttle

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.RelevanceProvider = (*Provider)(nil)

// Provider wraps a relevance provider with a token bucket.
type Provider struct {
	next   driven.RelevanceProvider
	bucket *rate.Limiter
}

// New wraps next. A rate of zero or less disables throttling.
func New(next driven.RelevanceProvider, perSecond float64, burst int) *Provider {
	p := &Provider{next: next, bucket: rate.NewLimiter(rate.Inf, 1)}
	p.SetLimit(perSecond, burst)
	return p
}

// SetLimit changes the rate and burst in place.
func (p *Provider) SetLimit(perSecond float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 || math.IsInf(perSecond, 1) {
		limit = rate.Inf
	}
	p.bucket.SetLimit(limit)
	p.bucket.SetBurst(burst)
	logger.Debug("Provider throttle set to %v/s burst %d", limit, burst)
}

// Limit returns the current rate.
func (p *Provider) Limit() rate.Limit {
	return p.bucket.Limit()
}

// Rank waits for a token, then delegates.
func (p *Provider) Rank(ctx context.Context, req driven.RankRequest) ([]domain.RankedHit, error) {
	if err := p.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Rank(ctx, req)
}
