package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// caseGate coordinates work per case id. Snapshot mutations of one case
// run one at a time, and only the newest ranking request of a case stays
// in flight.
type caseGate struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inflight map[string]*flight
	seq      uint64
}

type flight struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

func newCaseGate() *caseGate {
	return &caseGate{
		locks:    make(map[string]*sync.Mutex),
		inflight: make(map[string]*flight),
	}
}

// lock serialises mutations of one case. Call the returned func to release.
func (g *caseGate) lock(caseID string) func() {
	g.mu.Lock()
	m, ok := g.locks[caseID]
	if !ok {
		m = &sync.Mutex{}
		g.locks[caseID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// begin registers a ranking request for caseID, superseding any request
// already in flight for it. The returned context is cancelled with
// domain.ErrSuperseded when a newer request arrives. Call done when the
// request finishes.
func (g *caseGate) begin(ctx context.Context, caseID string) (context.Context, func()) {
	rctx, cancel := context.WithCancelCause(ctx)
	if caseID == "" {
		return rctx, func() { cancel(nil) }
	}

	g.mu.Lock()
	g.seq++
	f := &flight{seq: g.seq, cancel: cancel}
	if prev, ok := g.inflight[caseID]; ok {
		prev.cancel(domain.ErrSuperseded)
	}
	g.inflight[caseID] = f
	g.mu.Unlock()

	return rctx, func() {
		g.mu.Lock()
		if cur, ok := g.inflight[caseID]; ok && cur.seq == f.seq {
			delete(g.inflight, caseID)
		}
		g.mu.Unlock()
		cancel(nil)
	}
}

// superseded reports whether ctx was cancelled by a newer request.
func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), domain.ErrSuperseded)
}
