package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func TestCaseGate_BeginSupersedes(t *testing.T) {
	g := newCaseGate()

	older, doneOlder := g.begin(context.Background(), "c1")
	newer, doneNewer := g.begin(context.Background(), "c1")
	defer doneNewer()

	assert.ErrorIs(t, older.Err(), context.Canceled)
	assert.True(t, superseded(older))
	assert.NoError(t, newer.Err())

	doneOlder()
	assert.Len(t, g.inflight, 1)
}

func TestCaseGate_BeginIndependentCases(t *testing.T) {
	g := newCaseGate()

	a, doneA := g.begin(context.Background(), "c1")
	b, doneB := g.begin(context.Background(), "c2")

	assert.NoError(t, a.Err())
	assert.NoError(t, b.Err())

	doneA()
	doneB()
	assert.Empty(t, g.inflight)
	assert.False(t, superseded(a))
}

func TestCaseGate_BeginWithoutCase(t *testing.T) {
	g := newCaseGate()

	a, doneA := g.begin(context.Background(), "")
	b, doneB := g.begin(context.Background(), "")
	defer doneB()

	assert.NoError(t, a.Err())
	assert.NoError(t, b.Err())
	doneA()
	assert.Empty(t, g.inflight)
}

func TestCaseGate_ParentCancelIsNotSuperseded(t *testing.T) {
	g := newCaseGate()
	parent, cancel := context.WithCancel(context.Background())

	ctx, done := g.begin(parent, "c1")
	defer done()
	cancel()

	assert.Error(t, ctx.Err())
	assert.False(t, superseded(ctx))
	assert.NotErrorIs(t, context.Cause(ctx), domain.ErrSuperseded)
}

func TestCaseGate_LockSerialises(t *testing.T) {
	g := newCaseGate()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
		maxSeen int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := g.lock("c1")
			defer unlock()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
