package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "ranking.weight_actor")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "provider.burst")
	assert.NotContains(t, out, "Warning")
}

func TestSettingsSetGet(t *testing.T) {
	e := setupTestServices(t)

	out, err := run(t, "settings", "set", "ranking.min_score", "1.2")
	require.NoError(t, err)
	assert.Contains(t, out, "ranking.min_score = 1.2")

	s, err := e.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 1.2, s.Ranking.MinScore)

	out, err = run(t, "settings", "get", "ranking.min_score")
	require.NoError(t, err)
	assert.Equal(t, "1.2\n", out)
}

func TestSettingsReset(t *testing.T) {
	e := setupTestServices(t)
	require.NoError(t, e.settings.Set("ranking.min_score", "1.2"))
	require.NoError(t, e.settings.Set("provider.burst", "4"))

	out, err := run(t, "settings", "reset", "ranking.min_score")
	require.NoError(t, err)
	assert.Contains(t, out, "ranking.min_score reset to default")

	s, err := e.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMinScore, s.Ranking.MinScore)
	assert.Equal(t, 4, s.Provider.Burst)

	_, err = run(t, "settings", "reset", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettings_Errors(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "settings", "get", "nope")
	assert.Error(t, err)

	_, err = run(t, "settings", "set", "ranking.min_text_sim", "3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommands_WithoutServices(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{
		{"record", "list"},
		{"case", "list"},
		{"report", "CASE_1"},
		{"settings"},
	} {
		_, err := run(t, args...)
		assert.ErrorIs(t, err, errNotConfigured, args)
	}
}
