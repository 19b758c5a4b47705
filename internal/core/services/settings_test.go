package services

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/adapters/driven/config/file"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/local"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ranking"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyWeightActor, 3.0)
	_ = store.Set(KeyWeightText, int64(4))
	_ = store.Set(KeyMinScore, 0.0)
	_ = store.Set(KeyMaxResults, 1000)
	_ = store.Set(KeyRatePerSecond, 2.5)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, 3.0, settings.Ranking.Weights.Actor)
	assert.Equal(t, domain.DefaultWeightRelated, settings.Ranking.Weights.Related)
	assert.Equal(t, 4.0, settings.Ranking.Weights.Text)
	assert.Equal(t, 0.0, settings.Ranking.MinScore)
	assert.Equal(t, domain.DefaultMaxResults, settings.Ranking.MaxResults)
	assert.Equal(t, 2.5, settings.Provider.RatePerSecond)
}

func TestSettingsService_Get_InvalidValuesFallBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyWeightActor, -3.0)
	_ = store.Set(KeyWeightRelated, "heavy")
	_ = store.Set(KeyMinTextSim, 1.5)
	_ = store.Set(KeyMinScore, math.NaN())
	_ = store.Set(KeyBurst, 0)
	_ = store.Set(KeyWeightText, 4.0)
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeightActor, settings.Ranking.Weights.Actor)
	assert.Equal(t, domain.DefaultWeightRelated, settings.Ranking.Weights.Related)
	assert.Equal(t, domain.DefaultMinTextSim, settings.Ranking.MinTextSim)
	assert.Equal(t, domain.DefaultMinScore, settings.Ranking.MinScore)
	assert.Equal(t, domain.DefaultAppSettings().Provider.Burst, settings.Provider.Burst)
	assert.Equal(t, 4.0, settings.Ranking.Weights.Text)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_BadConfigFileStillRanks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[ranking]\nweight_actor = -3.0\n"), 0o600))
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	service := NewSettingsService(store)

	require.Error(t, service.Validate())

	f := newFixture(t, local.New(func() ranking.Params {
		s, _ := service.Get()
		return ranking.ParamsFromSettings(s.Ranking)
	}))
	f.seed(t, record("r1", 1, hong, "복도에서 언쟁"))

	hits, err := f.caseSvc.Preview(context.Background(), domain.CaseDraft{
		Actors: []domain.ActorRef{hong},
		Query:  "언쟁",
	})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "r1", hits[0].ID)
	assert.Positive(t, hits[0].Components.ActorScore)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Ranking.MinTextSim = 0.5
	settings.Provider.Burst = 4

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, 0.5, store.GetFloat(KeyMinTextSim))
	assert.Equal(t, 4, store.GetInt(KeyBurst))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"float", KeyWeightActor, "3.5", false},
		{"int", KeyMaxResults, "120", false},
		{"unknown key", "ranking.unknown", "1", true},
		{"not a number", KeyMinScore, "abc", true},
		{"negative weight", KeyWeightText, "-1", true},
		{"text sim above one", KeyMinTextSim, "1.2", true},
		{"max results above cap", KeyMaxResults, "401", true},
		{"max results not int", KeyMaxResults, "1.5", true},
		{"burst zero", KeyBurst, "0", true},
		{"nan", KeyMinScore, "NaN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				_, ok := store.Get(tt.key)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			_, ok := store.Get(tt.key)
			assert.True(t, ok)
		})
	}
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	assert.NoError(t, service.Validate())

	_ = store.Set(KeyWeightRelated, -2.0)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.Len(t, keys, 8)
	assert.Contains(t, keys, KeyRatePerSecond)
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Set(KeyWeightText, "4"))

	require.NoError(t, service.Reset(KeyWeightText))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeightText, settings.Ranking.Weights.Text)
	assert.ErrorIs(t, service.Reset("ranking.unknown"), domain.ErrInvalidInput)
}
