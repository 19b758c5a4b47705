package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
	"github.com/custodia-labs/casefile/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyWeightActor   = "ranking.weight_actor"
	KeyWeightRelated = "ranking.weight_related"
	KeyWeightText    = "ranking.weight_text"
	KeyMinScore      = "ranking.min_score"
	KeyMinTextSim    = "ranking.min_text_sim"
	KeyMaxResults    = "ranking.max_results"
	KeyRatePerSecond = "provider.rate_per_sec"
	KeyBurst         = "provider.burst"
)

type settingKind int

const (
	kindFloat settingKind = iota
	kindInt
)

var settingKinds = map[string]settingKind{
	KeyWeightActor:   kindFloat,
	KeyWeightRelated: kindFloat,
	KeyWeightText:    kindFloat,
	KeyMinScore:      kindFloat,
	KeyMinTextSim:    kindFloat,
	KeyMaxResults:    kindInt,
	KeyRatePerSecond: kindFloat,
	KeyBurst:         kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored settings over the defaults. A stored value that is
// not a number or fails validation is ignored and its default applies.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Ranking: domain.RankingSettings{
			Weights: domain.Weights{
				Actor:   s.getFloat(KeyWeightActor, defaults.Ranking.Weights.Actor),
				Related: s.getFloat(KeyWeightRelated, defaults.Ranking.Weights.Related),
				Text:    s.getFloat(KeyWeightText, defaults.Ranking.Weights.Text),
			},
			MinScore:   s.getFloat(KeyMinScore, defaults.Ranking.MinScore),
			MinTextSim: s.getFloat(KeyMinTextSim, defaults.Ranking.MinTextSim),
			MaxResults: s.getInt(KeyMaxResults, defaults.Ranking.MaxResults),
		},
		Provider: domain.ProviderSettings{
			RatePerSecond: s.getFloat(KeyRatePerSecond, defaults.Provider.RatePerSecond),
			Burst:         s.getInt(KeyBurst, defaults.Provider.Burst),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyWeightActor, settings.Ranking.Weights.Actor},
		{KeyWeightRelated, settings.Ranking.Weights.Related},
		{KeyWeightText, settings.Ranking.Weights.Text},
		{KeyMinScore, settings.Ranking.MinScore},
		{KeyMinTextSim, settings.Ranking.MinTextSim},
		{KeyMaxResults, settings.Ranking.MaxResults},
		{KeyRatePerSecond, settings.Provider.RatePerSecond},
		{KeyBurst, settings.Provider.Burst},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates one setting by its config key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return domain.NewValidationError(key, "unknown setting")
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.NewValidationError(key, "must be an integer")
		}
		parsed = n
	default:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.NewValidationError(key, "must be a number")
		}
		parsed = f
	}

	if err := validateSetting(key, parsed); err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset drops a stored value so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return domain.NewValidationError(key, "unknown setting")
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised config keys.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyWeightActor, KeyWeightRelated, KeyWeightText,
		KeyMinScore, KeyMinTextSim, KeyMaxResults,
		KeyRatePerSecond, KeyBurst,
	}
}

// Validate reports the first stored value that Get would ignore.
func (s *SettingsService) Validate() error {
	for _, key := range s.Keys() {
		if _, err := s.stored(key); err != nil {
			return err
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func validateSetting(key string, value any) error {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.NewValidationError(key, "must be a number")
		}
		if v < 0 {
			return domain.NewValidationError(key, "must not be negative")
		}
		if key == KeyMinTextSim && v > 1 {
			return domain.NewValidationError(key, "must be between 0 and 1")
		}
	case int:
		switch key {
		case KeyMaxResults:
			if v < domain.MinMaxResults || v > domain.MaxMaxResults {
				return domain.NewValidationError(key,
					fmt.Sprintf("must be between %d and %d", domain.MinMaxResults, domain.MaxMaxResults))
			}
		case KeyBurst:
			if v < 1 {
				return domain.NewValidationError(key, "must be at least 1")
			}
		}
	}
	return nil
}

// stored returns the validated value for key, typed by its kind.
// A missing key yields nil and no error.
func (s *SettingsService) stored(key string) (any, error) {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return nil, nil
	}
	if !numeric(raw) {
		return nil, domain.NewValidationError(key, "must be a number")
	}
	var value any = s.configStore.GetFloat(key)
	if settingKinds[key] == kindInt {
		value = s.configStore.GetInt(key)
	}
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	v, err := s.stored(key)
	if err != nil {
		logger.Debug("Ignoring %s: %v", key, err)
	}
	if f, ok := v.(float64); ok {
		return f
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	v, err := s.stored(key)
	if err != nil {
		logger.Debug("Ignoring %s: %v", key, err)
	}
	if n, ok := v.(int); ok {
		return n
	}
	return defaultVal
}

func numeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
