package domain

// RankingSettings holds the configured ranking defaults.
// Case profiles and per-request options override them.
type RankingSettings struct {
	// Weights are the default component weights.
	Weights Weights

	// MinScore is the default inclusion threshold on the total score.
	MinScore float64

	// MinTextSim is the default keyword similarity threshold (0..1).
	MinTextSim float64

	// MaxResults is the default result limit for new cases.
	MaxResults int
}

// ProviderSettings holds relevance/advisory boundary configuration.
type ProviderSettings struct {
	// RatePerSecond caps provider calls. Zero disables throttling.
	RatePerSecond float64

	// Burst is the number of calls allowed at once.
	Burst int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ranking  RankingSettings
	Provider ProviderSettings
}

// DefaultAppSettings returns the built-in settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ranking: RankingSettings{
			Weights:    DefaultWeights(),
			MinScore:   DefaultMinScore,
			MinTextSim: DefaultMinTextSim,
			MaxResults: DefaultMaxResults,
		},
		Provider: ProviderSettings{
			RatePerSecond: 0,
			Burst:         1,
		},
	}
}
