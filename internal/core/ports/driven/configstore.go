package driven

import "context"

// ConfigStore holds flat, dot-keyed settings such as "ranking.min_score".
// Numeric getters return 0 for missing or non-numeric values; callers that
// need to tell "unset" apart use Get.
type ConfigStore interface {
	Get(key string) (any, bool)

	// GetInt truncates floats.
	GetInt(key string) int

	// GetFloat widens integers.
	GetFloat(key string) float64

	// Set stores a value and persists it before returning.
	Set(key string, value any) error

	// Unset removes a key so its default applies again. Missing keys are not an error.
	Unset(key string) error

	Save() error
	Load() error

	// Path names the backing file, or ":memory:".
	Path() string
}

// ConfigWatcher reports changes to the configuration source.
type ConfigWatcher interface {
	// Watch calls onChange after every reload until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}
