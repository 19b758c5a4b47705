package driving

import "github.com/custodia-labs/casefile/internal/core/domain"

// SettingsService reads and edits the ranking and throttle settings.
// Keys are dotted config keys such as "ranking.weight_text".
type SettingsService interface {
	// Get returns stored settings layered over the defaults.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error

	// Set parses value for key and stores it.
	Set(key, value string) error
	// Reset drops the stored value for key.
	Reset(key string) error
	Keys() []string

	Validate() error
	GetDefaults() domain.AppSettings
}
