package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Theme defines the colour palette of the text report.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Info      lipgloss.Color
	Warning   lipgloss.Color
	Critical  lipgloss.Color
	Border    lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Info:      lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Critical:  lipgloss.Color("#F38BA8"), // Red
		Border:    lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains the lipgloss styles of the text report. Styles are bound
// to a renderer, so colour is dropped automatically when the output is not
// a terminal.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Border  lipgloss.Style

	levels map[domain.AdvisorLevel]lipgloss.Style
	lv     map[domain.Sensitivity]lipgloss.Style
}

// NewStyles creates styles from a theme for the given renderer.
func NewStyles(r *lipgloss.Renderer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	critical := r.NewStyle().Bold(true).Foreground(theme.Critical)
	warning := r.NewStyle().Foreground(theme.Warning)

	return &Styles{
		Title:   r.NewStyle().Bold(true).Foreground(theme.Primary),
		Section: r.NewStyle().Bold(true).Foreground(theme.Secondary),
		Muted:   r.NewStyle().Foreground(theme.Muted),
		Header:  r.NewStyle().Bold(true).Padding(0, 1),
		Border:  r.NewStyle().Foreground(theme.Border),
		levels: map[domain.AdvisorLevel]lipgloss.Style{
			domain.AdvisorInfo:     r.NewStyle().Foreground(theme.Info),
			domain.AdvisorWarn:     warning,
			domain.AdvisorCritical: critical,
		},
		lv: map[domain.Sensitivity]lipgloss.Style{
			domain.LV4: warning,
			domain.LV5: critical,
		},
	}
}

// Level returns the style for an advisory level.
func (s *Styles) Level(level domain.AdvisorLevel) lipgloss.Style {
	if st, ok := s.levels[level]; ok {
		return st
	}
	return s.Muted
}

// Sensitivity returns the style for a record sensitivity level.
// Levels below LV4 render plain.
func (s *Styles) Sensitivity(lv domain.Sensitivity) (lipgloss.Style, bool) {
	st, ok := s.lv[lv]
	return st, ok
}
