package config

import (
	"context"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// StaticPreferences serves preferences straight from the config file.
type StaticPreferences struct {
	prefs domain.Preferences
}

var _ domain.PreferenceStore = (*StaticPreferences)(nil)

// NewStaticPreferences wraps the [preferences] section.
func NewStaticPreferences(p PreferencesConfig) *StaticPreferences {
	return &StaticPreferences{prefs: p.Domain()}
}

// Read returns a copy of the configured preferences.
func (s *StaticPreferences) Read(_ context.Context) (domain.Preferences, error) {
	out := s.prefs
	out.AllowedConditions = cloneStrings(s.prefs.AllowedConditions)
	out.PreferredGradingCompanies = cloneStrings(s.prefs.PreferredGradingCompanies)
	return out, nil
}
