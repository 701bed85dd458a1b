package memory

import (
	"context"
	"maps"
	"slices"
	"time"

	"notifyd/internal/model"
)

func (s *Store) GetOrCreatePreference(_ context.Context, defaults model.Preference) (model.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.preferences[defaults.RecipientID]; ok {
		return clonePreference(existing), nil
	}
	if defaults.UpdatedAt.IsZero() {
		defaults.UpdatedAt = time.Now().UTC()
	}
	s.preferences[defaults.RecipientID] = clonePreference(defaults)
	return clonePreference(defaults), nil
}

func (s *Store) SavePreference(_ context.Context, preference model.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	preference.UpdatedAt = time.Now().UTC()
	s.preferences[preference.RecipientID] = clonePreference(preference)
	return nil
}

func clonePreference(p model.Preference) model.Preference {
	p.Buckets = maps.Clone(p.Buckets)
	p.Devices = slices.Clone(p.Devices)
	return p
}
