// Package directory resolves recipient contact details owned by the user
// profile service.
package directory

import (
	"context"
	"sync"

	"notifyd/internal/domain"
)

type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type Directory interface {
	// Lookup returns domain.ErrNotFound when the recipient is unknown.
	Lookup(ctx context.Context, recipientID string) (Profile, error)
	ActiveAdmins(ctx context.Context) ([]Profile, error)
}

// DisplayName returns the profile name, or fallback when the lookup fails or
// the profile has no name.
func DisplayName(ctx context.Context, d Directory, recipientID, fallback string) string {
	if d == nil || recipientID == "" {
		return fallback
	}
	p, err := d.Lookup(ctx, recipientID)
	if err != nil || p.Name == "" {
		return fallback
	}
	return p.Name
}

// Static is an in-process directory used in development and tests.
type Static struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewStatic(profiles ...Profile) *Static {
	s := &Static{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *Static) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *Static) Lookup(_ context.Context, recipientID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[recipientID]
	if !ok {
		return Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *Static) ActiveAdmins(_ context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var admins []Profile
	for _, p := range s.profiles {
		if p.Role == string(domain.RecipientAdmin) && p.Active {
			admins = append(admins, p)
		}
	}
	return admins, nil
}
