package services

import (
	"sync"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// FavoritesService keeps favorite calls per owner. Favorites live in memory
// only and are lost on restart.
type FavoritesService struct {
	calls *store.Store[models.Call]

	mu     sync.RWMutex
	owners map[string][]string
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(calls *store.Store[models.Call]) *FavoritesService {
	return &FavoritesService{
		calls:  calls,
		owners: make(map[string][]string),
	}
}

// Toggle flips the favorite flag of call id and returns the new state
func (s *FavoritesService) Toggle(owner, id string) (bool, error) {
	if _, err := s.calls.Get(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.owners[owner]
	for i, fav := range ids {
		if fav == id {
			s.owners[owner] = append(ids[:i:i], ids[i+1:]...)
			return false, nil
		}
	}
	s.owners[owner] = append(ids, id)
	return true, nil
}

// List returns the favorite ids of owner in the order they were added
func (s *FavoritesService) List(owner string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.owners[owner]))
	copy(out, s.owners[owner])
	return out
}

// Set returns the favorites of owner as a set
func (s *FavoritesService) Set(owner string) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]bool, len(s.owners[owner]))
	for _, id := range s.owners[owner] {
		set[id] = true
	}
	return set
}

// Forget drops id from every owner, used when a call is deleted
func (s *FavoritesService) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, ids := range s.owners {
		for i, fav := range ids {
			if fav == id {
				s.owners[owner] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
	}
}
