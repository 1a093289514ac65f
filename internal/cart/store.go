package cart

import (
	"sync"
)

// Store hands out one Cart per user. The mutex guards the map itself;
// requests for a single user are assumed to arrive one at a time, so
// the Cart a caller gets back is mutated without further locking.
type Store struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Store) Get(userID int64) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{}
		s.carts[userID] = c
	}
	return c
}

// Clear discards the user's cart entirely.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
