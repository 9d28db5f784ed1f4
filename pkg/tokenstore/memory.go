package tokenstore

import "sync"

// MemoryStore keeps the pair in process memory only. It backs tests and the
// degraded mode the auth machine falls into when durable storage is
// unavailable: the session works but does not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	pair *Pair
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !pair.Complete() {
		s.pair = nil
		return nil
	}
	p := pair
	s.pair = &p
	return nil
}

func (s *MemoryStore) Load() (*Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pair == nil {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}
