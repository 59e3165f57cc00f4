package promos

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is the in-process fallback and test backend.
type MemoryStore struct {
	mu     sync.Mutex
	promos map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{promos: make(map[string]int)}
}

func (s *MemoryStore) Get(_ context.Context, code string) (*Promo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	discount, ok := s.promos[code]
	if !ok {
		return nil, ErrNotFound
	}
	return &Promo{Code: code, Discount: discount}, nil
}

func (s *MemoryStore) Upsert(_ context.Context, p *Promo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos[p.Code] = p.Discount
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.promos, code)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Promo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Promo, 0, len(s.promos))
	for code, discount := range s.promos {
		out = append(out, Promo{Code: code, Discount: discount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
