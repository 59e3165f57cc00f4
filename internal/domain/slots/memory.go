package slots

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps slot records in process memory, keyed by date. Used
// when the database is unreachable and as the store in engine tests.
type MemoryStore struct {
	mu     sync.Mutex
	byDate map[string][]Slot
}

func NewMemoryStore(seed []Slot) *MemoryStore {
	s := &MemoryStore{byDate: make(map[string][]Slot)}
	for _, slot := range seed {
		s.put(slot)
	}
	return s
}

func (s *MemoryStore) GetForDate(_ context.Context, date string) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.byDate[date]
	out := make([]Slot, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Upsert(_ context.Context, slot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(slot)
	return nil
}

func (s *MemoryStore) UpsertRun(_ context.Context, run []Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range run {
		s.put(slot)
	}
	return nil
}

func (s *MemoryStore) MarkHolidayForDate(_ context.Context, date, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.byDate[date]
	for i := range stored {
		stored[i].reset()
		stored[i].IsHoliday = true
		stored[i].HolidayTitle = title
	}
	return nil
}

// put replaces the record with the same id, keeping the date's slots
// ordered by hour. Caller holds the lock.
func (s *MemoryStore) put(slot Slot) {
	stored := s.byDate[slot.Date]
	for i := range stored {
		if stored[i].ID == slot.ID {
			stored[i] = slot
			return
		}
	}
	stored = append(stored, slot)
	sort.Slice(stored, func(i, j int) bool { return stored[i].StartHour < stored[j].StartHour })
	s.byDate[slot.Date] = stored
}
