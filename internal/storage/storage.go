package storage

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

// DefaultLimit is the number of entries kept when New is given no limit.
const DefaultLimit = 1000

// LookupStore keeps the most recent lookups served by this process. Entries
// are never consulted to answer a lookup and vanish on restart. Once the
// limit is reached the oldest entry is evicted.
type LookupStore struct {
	entries map[string]*models.LookupEntry
	order   []string // insertion order, oldest first
	limit   int
	mu      sync.RWMutex
}

func New(limit int) *LookupStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &LookupStore{
		entries: make(map[string]*models.LookupEntry),
		limit:   limit,
	}
}

// Add assigns an id and timestamp when missing and stores the entry.
func (s *LookupStore) Add(entry models.LookupEntry) *models.LookupEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; !exists {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = &entry

	for len(s.order) > s.limit {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
	return &entry
}

func (s *LookupStore) Get(id string) (*models.LookupEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[id]
	return entry, exists
}

// List returns every entry, newest first.
func (s *LookupStore) List() []*models.LookupEntry {
	s.mu.RLock()
	result := make([]*models.LookupEntry, 0, len(s.entries))
	for _, v := range s.entries {
		result = append(result, v)
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b *models.LookupEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result
}

func (s *LookupStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *LookupStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		return
	}
	delete(s.entries, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}
