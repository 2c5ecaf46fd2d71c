package cards

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/metrics"
)

// InMemoryStorage is a canonical card table held in memory (for tests and one-off runs)
type InMemoryStorage struct {
	cards  map[uint]*cards.Card
	byName map[string]uint
	nextID uint
	mu     sync.RWMutex
}

// NewInMemoryStorage creates an empty in-memory card table
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		cards:  make(map[uint]*cards.Card),
		byName: make(map[string]uint),
		nextID: 1,
	}
}

// Get retrieves a card by id
func (s *InMemoryStorage) Get(ctx context.Context, id uint) (*cards.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, exists := s.cards[id]
	if !exists {
		return nil, fmt.Errorf("card %d: %w", id, cards.ErrNotFound)
	}

	copied := *card
	return &copied, nil
}

// GetByName retrieves a card by exact name, returning nil when absent
func (s *InMemoryStorage) GetByName(ctx context.Context, name string) (*cards.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byName[name]
	if !exists {
		return nil, nil
	}

	copied := *s.cards[id]
	return &copied, nil
}

// GetOrInsert returns the card named raw.Name, inserting raw when absent.
// The whole operation holds the write lock.
func (s *InMemoryStorage) GetOrInsert(ctx context.Context, raw *cards.RawCard) (*cards.Card, error) {
	if raw == nil || raw.Name == "" {
		return nil, fmt.Errorf("%w: card name cannot be empty", cards.ErrPersistence)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.byName[raw.Name]; exists {
		copied := *s.cards[id]
		return &copied, nil
	}

	card := raw.WithID(s.nextID)
	s.nextID++

	s.cards[card.ID] = card
	s.byName[card.Name] = card.ID

	copied := *card
	return &copied, nil
}

// Len returns the number of stored cards
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// lookupEntry is one in-memory search term
type lookupEntry struct {
	cardID      uint
	lastUpdated time.Time
}

// InMemoryLookups is a search term index held in memory. Lookups are joined
// against the provided card storage by id.
type InMemoryLookups struct {
	local   cards.CardStorage
	entries map[string]lookupEntry
	cfg     lookupConfig
	mu      sync.RWMutex
}

// NewInMemoryLookups creates an empty in-memory search term index over local
func NewInMemoryLookups(local cards.CardStorage, opts ...LookupOption) *InMemoryLookups {
	return &InMemoryLookups{
		local:   local,
		entries: make(map[string]lookupEntry),
		cfg:     newLookupConfig(opts),
	}
}

// Insert upserts the term and refreshes its last updated time
func (l *InMemoryLookups) Insert(ctx context.Context, term string, cardID uint) error {
	if term == "" {
		return fmt.Errorf("%w: search term cannot be empty", cards.ErrIndexWrite)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[term] = lookupEntry{cardID: cardID, lastUpdated: l.cfg.now()}
	return nil
}

// Query purges stale entries and returns the card the term points at, or nil
func (l *InMemoryLookups) Query(ctx context.Context, term string) (*cards.Card, error) {
	if term == "" {
		return nil, nil
	}

	if _, err := l.Purge(ctx, l.cfg.threshold()); err != nil {
		l.cfg.log.Warn("failed to clear stale card lookups", zap.Error(err))
	}

	l.mu.RLock()
	entry, exists := l.entries[term]
	l.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	card, err := l.local.Get(ctx, entry.cardID)
	if errors.Is(err, cards.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card matching query %q: %w", term, err)
	}

	return card, nil
}

// Purge removes entries last updated at or before the given time
func (l *InMemoryLookups) Purge(ctx context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	for term, entry := range l.entries {
		if !entry.lastUpdated.After(before) {
			delete(l.entries, term)
			removed++
		}
	}

	if removed > 0 {
		metrics.LookupsPurged.Add(float64(removed))
	}
	return removed, nil
}

// Len returns the number of indexed terms
func (l *InMemoryLookups) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
