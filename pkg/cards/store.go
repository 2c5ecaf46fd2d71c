package cards

import (
	"context"
	"time"
)

// CardStorage is the canonical card table. Implementations must make
// GetOrInsert atomic: concurrent calls with the same name yield one row and
// every caller receives that row.
type CardStorage interface {
	// Get returns the card with the given id, or ErrNotFound
	Get(ctx context.Context, id uint) (*Card, error)

	// GetByName returns the card with the exact name, or nil when absent
	GetByName(ctx context.Context, name string) (*Card, error)

	// GetOrInsert returns the existing card named raw.Name, inserting raw first if there is none
	GetOrInsert(ctx context.Context, raw *RawCard) (*Card, error)
}

// LookupStorage is the search term index mapping free text onto canonical card ids
type LookupStorage interface {
	// Insert upserts term -> cardID and refreshes its last updated time
	Insert(ctx context.Context, term string, cardID uint) error

	// Query purges stale entries, then returns the card the term points at, or nil
	Query(ctx context.Context, term string) (*Card, error)

	// Purge removes every entry last updated at or before the given time
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Gateway fetches cards from the upstream card service
type Gateway interface {
	// GetByName returns the card with the exact name, or nil when upstream reports no such card
	GetByName(ctx context.Context, name string) (*RawCard, error)

	// Random returns a card picked by upstream
	Random(ctx context.Context) (*RawCard, error)

	// Suggestions returns candidate names for a partial term
	Suggestions(ctx context.Context, partial string) ([]string, error)
}
