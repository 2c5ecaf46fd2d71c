package cards

import (
	"context"
	"sync"

	"github.com/ethanbaker/cardbot/pkg/cards"
)

// Resolver is the card resolution surface the controllers need
type Resolver interface {
	Search(ctx context.Context, term string) (*cards.Card, error)
	Random(ctx context.Context) (*cards.Card, error)
	Suggestions(ctx context.Context, term string) ([]string, error)
}

var (
	resolver Resolver
	mutex    sync.RWMutex
)

// Init sets the resolver used by the card controllers
func Init(r Resolver) {
	mutex.Lock()
	defer mutex.Unlock()
	resolver = r
}

// GetResolver returns the resolver set by Init
func GetResolver() Resolver {
	mutex.RLock()
	defer mutex.RUnlock()
	return resolver
}
