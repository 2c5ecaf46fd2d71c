package cards

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/metrics"
)

// Store resolves free-text search terms to canonical cards. The search term
// index is consulted first; on a miss the remote gateway is asked and the
// result is reconciled with the canonical table before being indexed.
type Store struct {
	lookups LookupStorage
	local   CardStorage
	remote  Gateway
	log     *zap.Logger
}

// StoreOptions contains the collaborators a Store is built from
type StoreOptions struct {
	Lookups LookupStorage
	Local   CardStorage
	Remote  Gateway
	Logger  *zap.Logger
}

// NewStore creates a new card resolution store
func NewStore(opts *StoreOptions) (*Store, error) {
	if opts == nil {
		return nil, fmt.Errorf("store options must be provided")
	}
	if opts.Lookups == nil {
		return nil, fmt.Errorf("a valid lookup storage must be provided")
	}
	if opts.Local == nil {
		return nil, fmt.Errorf("a valid card storage must be provided")
	}
	if opts.Remote == nil {
		return nil, fmt.Errorf("a valid remote gateway must be provided")
	}

	log := opts.Logger
	if log == nil {
		log = logger.WithModule("cards")
	}

	return &Store{
		lookups: opts.Lookups,
		local:   opts.Local,
		remote:  opts.Remote,
		log:     log,
	}, nil
}

// Search resolves a search term to a card. A nil card with a nil error means
// upstream has no card by that name; callers should ask for Suggestions.
// Terms are compared exactly, so callers normalize case beforehand.
func (s *Store) Search(ctx context.Context, term string) (*Card, error) {
	if term == "" {
		metrics.CardResolutions.WithLabelValues("search", "empty").Inc()
		return nil, nil
	}

	// Fast path: the term has been resolved before
	card, err := s.lookups.Query(ctx, term)
	if err != nil {
		s.log.Warn("card lookup query failed, falling back to remote", zap.String("term", term), zap.Error(err))
	} else if card != nil {
		metrics.CardResolutions.WithLabelValues("search", "index_hit").Inc()
		return card, nil
	}

	raw, err := s.remote.GetByName(ctx, term)
	if err != nil {
		metrics.CardResolutions.WithLabelValues("search", "error").Inc()
		return nil, remoteError(fmt.Sprintf("failed to fetch card %q", term), err)
	}
	if raw == nil {
		metrics.CardResolutions.WithLabelValues("search", "not_found").Inc()
		return nil, nil
	}

	card, err = s.persist(ctx, raw)
	if err != nil {
		metrics.CardResolutions.WithLabelValues("search", "error").Inc()
		return nil, err
	}

	// Backfill so the next identical term is an index hit
	if err := s.lookups.Insert(ctx, term, card.ID); err != nil {
		metrics.IndexWriteFailures.Inc()
		s.log.Warn("failed to index search term",
			zap.String("term", term),
			zap.Uint("card_id", card.ID),
			zap.Error(err),
		)
	}

	metrics.CardResolutions.WithLabelValues("search", "remote_hit").Inc()
	return card, nil
}

// Random fetches a random card from upstream and reconciles it with the
// canonical table. The search term index is never touched.
func (s *Store) Random(ctx context.Context) (*Card, error) {
	raw, err := s.remote.Random(ctx)
	if err != nil {
		metrics.CardResolutions.WithLabelValues("random", "error").Inc()
		return nil, remoteError("failed to fetch random card", err)
	}
	if raw == nil {
		metrics.CardResolutions.WithLabelValues("random", "error").Inc()
		return nil, fmt.Errorf("%w: empty random card", ErrRemoteUnavailable)
	}

	card, err := s.persist(ctx, raw)
	if err != nil {
		metrics.CardResolutions.WithLabelValues("random", "error").Inc()
		return nil, err
	}

	metrics.CardResolutions.WithLabelValues("random", "remote_hit").Inc()
	return card, nil
}

// Suggestions returns candidate card names for a partial term. Nothing is persisted.
func (s *Store) Suggestions(ctx context.Context, term string) ([]string, error) {
	if term == "" {
		return []string{}, nil
	}

	names, err := s.remote.Suggestions(ctx, term)
	if err != nil {
		return nil, remoteError(fmt.Sprintf("failed to get suggestions for %q", term), err)
	}
	if names == nil {
		names = []string{}
	}

	return names, nil
}

// persist reconciles a fetched card with the canonical table
func (s *Store) persist(ctx context.Context, raw *RawCard) (*Card, error) {
	card, err := s.local.GetOrInsert(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: card %q: %w", ErrPersistence, raw.Name, err)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: card %q: no row returned", ErrPersistence, raw.Name)
	}

	return card, nil
}

// remoteError makes sure gateway failures carry ErrRemoteUnavailable
func remoteError(msg string, err error) error {
	if errors.Is(err, ErrRemoteUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrRemoteUnavailable, err)
}
