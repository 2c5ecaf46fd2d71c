package cards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/metrics"
)

// GormLookups is the search term index backed by GORM
type GormLookups struct {
	db  *gorm.DB
	cfg lookupConfig
}

// NewGormLookups creates a search term index on an open, migrated connection
func NewGormLookups(db *gorm.DB, opts ...LookupOption) *GormLookups {
	return &GormLookups{db: db, cfg: newLookupConfig(opts)}
}

// Insert upserts the term, pointing it at cardID and refreshing its last updated stamp
func (l *GormLookups) Insert(ctx context.Context, term string, cardID uint) error {
	if term == "" {
		return fmt.Errorf("%w: search term cannot be empty", cards.ErrIndexWrite)
	}

	lookup := &CardLookupModel{
		SearchTerm:  term,
		CardID:      cardID,
		LastUpdated: l.cfg.now().Unix(),
	}

	err := l.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "search_term"}},
			DoUpdates: clause.AssignmentColumns([]string{"card_id", "last_updated"}),
		}).
		Create(lookup).Error
	if err != nil {
		return fmt.Errorf("%w: failed to insert card lookup %q with card %d: %w", cards.ErrIndexWrite, term, cardID, err)
	}

	return nil
}

// Query returns the card a term points at, or nil. Stale entries are purged
// first; a failed purge is logged and the lookup still runs.
func (l *GormLookups) Query(ctx context.Context, term string) (*cards.Card, error) {
	if term == "" {
		return nil, nil
	}

	if _, err := l.Purge(ctx, l.cfg.threshold()); err != nil {
		l.cfg.log.Warn("failed to clear stale card lookups", zap.Error(err))
	}

	var model CardModel
	err := l.db.WithContext(ctx).
		Joins("INNER JOIN card_lookups ON card_lookups.card_id = cards.id").
		Where("card_lookups.search_term = ?", term).
		Where("card_lookups.last_updated > ?", l.cfg.threshold().Unix()).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card matching query %q: %w", term, err)
	}

	return model.toCard(), nil
}

// Purge deletes every entry last updated at or before the given time
func (l *GormLookups) Purge(ctx context.Context, before time.Time) (int64, error) {
	result := l.db.WithContext(ctx).
		Where("last_updated <= ?", before.Unix()).
		Delete(&CardLookupModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear stale card lookups: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		metrics.LookupsPurged.Add(float64(result.RowsAffected))
	}
	return result.RowsAffected, nil
}

// Count returns the number of indexed search terms
func (l *GormLookups) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).Model(&CardLookupModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count card lookups: %w", err)
	}
	return count, nil
}
