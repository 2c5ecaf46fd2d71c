package cards

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ethanbaker/cardbot/pkg/cards"
)

// GormStorage is the canonical card table backed by GORM
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a canonical card table on an open, migrated connection
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Get retrieves a card by id
func (s *GormStorage) Get(ctx context.Context, id uint) (*cards.Card, error) {
	var model CardModel
	if err := s.db.WithContext(ctx).Take(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("card %d: %w", id, cards.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}

	return model.toCard(), nil
}

// GetByName retrieves a card by its exact name, returning nil when absent
func (s *GormStorage) GetByName(ctx context.Context, name string) (*cards.Card, error) {
	model, err := findByName(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}
	if model == nil {
		return nil, nil
	}

	return model.toCard(), nil
}

// GetOrInsert returns the card named raw.Name, inserting raw when no such card exists.
// The select and insert share one transaction; a unique constraint violation
// means another writer committed the name first, so its row is returned instead.
func (s *GormStorage) GetOrInsert(ctx context.Context, raw *cards.RawCard) (*cards.Card, error) {
	if raw == nil || raw.Name == "" {
		return nil, fmt.Errorf("%w: card name cannot be empty", cards.ErrPersistence)
	}

	var card *cards.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByName(tx, raw.Name)
		if err != nil {
			return fmt.Errorf("failed to look up card: %w", err)
		}
		if existing != nil {
			card = existing.toCard()
			return nil
		}

		model := newCardModel(raw)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		card = model.toCard()
		return nil
	})

	if isDuplicateKey(err) {
		existing, getErr := s.GetByName(ctx, raw.Name)
		if getErr != nil {
			return nil, fmt.Errorf("%w: failed to re-read card %q after conflict: %w", cards.ErrPersistence, raw.Name, getErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: card %q conflicted but is missing: %w", cards.ErrPersistence, raw.Name, err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert card %q: %w", cards.ErrPersistence, raw.Name, err)
	}

	return card, nil
}

// Count returns the number of canonical cards
func (s *GormStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&CardModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// findByName returns the row with the exact name, or nil
func findByName(db *gorm.DB, name string) (*CardModel, error) {
	var model CardModel
	err := db.Where("name = ?", name).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &model, nil
}
