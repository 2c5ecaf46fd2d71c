package cards

import (
	"github.com/ethanbaker/cardbot/pkg/cards"
)

// CardModel is a row of the canonical cards table
type CardModel struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	Name       string  `gorm:"uniqueIndex;not null;size:191"`
	TypeLine   string  `gorm:"not null;size:255"`
	ManaCost   *string `gorm:"size:128"`
	OracleText *string `gorm:"type:text"`
	FlavorText *string `gorm:"type:text"`
	ImageURI   *string `gorm:"size:512"`
}

// TableName sets the table name for GORM
func (CardModel) TableName() string {
	return "cards"
}

// CardLookupModel maps a free-text search term onto a canonical card
type CardLookupModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	SearchTerm  string    `gorm:"uniqueIndex;not null;size:191"`
	CardID      uint      `gorm:"not null;index"`
	Card        CardModel `gorm:"foreignKey:CardID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	LastUpdated int64     `gorm:"not null;index"` // unix seconds
}

// TableName sets the table name for GORM
func (CardLookupModel) TableName() string {
	return "card_lookups"
}

// newCardModel builds an unsaved row from upstream data
func newCardModel(raw *cards.RawCard) *CardModel {
	return &CardModel{
		Name:       raw.Name,
		TypeLine:   raw.TypeLine,
		ManaCost:   raw.ManaCost,
		OracleText: raw.OracleText,
		FlavorText: raw.FlavorText,
		ImageURI:   raw.ImageURI,
	}
}

// toCard converts the row to the domain type
func (m *CardModel) toCard() *cards.Card {
	return &cards.Card{
		ID:         m.ID,
		Name:       m.Name,
		TypeLine:   m.TypeLine,
		ManaCost:   m.ManaCost,
		OracleText: m.OracleText,
		FlavorText: m.FlavorText,
		ImageURI:   m.ImageURI,
	}
}
