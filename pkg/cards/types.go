package cards

import (
	"errors"
	"time"
)

// DefaultLookupTTL is how long a search term stays trusted before it must be re-resolved upstream
const DefaultLookupTTL = 30 * 24 * time.Hour

var (
	// ErrNotFound is returned when a canonical card id has no row
	ErrNotFound = errors.New("card not found")

	// ErrRemoteUnavailable wraps transport or protocol failures talking to the upstream card service
	ErrRemoteUnavailable = errors.New("remote card service unavailable")

	// ErrPersistence wraps failures of the canonical card transaction
	ErrPersistence = errors.New("card persistence failure")

	// ErrIndexWrite wraps failures inserting or refreshing a search term; never returned by Store
	ErrIndexWrite = errors.New("card lookup write failure")
)

// Card is the canonical stored representation of a card. Name is unique and
// the record never changes once inserted.
type Card struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	TypeLine   string  `json:"type_line"`
	ManaCost   *string `json:"mana_cost,omitempty"`
	OracleText *string `json:"oracle_text,omitempty"`
	FlavorText *string `json:"flavor_text,omitempty"`
	ImageURI   *string `json:"image_uri,omitempty"`
}

// RawCard is card data fetched from upstream that has not been reconciled with the canonical table
type RawCard struct {
	Name       string  `json:"name"`
	TypeLine   string  `json:"type_line"`
	ManaCost   *string `json:"mana_cost,omitempty"`
	OracleText *string `json:"oracle_text,omitempty"`
	FlavorText *string `json:"flavor_text,omitempty"`
	ImageURI   *string `json:"image_uri,omitempty"`
}

// WithID promotes the raw card to a canonical card with the given id
func (r RawCard) WithID(id uint) *Card {
	return &Card{
		ID:         id,
		Name:       r.Name,
		TypeLine:   r.TypeLine,
		ManaCost:   r.ManaCost,
		OracleText: r.OracleText,
		FlavorText: r.FlavorText,
		ImageURI:   r.ImageURI,
	}
}
