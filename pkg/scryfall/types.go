package scryfall

import (
	"github.com/ethanbaker/cardbot/pkg/cards"
)

// ImageURIs are the rendered images of a card face
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	BorderCrop string `json:"border_crop"`
}

// CardFace is one face of a multi-faced card
type CardFace struct {
	Name       string     `json:"name"`
	TypeLine   string     `json:"type_line"`
	ManaCost   string     `json:"mana_cost"`
	OracleText string     `json:"oracle_text"`
	FlavorText string     `json:"flavor_text"`
	ImageURIs  *ImageURIs `json:"image_uris"`
}

// Card is the subset of a Scryfall card object the bot uses
type Card struct {
	Object     string     `json:"object"`
	Name       string     `json:"name"`
	TypeLine   string     `json:"type_line"`
	ManaCost   string     `json:"mana_cost"`
	OracleText string     `json:"oracle_text"`
	FlavorText string     `json:"flavor_text"`
	ImageURIs  *ImageURIs `json:"image_uris"`
	CardFaces  []CardFace `json:"card_faces"`
}

// Catalog is a list of strings, as returned by autocomplete
type Catalog struct {
	Object      string   `json:"object"`
	TotalValues int      `json:"total_values"`
	Data        []string `json:"data"`
}

// Error is the body Scryfall returns on non-2xx responses
type Error struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// ToRawCard maps the card onto the fields the canonical table stores.
// Multi-faced cards fall back to their first face for missing fields.
func (c *Card) ToRawCard() *cards.RawCard {
	raw := &cards.RawCard{
		Name:       c.Name,
		TypeLine:   c.TypeLine,
		ManaCost:   optional(c.ManaCost),
		OracleText: optional(c.OracleText),
		FlavorText: optional(c.FlavorText),
	}

	if c.ImageURIs != nil {
		raw.ImageURI = optional(c.ImageURIs.BorderCrop)
	}

	if len(c.CardFaces) > 0 {
		face := c.CardFaces[0]
		if raw.TypeLine == "" {
			raw.TypeLine = face.TypeLine
		}
		if raw.ManaCost == nil {
			raw.ManaCost = optional(face.ManaCost)
		}
		if raw.OracleText == nil {
			raw.OracleText = optional(face.OracleText)
		}
		if raw.FlavorText == nil {
			raw.FlavorText = optional(face.FlavorText)
		}
		if raw.ImageURI == nil && face.ImageURIs != nil {
			raw.ImageURI = optional(face.ImageURIs.BorderCrop)
		}
	}

	return raw
}

// optional turns empty strings into nil
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
