package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanbaker/cardbot/pkg/sdk"
)

type fakeAPI struct {
	cards       map[string]*sdk.Card
	suggestions map[string][]string
	failing     map[string]bool
}

func (f *fakeAPI) SearchCard(ctx context.Context, term string) (*sdk.SearchResponse, error) {
	if f.failing[term] {
		return nil, errors.New("backend down")
	}
	return &sdk.SearchResponse{Term: term, Card: f.cards[term], Suggestions: f.suggestions[term]}, nil
}

func (f *fakeAPI) RandomCard(ctx context.Context) (*sdk.Card, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) CardSuggestions(ctx context.Context, partial string) ([]string, error) {
	return f.suggestions[partial], nil
}

func strPtr(s string) *string {
	return &s
}

func TestLookupCards(t *testing.T) {
	api := &fakeAPI{
		cards: map[string]*sdk.Card{
			"Lightning Bolt": {ID: 1, Name: "Lightning Bolt", TypeLine: "Instant", ManaCost: strPtr("{R}")},
		},
		suggestions: map[string][]string{"Lightning Bot": {"Lightning Bolt"}},
		failing:     map[string]bool{"Shock": true},
	}

	result := lookupCards(context.Background(), api, []string{"Lightning Bolt", "Lightning Bot", "Shock"})

	require.Len(t, result.embeds, 1)
	assert.Equal(t, "Lightning Bolt", result.embeds[0].Title)
	assert.Equal(t, []string{`No card named "Lightning Bot" was found. Did you mean: Lightning Bolt?`}, result.misses)
	require.Len(t, result.errs, 1)
	assert.ErrorContains(t, result.errs[0], "Shock")
}

func TestCardEmbed(t *testing.T) {
	t.Run("full card", func(t *testing.T) {
		embed := cardEmbed(&sdk.Card{
			Name:       "Lightning Bolt",
			TypeLine:   "Instant",
			ManaCost:   strPtr("{R}"),
			OracleText: strPtr("Lightning Bolt deals 3 damage to any target."),
			FlavorText: strPtr("The sparkmage shrieked."),
			ImageURI:   strPtr("https://img/bolt.jpg"),
		})

		assert.Equal(t, "Lightning Bolt", embed.Title)
		assert.Contains(t, embed.URL, "scryfall.com")
		assert.Equal(t, "Lightning Bolt deals 3 damage to any target.\n\n*The sparkmage shrieked.*", embed.Description)
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "{R}", embed.Fields[0].Value)
		assert.Equal(t, "Instant", embed.Fields[1].Value)
		require.NotNil(t, embed.Image)
		assert.Equal(t, "https://img/bolt.jpg", embed.Image.URL)
	})

	t.Run("sparse card", func(t *testing.T) {
		embed := cardEmbed(&sdk.Card{Name: "Forest", TypeLine: "Basic Land — Forest"})

		assert.Empty(t, embed.Description)
		require.Len(t, embed.Fields, 1)
		assert.Nil(t, embed.Image)
	})

	t.Run("long oracle text is truncated", func(t *testing.T) {
		embed := cardEmbed(&sdk.Card{Name: "Wall", OracleText: strPtr(strings.Repeat("a", 5000))})
		assert.Len(t, []rune(embed.Description), maxEmbedDescription)
	})
}

func TestDidYouMean(t *testing.T) {
	assert.Equal(t, `No card named "Blorp" was found.`, didYouMean("Blorp", nil))

	many := make([]string, 8)
	for i := range many {
		many[i] = fmt.Sprintf("Card %d", i)
	}
	assert.Equal(t,
		`No card named "Card" was found. Did you mean: Card 0, Card 1, Card 2, Card 3, Card 4?`,
		didYouMean("Card", many),
	)
}

func TestAutocompleteChoices(t *testing.T) {
	assert.Empty(t, autocompleteChoices(nil))

	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("Card %d", i)
	}
	names[0] = strings.Repeat("n", 150)

	choices := autocompleteChoices(names)
	require.Len(t, choices, maxChoices)
	assert.Len(t, []rune(choices[0].Name), maxChoiceName)
	assert.Equal(t, "Card 1", choices[1].Name)
	assert.Equal(t, "Card 1", choices[1].Value)
}
