package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ethanbaker/cardbot/pkg/sdk"
)

const EMBED_COLOR = 0x8e44ad

// Discord embed and autocomplete limits
const (
	maxEmbedDescription = 4096
	maxChoices          = 25
	maxChoiceName       = 100
)

// cardEmbed renders a card as a Discord embed
func cardEmbed(card *sdk.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: card.Name,
		URL:   "https://scryfall.com/search?q=" + url.QueryEscape(`!"`+card.Name+`"`),
		Color: EMBED_COLOR,
	}

	var description []string
	if card.OracleText != nil && *card.OracleText != "" {
		description = append(description, *card.OracleText)
	}
	if card.FlavorText != nil && *card.FlavorText != "" {
		description = append(description, "*"+*card.FlavorText+"*")
	}
	embed.Description = truncate(strings.Join(description, "\n\n"), maxEmbedDescription)

	if card.ManaCost != nil && *card.ManaCost != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Mana Cost", Value: *card.ManaCost, Inline: true})
	}
	if card.TypeLine != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Type", Value: card.TypeLine, Inline: true})
	}

	if card.ImageURI != nil && *card.ImageURI != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: *card.ImageURI}
	}

	return embed
}

// didYouMean renders a miss, listing suggestions when there are any
func didYouMean(name string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("No card named \"%s\" was found.", name)
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return fmt.Sprintf("No card named \"%s\" was found. Did you mean: %s?", name, strings.Join(suggestions, ", "))
}

// autocompleteChoices converts suggestions to autocomplete choices within Discord's limits
func autocompleteChoices(names []string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(names), maxChoices))
	for _, name := range names {
		if len(choices) == maxChoices {
			break
		}

		name = truncate(name, maxChoiceName)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}

// truncate cuts s to at most limit runes, marking the cut with an ellipsis
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
