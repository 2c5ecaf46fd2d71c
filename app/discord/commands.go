package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// onInteractionCreate handles interactions (slash commands)
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(i)
	}
}

// commands are the slash commands the bot owns
var commands = []*discordgo.ApplicationCommand{
	{
		Name: "card", Description: "Look up a Magic card by name",
		Options: []*discordgo.ApplicationCommandOption{{
			Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Card name", Required: true, Autocomplete: true,
		}},
	},
	{
		Name: "random", Description: "Show a random Magic card",
	},
}

// registerCommands registers the bot's slash commands with Discord
func (b *Bot) registerCommands() error {
	guildID := b.guildID // empty = global commands
	for _, cmd := range commands {
		if _, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// unregisterCommands removes the bot's slash commands from Discord
func (b *Bot) unregisterCommands() error {
	guildID := b.guildID
	cmds, err := b.dg.ApplicationCommands(b.dg.State.User.ID, guildID)
	if err != nil {
		return err
	}

	for _, c := range cmds {
		if c.Name == "card" || c.Name == "random" {
			_ = b.dg.ApplicationCommandDelete(b.dg.State.User.ID, guildID, c.ID)
		}
	}

	return nil
}

// handleApplicationCommand processes a slash command interaction
func (b *Bot) handleApplicationCommand(i *discordgo.InteractionCreate) {
	if i == nil {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "card":
		b.handleCard(i)
	case "random":
		b.handleRandom(i)
	}
}

// handleCard handles the "card" command interaction
func (b *Bot) handleCard(i *discordgo.InteractionCreate) {
	// Extract the name from first provided option
	options := i.ApplicationCommandData().Options
	name := ""
	if len(options) > 0 {
		name = strings.TrimSpace(options[0].StringValue())
	}

	if name == "" {
		respondEphemeral(b.dg, i, "Please provide a card name.")
		return
	}

	// Acknowledge and defer
	deferReply(b.dg, i, false)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		res, err := b.api.SearchCard(ctx, name)
		if err != nil {
			b.log.Warn("card command failed", zap.String("name", name), zap.Error(err))
			editFollowup(b.dg, i, "Could not look up that card right now, try again later.", nil)
			return
		}

		if res.Card == nil {
			editFollowup(b.dg, i, didYouMean(name, res.Suggestions), nil)
			return
		}

		editFollowup(b.dg, i, "", []*discordgo.MessageEmbed{cardEmbed(res.Card)})
	}()
}

// handleRandom handles the "random" command interaction
func (b *Bot) handleRandom(i *discordgo.InteractionCreate) {
	deferReply(b.dg, i, false)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		card, err := b.api.RandomCard(ctx)
		if err != nil {
			b.log.Warn("random command failed", zap.Error(err))
			editFollowup(b.dg, i, "Could not fetch a random card right now, try again later.", nil)
			return
		}

		editFollowup(b.dg, i, "", []*discordgo.MessageEmbed{cardEmbed(card)})
	}()
}

// handleAutocomplete offers card names while the "card" option is typed
func (b *Bot) handleAutocomplete(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "card" || len(data.Options) == 0 {
		return
	}

	partial := strings.TrimSpace(data.Options[0].StringValue())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	names, err := b.api.CardSuggestions(ctx, partial)
	if err != nil {
		b.log.Debug("autocomplete failed", zap.String("partial", partial), zap.Error(err))
		names = nil
	}

	_ = b.dg.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: autocompleteChoices(names)},
	})
}
