package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/sdk"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

// MAX_CARDS_PER_MESSAGE caps how many bracketed names one message can resolve
const MAX_CARDS_PER_MESSAGE = 5

// cardsAPI is the subset of the backend client the bot uses
type cardsAPI interface {
	SearchCard(ctx context.Context, term string) (*sdk.SearchResponse, error)
	RandomCard(ctx context.Context) (*sdk.Card, error)
	CardSuggestions(ctx context.Context, partial string) ([]string, error)
}

// Bot represents the Discord bot instance
type Bot struct {
	config *utils.Config      // Configuration struct
	dg     *discordgo.Session // Discord session
	api    cardsAPI           // Backend API client
	log    *zap.Logger

	// Important configuration values
	botChannelID string // Channel ID where bracketed card names are resolved
	guildID      string // Guild ID for slash commands (empty for global)
	maxCards     int    // Limit of cards resolved per message
}

// Create a new Discord bot instance
func NewBot(cfg *utils.Config) (*Bot, error) {
	log := logger.WithModule("discord")

	// Get discord token
	token := cfg.Get("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN not set in config or environment")
	}

	// Get important configuration values
	botChannelID := cfg.Get("BOT_CHANNEL_ID")
	if botChannelID == "" {
		return nil, fmt.Errorf("BOT_CHANNEL_ID not set in config or environment")
	}

	maxCards := cfg.GetIntWithDefault("MAX_CARDS_PER_MESSAGE", MAX_CARDS_PER_MESSAGE)
	if maxCards <= 0 {
		return nil, fmt.Errorf("MAX_CARDS_PER_MESSAGE must be a positive integer")
	}

	guildID := cfg.Get("GUILD_ID") // empty = global commands
	if guildID == "" {
		log.Info("GUILD_ID not set, using global commands")
	}

	// Get base URL and api key
	if err := cfg.Require("BACKEND_BASE_URL", "BACKEND_API_KEY"); err != nil {
		return nil, err
	}

	// Create a new Discord session
	dg, err := discordgo.New("Bot " + strings.TrimPrefix(token, "Bot "))
	if err != nil {
		return nil, err
	}

	// Create the bot instance
	b := &Bot{
		config:       cfg,
		dg:           dg,
		api:          sdk.NewClient(cfg.Get("BACKEND_BASE_URL"), cfg.Get("BACKEND_API_KEY")),
		log:          log,
		botChannelID: botChannelID,
		guildID:      guildID,
		maxCards:     maxCards,
	}

	// Intents
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	// Handlers
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Start the bot and connect to Discord
func (b *Bot) Start() error {
	if err := b.dg.Open(); err != nil {
		return err
	}

	// Register slash commands
	return b.registerCommands()
}

// Stop the bot and clean up resources
func (b *Bot) Stop() error {
	_ = b.unregisterCommands()
	return b.dg.Close()
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("logged in", zap.String("user", r.User.Username))
}

// onMessageCreate handles incoming messages
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from the bot itself
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Only the configured bot channel resolves bracketed names
	if m.ChannelID != b.botChannelID {
		return
	}

	names := extractCardNames(m.Content, b.maxCards)
	if len(names) == 0 {
		return
	}

	go b.handleCardMentions(m.ChannelID, m.Reference(), names)
}

// handleCardMentions resolves bracketed card names and replies with embeds
func (b *Bot) handleCardMentions(channelID string, ref *discordgo.MessageReference, names []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result := lookupCards(ctx, b.api, names)
	for _, err := range result.errs {
		b.log.Warn("card lookup failed", zap.Error(err))
	}

	content := strings.Join(result.misses, "\n")
	if content == "" && len(result.embeds) == 0 {
		content = "Could not look up those cards right now, try again later."
	}

	_, err := b.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:   content,
		Embeds:    result.embeds,
		Reference: ref,
	})
	if err != nil {
		b.log.Warn("failed to send card reply", zap.String("channel", channelID), zap.Error(err))
	}
}

// lookupResult is the rendered outcome of resolving a batch of names
type lookupResult struct {
	embeds []*discordgo.MessageEmbed
	misses []string // "did you mean" lines for names with no card
	errs   []error
}

// lookupCards resolves each name in order, collecting embeds for hits and
// suggestion lines for misses. Backend failures are collected, not fatal.
func lookupCards(ctx context.Context, api cardsAPI, names []string) lookupResult {
	var result lookupResult
	for _, name := range names {
		res, err := api.SearchCard(ctx, name)
		if err != nil {
			result.errs = append(result.errs, fmt.Errorf("search %q: %w", name, err))
			continue
		}

		if res.Card == nil {
			result.misses = append(result.misses, didYouMean(name, res.Suggestions))
			continue
		}
		result.embeds = append(result.embeds, cardEmbed(res.Card))
	}

	return result
}
