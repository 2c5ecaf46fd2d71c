package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	cardstore "github.com/ethanbaker/cardbot/internal/stores/cards"
	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/scryfall"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

// resolver is the card resolution surface the shell drives
type resolver interface {
	Search(ctx context.Context, term string) (*cards.Card, error)
	Random(ctx context.Context) (*cards.Card, error)
	Suggestions(ctx context.Context, term string) ([]string, error)
}

// sweeper purges stale search terms on demand
type sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// shell is an interactive card lookup session
type shell struct {
	cards   resolver
	sweeper sweeper
	out     io.Writer
}

func main() {
	// Load global config, defaulting to a local SQLite file
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	if !cfg.Has("DATABASE_DRIVER") {
		cfg.Set("DATABASE_DRIVER", "sqlite")
		if !cfg.Has("DATABASE_URL") {
			cfg.Set("DATABASE_URL", "cardbot.db")
		}
	}

	if err := logger.Init(cfg.GetWithDefault("LOG_LEVEL", "warn")); err != nil {
		panic(err)
	}
	log := logger.WithModule("commandline")

	db, err := cardstore.Open(cardstore.ConfigFromSettings(cfg))
	if err != nil {
		log.Fatal("failed to open card database", zap.Error(err))
	}
	defer func() { _ = cardstore.Close(db) }()

	ttl := cfg.GetDurationWithDefault("CARD_LOOKUP_TTL", cards.DefaultLookupTTL)
	lookups := cardstore.NewGormLookups(db, cardstore.WithTTL(ttl))

	store, err := cards.NewStore(&cards.StoreOptions{
		Lookups: lookups,
		Local:   cardstore.NewGormStorage(db),
		Remote: scryfall.NewClient(
			cfg.GetWithDefault("SCRYFALL_BASE_URL", scryfall.DefaultBaseURL),
			scryfall.WithUserAgent(cfg.GetWithDefault("SCRYFALL_USER_AGENT", "cardbot")),
		),
	})
	if err != nil {
		log.Fatal("failed to create card store", zap.Error(err))
	}

	sw, err := cards.NewSweeper(lookups, &cards.SweeperOptions{TTL: ttl})
	if err != nil {
		log.Fatal("failed to create sweeper", zap.Error(err))
	}

	// Start interactive session
	s := &shell{cards: store, sweeper: sw, out: os.Stdout}
	if err := s.run(context.Background(), os.Stdin); err != nil {
		log.Fatal("interactive session failed", zap.Error(err))
	}
}

// run reads commands until EOF or 'exit'
func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Card lookup started. Type a card name, 'random', 'suggest <partial>', 'sweep' or 'exit'.")

	// Create scanner for reading user input
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(s.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		fmt.Fprintln(s.out, s.handle(ctx, input))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// handle executes one command and returns the text to print
func (s *shell) handle(ctx context.Context, input string) string {
	command, arg, _ := strings.Cut(input, " ")

	switch strings.ToLower(command) {
	case "random":
		card, err := s.cards.Random(ctx)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return formatCard(card)

	case "suggest":
		names, err := s.cards.Suggestions(ctx, strings.ToLower(strings.TrimSpace(arg)))
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		if len(names) == 0 {
			return "No suggestions."
		}
		return strings.Join(names, "\n")

	case "sweep":
		removed, err := s.sweeper.Sweep(ctx)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return fmt.Sprintf("Removed %d stale search terms.", removed)
	}

	term := strings.ToLower(input)
	card, err := s.cards.Search(ctx, term)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if card != nil {
		return formatCard(card)
	}

	names, err := s.cards.Suggestions(ctx, term)
	if err != nil || len(names) == 0 {
		return fmt.Sprintf("No card named %q.", input)
	}
	return fmt.Sprintf("No card named %q. Did you mean: %s?", input, strings.Join(names, ", "))
}

// formatCard renders a card as plain text
func formatCard(card *cards.Card) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s", card.ID, card.Name)
	if card.ManaCost != nil && *card.ManaCost != "" {
		fmt.Fprintf(&b, " %s", *card.ManaCost)
	}
	fmt.Fprintf(&b, "\n%s", card.TypeLine)
	if card.OracleText != nil && *card.OracleText != "" {
		fmt.Fprintf(&b, "\n%s", *card.OracleText)
	}
	if card.FlavorText != nil && *card.FlavorText != "" {
		fmt.Fprintf(&b, "\n_%s_", *card.FlavorText)
	}

	return b.String()
}
