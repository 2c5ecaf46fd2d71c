package cards

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/sdk"
)

// SearchCard handles GET requests resolving a search term to a card
func SearchCard(c *gin.Context) {
	term := normalizeTerm(c.Query("q"))
	if term == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Query parameter 'q' is required", nil).AsGinResponse())
		return
	}

	resolver := GetResolver()
	if resolver == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Card resolver not initialized", nil).AsGinResponse())
		return
	}

	card, err := resolver.Search(c.Request.Context(), term)
	if err != nil {
		respondResolutionError(c, "Failed to search card", term, err)
		return
	}

	if card == nil {
		// Offer "did you mean" candidates; failing that, an empty list
		suggestions, err := resolver.Suggestions(c.Request.Context(), term)
		if err != nil {
			logger.WithModule("api-cards").Warn("failed to get suggestions for missed search", zap.String("term", term), zap.Error(err))
			suggestions = []string{}
		}

		c.JSON(sdk.NewFailResponse(http.StatusNotFound, "Card not found", sdk.SearchResponse{
			Term:        term,
			Suggestions: suggestions,
		}).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Card found", sdk.SearchResponse{
		Term: term,
		Card: toSDKCard(card),
	}).AsGinResponse())
}

// RandomCard handles GET requests for a random card
func RandomCard(c *gin.Context) {
	resolver := GetResolver()
	if resolver == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Card resolver not initialized", nil).AsGinResponse())
		return
	}

	card, err := resolver.Random(c.Request.Context())
	if err != nil {
		respondResolutionError(c, "Failed to get random card", "", err)
		return
	}

	c.JSON(sdk.NewSuccessResponse("Random card", toSDKCard(card)).AsGinResponse())
}

// CardSuggestions handles GET requests for card names completing a partial term
func CardSuggestions(c *gin.Context) {
	term := normalizeTerm(c.Query("q"))

	resolver := GetResolver()
	if resolver == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Card resolver not initialized", nil).AsGinResponse())
		return
	}

	suggestions, err := resolver.Suggestions(c.Request.Context(), term)
	if err != nil {
		respondResolutionError(c, "Failed to get suggestions", term, err)
		return
	}

	c.JSON(sdk.NewSuccessResponse("Suggestions", sdk.SuggestionsResponse{
		Term:        term,
		Suggestions: suggestions,
	}).AsGinResponse())
}

// respondResolutionError logs err and answers without leaking storage detail
func respondResolutionError(c *gin.Context, message, term string, err error) {
	logger.WithModule("api-cards").Error(message, zap.String("term", term), zap.Error(err))

	switch {
	case errors.Is(err, cards.ErrRemoteUnavailable):
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Card service unavailable", "remote_unavailable").AsGinResponse())
	case errors.Is(err, cards.ErrPersistence):
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, message, "persistence_failure").AsGinResponse())
	default:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, message, "internal").AsGinResponse())
	}
}

// normalizeTerm folds a user supplied term so equivalent searches share an index entry
func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// toSDKCard converts a canonical card into its API representation
func toSDKCard(card *cards.Card) *sdk.Card {
	if card == nil {
		return nil
	}

	return &sdk.Card{
		ID:         card.ID,
		Name:       card.Name,
		TypeLine:   card.TypeLine,
		ManaCost:   card.ManaCost,
		OracleText: card.OracleText,
		FlavorText: card.FlavorText,
		ImageURI:   card.ImageURI,
	}
}
