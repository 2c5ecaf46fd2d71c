package cards

import (
	"fmt"

	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/cardbot/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Register routes for the cards module
func RegisterRoutes(g *gin.RouterGroup, cfg *utils.Config) error {
	// Make api key validator
	validator, err := makeApiKeyValidator(cfg)
	if err != nil {
		return err
	}

	// Create base group for card routes
	group := g.Group("/cards")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(validator))

	group.GET("/search", SearchCard)            // Resolve a search term to a card
	group.GET("/random", RandomCard)            // Fetch a random card
	group.GET("/suggestions", CardSuggestions) // Card names completing a partial term

	return nil
}

// makeApiKeyValidator checks if the provided API key is valid
func makeApiKeyValidator(cfg *utils.Config) (func(key string) bool, error) {
	// Get api key from config
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not set in environment")
	}

	return func(key string) bool {
		return apiKey == key
	}, nil
}
