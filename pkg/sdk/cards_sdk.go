package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ethanbaker/api/pkg/api_types"
)

// SearchCard resolves a search term to a card. A miss is not an error: the
// returned response has a nil Card and any suggestions the backend found.
func (c *Client) SearchCard(ctx context.Context, term string) (*SearchResponse, error) {
	path := "/api/cards/search?q=" + url.QueryEscape(term)

	var out ApiResponse[SearchResponse]
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)

	// A card miss is a 404 whose fail envelope echoes the term; any other 404
	// (a wrong base URL hitting NoRoute) stays an error
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode == http.StatusNotFound {
		var miss ApiResponse[SearchResponse]
		if json.Unmarshal(backendErr.Body, &miss) != nil || miss.Status != api_types.StatusFail || miss.Data.Term == "" {
			return nil, err
		}
		miss.Data.Card = nil
		return &miss.Data, nil
	}
	if err != nil {
		return nil, err
	}

	// Check for success
	switch out.Status {
	case api_types.StatusFail:
		return nil, fmt.Errorf("failed to search card: %s", out.Message)
	case api_types.StatusError:
		return nil, fmt.Errorf("error searching card (%s): %v", out.Message, out.Error)
	}

	return &out.Data, nil
}

// RandomCard fetches a random card
func (c *Client) RandomCard(ctx context.Context) (*Card, error) {
	path := "/api/cards/random"

	var out ApiResponse[*Card]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	if out.Data == nil {
		return nil, fmt.Errorf("no card returned")
	}

	return out.Data, nil
}

// CardSuggestions returns card names completing the partial term
func (c *Client) CardSuggestions(ctx context.Context, partial string) ([]string, error) {
	path := "/api/cards/suggestions?q=" + url.QueryEscape(partial)

	var out ApiResponse[SuggestionsResponse]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	if out.Data.Suggestions == nil {
		return []string{}, nil
	}
	return out.Data.Suggestions, nil
}
