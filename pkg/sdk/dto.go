package sdk

import (
	"encoding/json"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

// NewFailResponse reports a client-side failure that still carries data
func NewFailResponse[T any](code int, message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusFail,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Card DTOs */

// Card is a canonical card as returned by the backend
type Card struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	TypeLine   string  `json:"type_line"`
	ManaCost   *string `json:"mana_cost,omitempty"`
	OracleText *string `json:"oracle_text,omitempty"`
	FlavorText *string `json:"flavor_text,omitempty"`
	ImageURI   *string `json:"image_uri,omitempty"`
}

// SearchResponse is returned by a card search. Card is nil on a miss, in
// which case Suggestions holds "did you mean" candidates.
type SearchResponse struct {
	Term        string   `json:"term"`
	Card        *Card    `json:"card,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SuggestionsResponse lists card names completing a partial term
type SuggestionsResponse struct {
	Term        string   `json:"term"`
	Suggestions []string `json:"suggestions"`
}
