package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/sdk"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

// fakeResolver records the terms it sees
type fakeResolver struct {
	searched    []string
	searchErr   error
	randomErr   error
	suggestErr  error
	suggestions []string
}

func (f *fakeResolver) Search(ctx context.Context, term string) (*cards.Card, error) {
	f.searched = append(f.searched, term)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if term == "lightning bolt" {
		mana := "{R}"
		return &cards.Card{ID: 1, Name: "Lightning Bolt", TypeLine: "Instant", ManaCost: &mana}, nil
	}
	return nil, nil
}

func (f *fakeResolver) Random(ctx context.Context) (*cards.Card, error) {
	if f.randomErr != nil {
		return nil, f.randomErr
	}
	return &cards.Card{ID: 2, Name: "Shock", TypeLine: "Instant"}, nil
}

func (f *fakeResolver) Suggestions(ctx context.Context, term string) ([]string, error) {
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	if f.suggestions == nil {
		return []string{}, nil
	}
	return f.suggestions, nil
}

func newTestEngine(t *testing.T, resolver *fakeResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := utils.NewConfig(map[string]string{"API_KEY": "secret"})
	engine, err := NewEngine(cfg, resolver)
	require.NoError(t, err)
	return engine
}

func get(engine *gin.Engine, path string, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) sdk.ApiResponse[T] {
	t.Helper()
	var out sdk.ApiResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestNewEngineRequiresAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	_, err := NewEngine(utils.NewConfig(map[string]string{}), &fakeResolver{})
	assert.ErrorContains(t, err, "API_KEY")
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{})

	w := get(engine, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestNoRoute(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{})

	w := get(engine, "/api/nothing-here", "secret")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCardsRequireAPIKey(t *testing.T) {
	resolver := &fakeResolver{}
	engine := newTestEngine(t, resolver)

	for _, path := range []string{"/api/cards/search?q=bolt", "/api/cards/random", "/api/cards/suggestions?q=bo"} {
		w := get(engine, path, "")
		assert.NotEqual(t, http.StatusOK, w.Code, path)

		w = get(engine, path, "wrong")
		assert.NotEqual(t, http.StatusOK, w.Code, path)
	}
	assert.Empty(t, resolver.searched)
}

func TestSearchCard(t *testing.T) {
	t.Run("hit with normalized term", func(t *testing.T) {
		resolver := &fakeResolver{}
		engine := newTestEngine(t, resolver)

		w := get(engine, "/api/cards/search?q=%20%20Lightning%20BOLT%20", "secret")
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[sdk.SearchResponse](t, w)
		require.NotNil(t, res.Data.Card)
		assert.Equal(t, "Lightning Bolt", res.Data.Card.Name)
		assert.Equal(t, "lightning bolt", res.Data.Term)
		assert.Equal(t, []string{"lightning bolt"}, resolver.searched)
	})

	t.Run("miss returns suggestions", func(t *testing.T) {
		resolver := &fakeResolver{suggestions: []string{"Lightning Bolt"}}
		engine := newTestEngine(t, resolver)

		w := get(engine, "/api/cards/search?q=lightning+bot", "secret")
		require.Equal(t, http.StatusNotFound, w.Code)

		res := decode[sdk.SearchResponse](t, w)
		assert.Nil(t, res.Data.Card)
		assert.Equal(t, []string{"Lightning Bolt"}, res.Data.Suggestions)
	})

	t.Run("miss survives a suggestions failure", func(t *testing.T) {
		resolver := &fakeResolver{suggestErr: cards.ErrRemoteUnavailable}
		engine := newTestEngine(t, resolver)

		w := get(engine, "/api/cards/search?q=lightning+bot", "secret")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("blank term is rejected", func(t *testing.T) {
		resolver := &fakeResolver{}
		engine := newTestEngine(t, resolver)

		w := get(engine, "/api/cards/search?q=%20%20", "secret")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, resolver.searched)
	})

	t.Run("errors are mapped without detail", func(t *testing.T) {
		tests := []struct {
			err  error
			code int
		}{
			{fmt.Errorf("fetch: %w: dial tcp: refused", cards.ErrRemoteUnavailable), http.StatusBadGateway},
			{fmt.Errorf("%w: Error 1213: deadlock", cards.ErrPersistence), http.StatusInternalServerError},
			{errors.New("boom"), http.StatusInternalServerError},
		}

		for _, test := range tests {
			engine := newTestEngine(t, &fakeResolver{searchErr: test.err})

			w := get(engine, "/api/cards/search?q=bolt", "secret")
			assert.Equal(t, test.code, w.Code)
			assert.NotContains(t, w.Body.String(), "refused")
			assert.NotContains(t, w.Body.String(), "deadlock")
		}
	})
}

func TestRandomCard(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{})

	w := get(engine, "/api/cards/random", "secret")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[*sdk.Card](t, w)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Shock", res.Data.Name)

	engine = newTestEngine(t, &fakeResolver{randomErr: cards.ErrRemoteUnavailable})
	w = get(engine, "/api/cards/random", "secret")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCardSuggestions(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{suggestions: []string{"Lightning Bolt", "Lightning Helix"}})

	w := get(engine, "/api/cards/suggestions?q=Lightnin", "secret")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[sdk.SuggestionsResponse](t, w)
	assert.Equal(t, "lightnin", res.Data.Term)
	assert.Equal(t, []string{"Lightning Bolt", "Lightning Helix"}, res.Data.Suggestions)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{})

	get(engine, "/api/health", "")
	w := get(engine, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cardbot_api_latency_seconds")
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := newTestEngine(t, &fakeResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
