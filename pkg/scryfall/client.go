package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/metrics"
)

// DefaultBaseURL is the public Scryfall API
const DefaultBaseURL = "https://api.scryfall.com"

// DefaultTimeout bounds every upstream request
const DefaultTimeout = 20 * time.Second

// errNotFound marks a 404 from Scryfall
var errNotFound = errors.New("scryfall: not found")

// Client wraps calls to the Scryfall API. It holds no state beyond its
// HTTP client; retries and rate limiting belong to the transport.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option customises a Client
type Option func(*Client)

// WithUserAgent sets the User-Agent sent with every request
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a Scryfall client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  "cardbot",
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetByName returns the card with the exact name, or nil if Scryfall has none
func (c *Client) GetByName(ctx context.Context, name string) (*cards.RawCard, error) {
	if name == "" {
		return nil, nil
	}

	var card Card
	err := c.getJSON(ctx, "named", "/cards/named", url.Values{"exact": {name}}, &card)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	return card.ToRawCard(), nil
}

// Random returns a random card
func (c *Client) Random(ctx context.Context) (*cards.RawCard, error) {
	var card Card
	if err := c.getJSON(ctx, "random", "/cards/random", nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get random card: %w", err)
	}

	return card.ToRawCard(), nil
}

// Suggestions returns up to 20 card names completing the partial term
func (c *Client) Suggestions(ctx context.Context, partial string) ([]string, error) {
	if partial == "" {
		return []string{}, nil
	}

	var catalog Catalog
	if err := c.getJSON(ctx, "autocomplete", "/cards/autocomplete", url.Values{"q": {partial}}, &catalog); err != nil {
		return nil, fmt.Errorf("failed to get suggestions for %q: %w", partial, err)
	}

	if catalog.Data == nil {
		return []string{}, nil
	}
	return catalog.Data, nil
}

// getJSON performs a GET and decodes the body into out. A 404 yields errNotFound;
// transport failures and other statuses yield cards.ErrRemoteUnavailable.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RemoteLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			metrics.RemoteRequests.WithLabelValues(op, "ok").Inc()
		case errors.Is(err, errNotFound):
			metrics.RemoteRequests.WithLabelValues(op, "not_found").Inc()
		default:
			metrics.RemoteRequests.WithLabelValues(op, "error").Inc()
		}
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", cards.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", cards.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return errNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var apiErr Error
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Details != "" {
			return fmt.Errorf("%w: scryfall '%s' failed: %d: %s", cards.ErrRemoteUnavailable, path, resp.StatusCode, apiErr.Details)
		}
		return fmt.Errorf("%w: scryfall '%s' failed: %d: %s", cards.ErrRemoteUnavailable, path, resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode scryfall response: %w", cards.ErrRemoteUnavailable, err)
	}

	return nil
}
